package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Transaction statuses
const (
	StatusPaid      = "paid"
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBatchFailed         = errors.New("too many installment writes failed")
)

// InstallmentInfo ties a record to its installment group. Number is
// 1-based; all records of a group share ParentID and Total.
type InstallmentInfo struct {
	Number   int
	Total    int
	ParentID string
}

// Transaction is a single financial record. Amount is signed: negative
// for expenses, positive for income.
type Transaction struct {
	ID          string
	UserID      int64
	Title       string
	Description string
	Amount      decimal.Decimal
	Type        string
	CategoryID  *int64
	AccountKey  string
	Date        time.Time
	Status      string
	IsRecurring bool
	Notes       string
	Tags        []string
	Installment *InstallmentInfo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams carries the user-entered fields of a new record. Amount is
// the absolute value; the service applies the sign from Type.
type CreateParams struct {
	UserID      int64
	Title       string
	Description string
	Amount      decimal.Decimal
	Type        string
	CategoryID  *int64
	AccountKey  string
	AccountName string
	Date        time.Time
	IsRecurring bool
	Tags        []string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.Type != TypeExpense && p.Type != TypeIncome {
		return errors.New("type must be expense or income")
	}
	if !p.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// MonthlySummary aggregates a user's records for one calendar month.
type MonthlySummary struct {
	Month        time.Month
	Year         int
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	ByCategory   []CategoryTotal
}

// CategoryTotal is one category's share of a monthly summary.
type CategoryTotal struct {
	CategoryID   *int64
	CategoryName string
	Total        decimal.Decimal
	Count        int
}
