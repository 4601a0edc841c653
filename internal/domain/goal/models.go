package goal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Goal types
const (
	TypeSavings   = "savings"
	TypeSpending  = "spending_limit"
	TypeDebt      = "debt_payoff"
	TypeInvesting = "investment"
)

// Domain errors
var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("access forbidden")
)

// Goal is a savings target the user deposits toward.
type Goal struct {
	ID            int64
	UserID        int64
	Title         string
	Description   string
	Type          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    *time.Time
	CategoryID    *int64
	Priority      int
	IsActive      bool
	IsCompleted   bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

// Progress returns the completion percentage, capped at 100.
func (g *Goal) Progress() float64 {
	if g.TargetAmount.IsZero() {
		return 0
	}
	pct, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

// CreateParams contains parameters for creating a new goal
type CreateParams struct {
	UserID       int64
	Title        string
	Description  string
	Type         string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	CategoryID   *int64
	Priority     int
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Title == "" {
		return errors.New("goal title is required")
	}
	if !p.TargetAmount.IsPositive() {
		return errors.New("target amount must be positive")
	}
	switch p.Type {
	case TypeSavings, TypeSpending, TypeDebt, TypeInvesting:
	default:
		return errors.New("unknown goal type")
	}
	return nil
}
