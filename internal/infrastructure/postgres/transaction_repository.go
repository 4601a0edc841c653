package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"finbot/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, title, description, amount, type, category_id, account_key,
	       transaction_date, status, is_recurring, notes, tags,
	       installment_number, installment_total, installment_parent_id, created_at, updated_at`

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, title, description, amount, type, category_id, account_key,
		                          transaction_date, status, is_recurring, notes, tags,
		                          installment_number, installment_total, installment_parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + transactionColumns

	var number, total sql.NullInt64
	var parentID sql.NullString
	if t.Installment != nil {
		number = sql.NullInt64{Int64: int64(t.Installment.Number), Valid: true}
		total = sql.NullInt64{Int64: int64(t.Installment.Total), Valid: true}
		parentID = sql.NullString{String: t.Installment.ParentID, Valid: true}
	}

	created, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Amount, t.Type, t.CategoryID, t.AccountKey,
		t.Date, t.Status, t.IsRecurring, t.Notes, pq.Array(t.Tags),
		number, total, parentID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2
		ORDER BY transaction_date DESC, created_at DESC
	`
	return r.list(ctx, query, userID, since)
}

func (r *TransactionRepository) ListByParentID(ctx context.Context, parentID string) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE installment_parent_id = $1
		ORDER BY installment_number
	`
	return r.list(ctx, query, parentID)
}

func (r *TransactionRepository) MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*transaction.MonthlySummary, error) {
	totalsQuery := `
		SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0),
		       COALESCE(SUM(CASE WHEN type = 'expense' THEN -amount END), 0)
		FROM transactions
		WHERE user_id = $1
		  AND EXTRACT(YEAR FROM transaction_date) = $2
		  AND EXTRACT(MONTH FROM transaction_date) = $3
	`

	summary := &transaction.MonthlySummary{Year: year, Month: month}
	err := r.db.QueryRowContext(ctx, totalsQuery, userID, year, int(month)).Scan(
		&summary.TotalIncome, &summary.TotalExpense,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate month: %w", err)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)

	byCategoryQuery := `
		SELECT t.category_id, COALESCE(c.name, 'Sem categoria'), SUM(-t.amount), COUNT(*)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = 'expense'
		  AND EXTRACT(YEAR FROM t.transaction_date) = $2
		  AND EXTRACT(MONTH FROM t.transaction_date) = $3
		GROUP BY t.category_id, c.name
		ORDER BY SUM(-t.amount) DESC
	`

	rows, err := r.db.QueryContext(ctx, byCategoryQuery, userID, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct transaction.CategoryTotal
		var categoryID sql.NullInt64
		var total decimal.Decimal
		if err := rows.Scan(&categoryID, &ct.CategoryName, &total, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		if categoryID.Valid {
			ct.CategoryID = &categoryID.Int64
		}
		ct.Total = total
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating category totals: %w", err)
	}
	return summary, nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating transactions: %w", err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var categoryID, number, total sql.NullInt64
	var notes, parentID sql.NullString

	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Amount, &t.Type, &categoryID, &t.AccountKey,
		&t.Date, &t.Status, &t.IsRecurring, &notes, pq.Array(&t.Tags),
		&number, &total, &parentID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	t.Notes = notes.String
	if parentID.Valid {
		t.Installment = &transaction.InstallmentInfo{
			Number:   int(number.Int64),
			Total:    int(total.Int64),
			ParentID: parentID.String,
		}
	}
	return &t, nil
}
