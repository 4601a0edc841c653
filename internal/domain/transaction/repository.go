package transaction

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*Transaction, error)
	ListByParentID(ctx context.Context, parentID string) ([]*Transaction, error)
	// MonthlySummary aggregates the user's records for the given month.
	MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*MonthlySummary, error)
}
