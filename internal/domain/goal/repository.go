package goal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for goal data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Goal, error)
	// GetByID returns nil, nil when no active goal matches.
	GetByID(ctx context.Context, id int64) (*Goal, error)
	// ListByUser returns the user's active goals, optionally including
	// completed ones, ordered by priority then recency.
	ListByUser(ctx context.Context, userID int64, includeCompleted bool) ([]*Goal, error)
	UpdateProgress(ctx context.Context, id int64, currentAmount decimal.Decimal, completedAt *time.Time) (*Goal, error)
	Deactivate(ctx context.Context, id int64) error
}
