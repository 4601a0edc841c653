package category

import "context"

// Repository defines the interface for category data access
type Repository interface {
	Create(ctx context.Context, c *Category) (*Category, error)
	// FindByUserNameAndType returns nil, nil when no category matches.
	FindByUserNameAndType(ctx context.Context, userID int64, name, categoryType string) (*Category, error)
	// ListByUser returns the user's active categories. An empty categoryType
	// returns both expense and income categories.
	ListByUser(ctx context.Context, userID int64, categoryType string) ([]*Category, error)
	Deactivate(ctx context.Context, userID, categoryID int64) error
}
