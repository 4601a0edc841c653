package alert

import "context"

// Repository defines the interface for alert data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Alert, error)
	// ListUnread returns the user's unread, unexpired alerts ordered by
	// priority then recency.
	ListUnread(ctx context.Context, userID int64) ([]*Alert, error)
	MarkRead(ctx context.Context, alertID, userID int64) error
	UpsertDeviceToken(ctx context.Context, userID int64, token, platform string) (*DeviceToken, error)
	GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*DeviceToken, error)
}
