package alert

import (
	"context"
	"fmt"
	"log"
)

// Service contains the business logic for alert operations
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new alert service. messenger may be nil when push
// delivery is not configured; alerts are then record-only.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// Notify records an alert and pushes it to the user's active devices.
// Push failures are logged, not returned: the stored record is the source
// of truth.
func (s *Service) Notify(ctx context.Context, params CreateParams) (*Alert, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to store alert: %w", err)
	}

	if s.messenger == nil {
		return created, nil
	}

	tokens, err := s.repo.GetActiveTokensByUserID(ctx, params.UserID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %d: %v", params.UserID, err)
		return created, nil
	}
	if len(tokens) == 0 {
		return created, nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}
	data := map[string]string{"type": params.Type}
	if err := s.messenger.SendMulticast(ctx, tokenStrings, params.Title, params.Message, data); err != nil {
		log.Printf("Failed to push alert to user %d: %v", params.UserID, err)
	}

	return created, nil
}

// Unread returns the user's unread alerts.
func (s *Service) Unread(ctx context.Context, userID int64) ([]*Alert, error) {
	return s.repo.ListUnread(ctx, userID)
}

// MarkRead marks one alert as read, scoped to the owning user.
func (s *Service) MarkRead(ctx context.Context, alertID, userID int64) error {
	return s.repo.MarkRead(ctx, alertID, userID)
}

// RegisterDevice stores a push token for the user's device.
func (s *Service) RegisterDevice(ctx context.Context, userID int64, token, platform string) (*DeviceToken, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: device token is required", ErrInvalidInput)
	}
	return s.repo.UpsertDeviceToken(ctx, userID, token, platform)
}
