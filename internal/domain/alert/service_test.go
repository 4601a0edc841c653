package alert

import (
	"context"
	"errors"
	"testing"
)

// MockAlertRepo implements Repository for testing
type MockAlertRepo struct {
	CreateFunc                  func(ctx context.Context, params CreateParams) (*Alert, error)
	ListUnreadFunc              func(ctx context.Context, userID int64) ([]*Alert, error)
	MarkReadFunc                func(ctx context.Context, alertID, userID int64) error
	UpsertDeviceTokenFunc       func(ctx context.Context, userID int64, token, platform string) (*DeviceToken, error)
	GetActiveTokensByUserIDFunc func(ctx context.Context, userID int64) ([]*DeviceToken, error)
}

func (m *MockAlertRepo) Create(ctx context.Context, params CreateParams) (*Alert, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &Alert{ID: 1, UserID: params.UserID, Type: params.Type, Title: params.Title, Message: params.Message}, nil
}
func (m *MockAlertRepo) ListUnread(ctx context.Context, userID int64) ([]*Alert, error) {
	if m.ListUnreadFunc != nil {
		return m.ListUnreadFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockAlertRepo) MarkRead(ctx context.Context, alertID, userID int64) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, alertID, userID)
	}
	return nil
}
func (m *MockAlertRepo) UpsertDeviceToken(ctx context.Context, userID int64, token, platform string) (*DeviceToken, error) {
	if m.UpsertDeviceTokenFunc != nil {
		return m.UpsertDeviceTokenFunc(ctx, userID, token, platform)
	}
	return &DeviceToken{ID: 1, UserID: userID, Token: token, Platform: platform, IsActive: true}, nil
}
func (m *MockAlertRepo) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*DeviceToken, error) {
	if m.GetActiveTokensByUserIDFunc != nil {
		return m.GetActiveTokensByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

// MockMessenger implements Messenger for testing
type MockMessenger struct {
	SendFunc          func(ctx context.Context, token, title, body string, data map[string]string) error
	SendMulticastFunc func(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

func (m *MockMessenger) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, token, title, body, data)
	}
	return nil
}
func (m *MockMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if m.SendMulticastFunc != nil {
		return m.SendMulticastFunc(ctx, tokens, title, body, data)
	}
	return nil
}

func TestNotify_StoresAndPushes(t *testing.T) {
	var pushed []string
	repo := &MockAlertRepo{
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return []*DeviceToken{{Token: "tok-1"}, {Token: "tok-2"}}, nil
		},
	}
	messenger := &MockMessenger{
		SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			pushed = tokens
			return nil
		},
	}
	svc := NewService(repo, messenger)

	created, err := svc.Notify(context.Background(), CreateParams{
		UserID:  1,
		Type:    TypeGoalCompleted,
		Title:   "🎉 Meta Conquistada!",
		Message: "Parabéns! Você atingiu a meta \"Viagem\"",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected stored alert")
	}
	if len(pushed) != 2 {
		t.Errorf("expected push to 2 tokens, got %d", len(pushed))
	}
}

func TestNotify_PushFailureIsNotFatal(t *testing.T) {
	repo := &MockAlertRepo{
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return []*DeviceToken{{Token: "tok-1"}}, nil
		},
	}
	messenger := &MockMessenger{
		SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
			return errors.New("fcm unavailable")
		},
	}
	svc := NewService(repo, messenger)

	if _, err := svc.Notify(context.Background(), CreateParams{
		UserID: 1, Type: TypeGeneral, Title: "t", Message: "m",
	}); err != nil {
		t.Errorf("push failure must not fail Notify: %v", err)
	}
}

func TestNotify_NilMessenger(t *testing.T) {
	svc := NewService(&MockAlertRepo{}, nil)

	if _, err := svc.Notify(context.Background(), CreateParams{
		UserID: 1, Type: TypeGeneral, Title: "t", Message: "m",
	}); err != nil {
		t.Errorf("Notify without messenger failed: %v", err)
	}
}

func TestNotify_InvalidParams(t *testing.T) {
	svc := NewService(&MockAlertRepo{}, nil)

	_, err := svc.Notify(context.Background(), CreateParams{UserID: 1, Type: TypeGeneral})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
