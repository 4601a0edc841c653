package alert

import (
	"errors"
	"time"
)

// Alert types raised by the bot.
const (
	TypeGoalCompleted = "goal_completed"
	TypeGoalProgress  = "goal_progress"
	TypeBudgetWarning = "budget_warning"
	TypeGeneral       = "general"
)

// Domain errors
var (
	ErrAlertNotFound = errors.New("alert not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// Alert is an in-app notification shown to the user and optionally pushed
// to their devices.
type Alert struct {
	ID          int64
	UserID      int64
	Type        string
	Title       string
	Message     string
	RelatedID   *int64
	RelatedType string
	Priority    int
	IsRead      bool
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}

// DeviceToken is a push-notification target registered by a user's device.
type DeviceToken struct {
	ID        int64
	UserID    int64
	Token     string
	Platform  string
	IsActive  bool
	CreatedAt time.Time
}

// CreateParams contains parameters for raising a new alert
type CreateParams struct {
	UserID      int64
	Type        string
	Title       string
	Message     string
	RelatedID   *int64
	RelatedType string
	Priority    int
	ExpiresAt   *time.Time
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Type == "" {
		return errors.New("alert type is required")
	}
	if p.Title == "" || p.Message == "" {
		return errors.New("title and message are required")
	}
	return nil
}
