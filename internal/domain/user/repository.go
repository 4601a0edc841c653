package user

import (
	"context"
	"time"
)

// LoginState captures the lockout bookkeeping updated on every login attempt.
type LoginState struct {
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
}

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	// FindByChatID returns nil, nil when no user matches.
	FindByChatID(ctx context.Context, chatID int64) (*User, error)
	// FindByEmail returns nil, nil when no user matches.
	FindByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateCredentials(ctx context.Context, id int64, passwordHash, passwordSalt string) error
	UpdateLoginState(ctx context.Context, id int64, state LoginState) error
}
