package user

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already registered")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidName       = errors.New("name must be between 2 and 500 characters")
)

// WeakPasswordError reports why a candidate password was rejected.
type WeakPasswordError struct {
	Issues []string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password too weak: %d issues", len(e.Issues))
}

// InvalidPasswordError is returned on a failed login attempt that did not
// lock the account.
type InvalidPasswordError struct {
	AttemptsRemaining int
}

func (e *InvalidPasswordError) Error() string {
	return fmt.Sprintf("invalid password: %d attempts remaining", e.AttemptsRemaining)
}

// AccountLockedError is returned while the account lockout is in effect.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format("15:04"))
}

// User represents a registered chat user.
type User struct {
	ID                  int64
	ChatID              int64
	Name                string
	Email               string
	PasswordHash        string
	PasswordSalt        string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CreateParams contains parameters for creating a new user
type CreateParams struct {
	ChatID       int64
	Name         string
	Email        string
	PasswordHash string
	PasswordSalt string
}
