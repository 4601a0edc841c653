package user

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"finbot/internal/shared/auth"
	"finbot/internal/shared/parse"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 30 * time.Minute

	minNameLength = 2
	maxNameLength = 500
)

// Service handles registration and authentication
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new user service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register creates a new user after validating name, email and password
// strength. Email is optional and may be empty.
func (s *Service) Register(ctx context.Context, params CreateParams, password string) (*User, error) {
	params.Name = strings.TrimSpace(params.Name)
	if n := utf8.RuneCountInString(params.Name); n < minNameLength || n > maxNameLength {
		return nil, ErrInvalidName
	}

	params.Email = strings.TrimSpace(params.Email)
	if params.Email != "" && !parse.ValidEmail(params.Email) {
		return nil, ErrInvalidEmail
	}

	score := auth.ScorePassword(password)
	if !score.Valid {
		return nil, &WeakPasswordError{Issues: score.Issues}
	}

	existing, err := s.repo.FindByChatID(ctx, params.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if params.Email != "" {
		existing, err = s.repo.FindByEmail(ctx, params.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil {
			return nil, ErrUserAlreadyExists
		}
	}

	hash, salt, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	params.PasswordHash = hash
	params.PasswordSalt = salt

	created, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("New user registered: %s (ID: %d)", created.Name, created.ID)
	return created, nil
}

// EmailInUse reports whether another account already registered this email.
func (s *Service) EmailInUse(ctx context.Context, email string) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, fmt.Errorf("failed to check existing email: %w", err)
	}
	return existing != nil, nil
}

// Authenticate verifies the password for the user bound to chatID, applying
// the failed-attempt lockout. A success clears the lockout state.
func (s *Service) Authenticate(ctx context.Context, chatID int64, password string) (*User, error) {
	u, err := s.repo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if !u.IsActive {
		return nil, ErrAccountInactive
	}

	now := s.now()
	if u.LockedUntil != nil && u.LockedUntil.After(now) {
		return nil, &AccountLockedError{Until: *u.LockedUntil}
	}

	if auth.VerifyPassword(password, u.PasswordHash, u.PasswordSalt) {
		loginAt := now
		if err := s.repo.UpdateLoginState(ctx, u.ID, LoginState{LastLoginAt: &loginAt}); err != nil {
			return nil, fmt.Errorf("failed to record login: %w", err)
		}
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
		u.LastLoginAt = &loginAt
		return u, nil
	}

	attempts := u.FailedLoginAttempts + 1
	state := LoginState{FailedLoginAttempts: attempts, LastLoginAt: u.LastLoginAt}
	if attempts >= maxFailedAttempts {
		until := now.Add(lockoutDuration)
		state.LockedUntil = &until
	}
	if err := s.repo.UpdateLoginState(ctx, u.ID, state); err != nil {
		return nil, fmt.Errorf("failed to record failed attempt: %w", err)
	}

	if state.LockedUntil != nil {
		log.Printf("Account locked for user %d after %d failed attempts", u.ID, attempts)
		return nil, &AccountLockedError{Until: *state.LockedUntil}
	}
	return nil, &InvalidPasswordError{AttemptsRemaining: maxFailedAttempts - attempts}
}

// ChangePassword replaces the user's password after verifying the current one
// and checking the strength of the new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	score := auth.ScorePassword(newPassword)
	if !score.Valid {
		return &WeakPasswordError{Issues: score.Issues}
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil || !u.IsActive {
		return ErrUserNotFound
	}

	if !auth.VerifyPassword(oldPassword, u.PasswordHash, u.PasswordSalt) {
		return &InvalidPasswordError{AttemptsRemaining: maxFailedAttempts}
	}

	hash, salt, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdateCredentials(ctx, u.ID, hash, salt); err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}

	log.Printf("Password changed for user %d", u.ID)
	return nil
}

// Profile returns the user bound to chatID.
func (s *Service) Profile(ctx context.Context, chatID int64) (*User, error) {
	u, err := s.repo.FindByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
