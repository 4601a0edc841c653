package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finbot/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, chat_id, name, email, password_hash, password_salt, is_active,
	       failed_login_attempts, locked_until, last_login_at, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (chat_id, name, email, password_hash, password_salt)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(
		ctx, query,
		params.ChatID, params.Name, params.Email, params.PasswordHash, params.PasswordSalt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByChatID(ctx context.Context, chatID int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE chat_id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, chatID))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by chat id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash, passwordSalt string) error {
	query := `
		UPDATE users
		SET password_hash = $2, password_salt = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLoginState(ctx context.Context, id int64, state user.LoginState) error {
	query := `
		UPDATE users
		SET failed_login_attempts = $2, locked_until = $3, last_login_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, state.FailedLoginAttempts, state.LockedUntil, state.LastLoginAt)
	if err != nil {
		return fmt.Errorf("failed to update login state: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// ListActiveIDs returns the IDs of every active user, for periodic jobs.
func (r *UserRepository) ListActiveIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM users WHERE is_active = TRUE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var email sql.NullString
	var lockedUntil, lastLoginAt sql.NullTime

	err := row.Scan(
		&u.ID, &u.ChatID, &u.Name, &email, &u.PasswordHash, &u.PasswordSalt, &u.IsActive,
		&u.FailedLoginAttempts, &lockedUntil, &lastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	if lockedUntil.Valid {
		u.LockedUntil = &lockedUntil.Time
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return &u, nil
}
