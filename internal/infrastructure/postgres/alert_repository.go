package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finbot/internal/domain/alert"
)

type AlertRepository struct {
	db *DB
}

func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

const alertColumns = `id, user_id, type, title, message, related_id, related_type,
	       priority, is_read, expires_at, created_at`

func (r *AlertRepository) Create(ctx context.Context, params alert.CreateParams) (*alert.Alert, error) {
	query := `
		INSERT INTO alerts (user_id, type, title, message, related_id, related_type, priority, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + alertColumns

	a, err := scanAlert(r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Type, params.Title, params.Message,
		params.RelatedID, params.RelatedType, params.Priority, params.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return a, nil
}

func (r *AlertRepository) ListUnread(ctx context.Context, userID int64) ([]*alert.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE user_id = $1 AND is_read = FALSE
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY priority DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating alerts: %w", err)
	}
	return alerts, nil
}

func (r *AlertRepository) MarkRead(ctx context.Context, alertID, userID int64) error {
	query := `UPDATE alerts SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, alertID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return alert.ErrAlertNotFound
	}
	return nil
}

func (r *AlertRepository) UpsertDeviceToken(ctx context.Context, userID int64, token, platform string) (*alert.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (user_id, token, platform)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET user_id = $1, platform = $3, is_active = TRUE
		RETURNING id, user_id, token, platform, is_active, created_at
	`

	var dt alert.DeviceToken
	err := r.db.QueryRowContext(ctx, query, userID, token, platform).Scan(
		&dt.ID, &dt.UserID, &dt.Token, &dt.Platform, &dt.IsActive, &dt.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}
	return &dt, nil
}

// DeactivateToken marks a device token inactive, typically after the push
// provider reports it as unregistered.
func (r *AlertRepository) DeactivateToken(ctx context.Context, token string) error {
	query := `UPDATE device_tokens SET is_active = FALSE WHERE token = $1`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}
	return nil
}

func (r *AlertRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*alert.DeviceToken, error) {
	query := `
		SELECT id, user_id, token, platform, is_active, created_at
		FROM device_tokens
		WHERE user_id = $1 AND is_active = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*alert.DeviceToken
	for rows.Next() {
		var dt alert.DeviceToken
		if err := rows.Scan(&dt.ID, &dt.UserID, &dt.Token, &dt.Platform, &dt.IsActive, &dt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, &dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating device tokens: %w", err)
	}
	return tokens, nil
}

func scanAlert(row rowScanner) (*alert.Alert, error) {
	var a alert.Alert
	var relatedID sql.NullInt64
	var relatedType sql.NullString
	var expiresAt sql.NullTime

	err := row.Scan(
		&a.ID, &a.UserID, &a.Type, &a.Title, &a.Message, &relatedID, &relatedType,
		&a.Priority, &a.IsRead, &expiresAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if relatedID.Valid {
		a.RelatedID = &relatedID.Int64
	}
	a.RelatedType = relatedType.String
	if expiresAt.Valid {
		a.ExpiresAt = &expiresAt.Time
	}
	return &a, nil
}
