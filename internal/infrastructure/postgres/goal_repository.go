package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/goal"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, title, description, type, target_amount, current_amount,
	       target_date, category_id, priority, is_active, is_completed, completed_at, created_at`

func (r *GoalRepository) Create(ctx context.Context, params goal.CreateParams) (*goal.Goal, error) {
	query := `
		INSERT INTO goals (user_id, title, description, type, target_amount, target_date, category_id, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + goalColumns

	g, err := scanGoal(r.db.QueryRowContext(
		ctx, query,
		params.UserID, params.Title, params.Description, params.Type,
		params.TargetAmount, params.TargetDate, params.CategoryID, params.Priority,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND is_active = TRUE`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int64, includeCompleted bool) ([]*goal.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1 AND is_active = TRUE AND ($2 OR is_completed = FALSE)
		ORDER BY priority DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, includeCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating goals: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) UpdateProgress(ctx context.Context, id int64, currentAmount decimal.Decimal, completedAt *time.Time) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET current_amount = $2,
		    is_completed = is_completed OR $3::timestamptz IS NOT NULL,
		    completed_at = COALESCE(completed_at, $3)
		WHERE id = $1 AND is_active = TRUE
		RETURNING ` + goalColumns

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, currentAmount, completedAt))
	if err == sql.ErrNoRows {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal progress: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE goals SET is_active = FALSE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate goal: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*goal.Goal, error) {
	var g goal.Goal
	var description sql.NullString
	var targetDate, completedAt sql.NullTime
	var categoryID sql.NullInt64

	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &description, &g.Type, &g.TargetAmount, &g.CurrentAmount,
		&targetDate, &categoryID, &g.Priority, &g.IsActive, &g.IsCompleted, &completedAt, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.Description = description.String
	if targetDate.Valid {
		g.TargetDate = &targetDate.Time
	}
	if categoryID.Valid {
		g.CategoryID = &categoryID.Int64
	}
	if completedAt.Valid {
		g.CompletedAt = &completedAt.Time
	}
	return &g, nil
}
