package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finbot/internal/domain/category"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) (*category.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, color, icon)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, type, color, icon, is_active, created_at
	`

	var created category.Category
	err := r.db.QueryRowContext(
		ctx, query,
		c.UserID, c.Name, c.Type, c.Color, c.Icon,
	).Scan(
		&created.ID, &created.UserID, &created.Name, &created.Type,
		&created.Color, &created.Icon, &created.IsActive, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &created, nil
}

func (r *CategoryRepository) FindByUserNameAndType(ctx context.Context, userID int64, name, categoryType string) (*category.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, icon, is_active, created_at
		FROM categories
		WHERE user_id = $1 AND name = $2 AND type = $3 AND is_active = TRUE
	`

	var c category.Category
	err := r.db.QueryRowContext(ctx, query, userID, name, categoryType).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsActive, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64, categoryType string) ([]*category.Category, error) {
	query := `
		SELECT id, user_id, name, type, color, icon, is_active, created_at
		FROM categories
		WHERE user_id = $1 AND is_active = TRUE AND ($2 = '' OR type = $2)
		ORDER BY type, name
	`

	rows, err := r.db.QueryContext(ctx, query, userID, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Color, &c.Icon, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, userID, categoryID int64) error {
	query := `UPDATE categories SET is_active = FALSE WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, categoryID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}
