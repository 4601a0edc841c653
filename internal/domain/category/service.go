package category

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Service handles business logic for categories
type Service struct {
	repo Repository
}

// NewService creates a new category service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SeedDefaults creates the default categories for a new user. Categories the
// user already has are skipped.
func (s *Service) SeedDefaults(ctx context.Context, userID int64) error {
	for _, def := range DefaultCategories() {
		existing, err := s.repo.FindByUserNameAndType(ctx, userID, def.Name, def.Type)
		if err != nil {
			return fmt.Errorf("failed to check existing category: %w", err)
		}
		if existing != nil {
			continue
		}

		c := def
		c.UserID = userID
		c.IsActive = true
		if _, err := s.repo.Create(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", def.Name, err)
		}
	}
	log.Printf("Seeded default categories for user %d", userID)
	return nil
}

// ListForUser returns the user's active categories, optionally filtered by type.
func (s *Service) ListForUser(ctx context.Context, userID int64, categoryType string) ([]*Category, error) {
	if categoryType != "" && !IsValidType(categoryType) {
		return nil, fmt.Errorf("%w: unknown category type %q", ErrInvalidInput, categoryType)
	}
	return s.repo.ListByUser(ctx, userID, categoryType)
}

// CreateCategory creates a custom category for the user.
func (s *Service) CreateCategory(ctx context.Context, userID int64, name, categoryType, color, icon string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	if !IsValidType(categoryType) {
		return nil, fmt.Errorf("%w: unknown category type %q", ErrInvalidInput, categoryType)
	}

	existing, err := s.repo.FindByUserNameAndType(ctx, userID, name, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateCategory
	}

	return s.repo.Create(ctx, &Category{
		UserID:   userID,
		Name:     name,
		Type:     categoryType,
		Color:    color,
		Icon:     icon,
		IsActive: true,
	})
}

// FindOrCreate returns the user's category with the given name and type,
// creating it without color or icon when absent.
func (s *Service) FindOrCreate(ctx context.Context, userID int64, name, categoryType string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	if !IsValidType(categoryType) {
		return nil, fmt.Errorf("%w: unknown category type %q", ErrInvalidInput, categoryType)
	}

	existing, err := s.repo.FindByUserNameAndType(ctx, userID, name, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	return s.repo.Create(ctx, &Category{
		UserID:   userID,
		Name:     name,
		Type:     categoryType,
		IsActive: true,
	})
}

// RemoveCategory deactivates a category, keeping past transactions intact.
func (s *Service) RemoveCategory(ctx context.Context, userID, categoryID int64) error {
	return s.repo.Deactivate(ctx, userID, categoryID)
}
