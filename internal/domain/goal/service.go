package goal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"finbot/internal/domain/alert"
)

// Service handles business logic for goals
type Service struct {
	repo   Repository
	alerts *alert.Service
	now    func() time.Time
}

// NewService creates a new goal service. alerts may be nil; completion is
// then not announced.
func NewService(repo Repository, alerts *alert.Service) *Service {
	return &Service{repo: repo, alerts: alerts, now: time.Now}
}

// CreateGoal creates a new goal for the user.
func (s *Service) CreateGoal(ctx context.Context, params CreateParams) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if params.Priority == 0 {
		params.Priority = 1
	}
	return s.repo.Create(ctx, params)
}

// ListGoals returns the user's goals.
func (s *Service) ListGoals(ctx context.Context, userID int64, includeCompleted bool) ([]*Goal, error) {
	return s.repo.ListByUser(ctx, userID, includeCompleted)
}

// Deposit adds amount to the goal's progress. Crossing the target flips
// the goal to completed and raises a completion alert once.
func (s *Service) Deposit(ctx context.Context, userID, goalID int64, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit must be positive", ErrInvalidInput)
	}

	g, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up goal: %w", err)
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}

	newAmount := g.CurrentAmount.Add(amount)
	var completedAt *time.Time
	justCompleted := false
	if newAmount.GreaterThanOrEqual(g.TargetAmount) {
		now := s.now()
		completedAt = &now
		justCompleted = !g.IsCompleted
	}

	updated, err := s.repo.UpdateProgress(ctx, goalID, newAmount, completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal progress: %w", err)
	}

	if justCompleted && s.alerts != nil {
		relatedID := g.ID
		_, err := s.alerts.Notify(ctx, alert.CreateParams{
			UserID:      g.UserID,
			Type:        alert.TypeGoalCompleted,
			Title:       "🎉 Meta Conquistada!",
			Message:     fmt.Sprintf("Parabéns! Você atingiu a meta %q", g.Title),
			RelatedID:   &relatedID,
			RelatedType: "goal",
		})
		if err != nil {
			log.Printf("Failed to raise completion alert for goal %d: %v", g.ID, err)
		}
	}

	return updated, nil
}

// RemoveGoal deactivates a goal, verifying ownership.
func (s *Service) RemoveGoal(ctx context.Context, userID, goalID int64) error {
	g, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		return fmt.Errorf("failed to look up goal: %w", err)
	}
	if g == nil {
		return ErrGoalNotFound
	}
	if g.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Deactivate(ctx, goalID)
}
