package flow

import (
	"context"
	"time"

	"finbot/internal/domain/category"
	"finbot/internal/domain/goal"
	"finbot/internal/domain/transaction"
	"finbot/internal/domain/user"

	"github.com/shopspring/decimal"
)

// fakeTransactionRepo is an in-memory transaction store.
type fakeTransactionRepo struct {
	created   []*transaction.Transaction
	createErr error
	summary   *transaction.MonthlySummary
}

func (r *fakeTransactionRepo) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, t)
	return t, nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	for _, t := range r.created {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, t := range r.created {
		if t.UserID == userID && !t.Date.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListByParentID(ctx context.Context, parentID string) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for _, t := range r.created {
		if t.Installment != nil && t.Installment.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*transaction.MonthlySummary, error) {
	if r.summary != nil {
		return r.summary, nil
	}
	return &transaction.MonthlySummary{Year: year, Month: month}, nil
}

// fakeCategoryRepo is an in-memory category store.
type fakeCategoryRepo struct {
	nextID     int64
	categories []*category.Category
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *category.Category) (*category.Category, error) {
	r.nextID++
	c.ID = r.nextID
	r.categories = append(r.categories, c)
	return c, nil
}

func (r *fakeCategoryRepo) FindByUserNameAndType(ctx context.Context, userID int64, name, categoryType string) (*category.Category, error) {
	for _, c := range r.categories {
		if c.UserID == userID && c.Name == name && c.Type == categoryType {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) ListByUser(ctx context.Context, userID int64, categoryType string) ([]*category.Category, error) {
	var out []*category.Category
	for _, c := range r.categories {
		if c.UserID == userID && (categoryType == "" || c.Type == categoryType) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Deactivate(ctx context.Context, userID, categoryID int64) error {
	return nil
}

// fakeUserRepo is an in-memory user store.
type fakeUserRepo struct {
	nextID int64
	users  []*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	r.nextID++
	u := &user.User{
		ID:           r.nextID,
		ChatID:       params.ChatID,
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		PasswordSalt: params.PasswordSalt,
		IsActive:     true,
	}
	r.users = append(r.users, u)
	return u, nil
}

func (r *fakeUserRepo) FindByChatID(ctx context.Context, chatID int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ChatID == chatID {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateCredentials(ctx context.Context, id int64, passwordHash, passwordSalt string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
			u.PasswordSalt = passwordSalt
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdateLoginState(ctx context.Context, id int64, state user.LoginState) error {
	for _, u := range r.users {
		if u.ID == id {
			u.FailedLoginAttempts = state.FailedLoginAttempts
			u.LockedUntil = state.LockedUntil
			u.LastLoginAt = state.LastLoginAt
		}
	}
	return nil
}

// fakeGoalRepo is an in-memory goal store.
type fakeGoalRepo struct {
	nextID int64
	goals  []*goal.Goal
}

func (r *fakeGoalRepo) Create(ctx context.Context, params goal.CreateParams) (*goal.Goal, error) {
	r.nextID++
	g := &goal.Goal{
		ID:           r.nextID,
		UserID:       params.UserID,
		Title:        params.Title,
		Description:  params.Description,
		Type:         params.Type,
		TargetAmount: params.TargetAmount,
		TargetDate:   params.TargetDate,
		Priority:     params.Priority,
		IsActive:     true,
	}
	r.goals = append(r.goals, g)
	return g, nil
}

func (r *fakeGoalRepo) GetByID(ctx context.Context, id int64) (*goal.Goal, error) {
	for _, g := range r.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (r *fakeGoalRepo) ListByUser(ctx context.Context, userID int64, includeCompleted bool) ([]*goal.Goal, error) {
	var out []*goal.Goal
	for _, g := range r.goals {
		if g.UserID == userID && (includeCompleted || !g.IsCompleted) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) UpdateProgress(ctx context.Context, id int64, currentAmount decimal.Decimal, completedAt *time.Time) (*goal.Goal, error) {
	for _, g := range r.goals {
		if g.ID == id {
			g.CurrentAmount = currentAmount
			if completedAt != nil {
				g.IsCompleted = true
				g.CompletedAt = completedAt
			}
			return g, nil
		}
	}
	return nil, goal.ErrGoalNotFound
}

func (r *fakeGoalRepo) Deactivate(ctx context.Context, id int64) error {
	return nil
}

// testEnv bundles the fakes behind real services for end-to-end flow tests.
type testEnv struct {
	txRepo   *fakeTransactionRepo
	catRepo  *fakeCategoryRepo
	userRepo *fakeUserRepo
	goalRepo *fakeGoalRepo
	deps     Deps
}

func newTestEnv() *testEnv {
	env := &testEnv{
		txRepo:   &fakeTransactionRepo{},
		catRepo:  &fakeCategoryRepo{},
		userRepo: &fakeUserRepo{},
		goalRepo: &fakeGoalRepo{},
	}
	env.deps = Deps{
		Users:        user.NewService(env.userRepo),
		Categories:   category.NewService(env.catRepo),
		Transactions: transaction.NewService(env.txRepo),
		Goals:        goal.NewService(env.goalRepo, nil),
		Now:          func() time.Time { return time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC) },
	}
	return env
}
