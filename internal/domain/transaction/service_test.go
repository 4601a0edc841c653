package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockTransactionRepo implements Repository for testing
type MockTransactionRepo struct {
	CreateFunc          func(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByIDFunc         func(ctx context.Context, id string) (*Transaction, error)
	ListByUserSinceFunc func(ctx context.Context, userID int64, since time.Time) ([]*Transaction, error)
	ListByParentIDFunc  func(ctx context.Context, parentID string) ([]*Transaction, error)
	MonthlySummaryFunc  func(ctx context.Context, userID int64, year int, month time.Month) (*MonthlySummary, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, t *Transaction) (*Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t, nil
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}
func (m *MockTransactionRepo) ListByUserSince(ctx context.Context, userID int64, since time.Time) ([]*Transaction, error) {
	if m.ListByUserSinceFunc != nil {
		return m.ListByUserSinceFunc(ctx, userID, since)
	}
	return nil, nil
}
func (m *MockTransactionRepo) ListByParentID(ctx context.Context, parentID string) ([]*Transaction, error) {
	if m.ListByParentIDFunc != nil {
		return m.ListByParentIDFunc(ctx, parentID)
	}
	return nil, nil
}
func (m *MockTransactionRepo) MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*MonthlySummary, error) {
	if m.MonthlySummaryFunc != nil {
		return m.MonthlySummaryFunc(ctx, userID, year, month)
	}
	return nil, nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func expenseParams(amount string) CreateParams {
	return CreateParams{
		UserID:      1,
		Title:       "Mercado",
		Description: "Compras do mês",
		Amount:      decimal.RequireFromString(amount),
		Type:        TypeExpense,
		AccountKey:  "c6_pf",
		AccountName: "C6 Bank PF",
		Date:        date(2025, time.June, 10),
	}
}

func TestCreateSingle(t *testing.T) {
	var saved *Transaction
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, tr *Transaction) (*Transaction, error) {
			saved = tr
			return tr, nil
		},
	}
	svc := NewService(repo)
	svc.now = fixedNow

	created, err := svc.CreateSingle(context.Background(), expenseParams("150.00"))
	if err != nil {
		t.Fatalf("CreateSingle failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated ID")
	}
	if !saved.Amount.Equal(decimal.RequireFromString("-150.00")) {
		t.Errorf("expense amount = %s, want -150.00", saved.Amount)
	}
	if saved.Status != StatusPaid {
		t.Errorf("status = %q, want paid for past date", saved.Status)
	}
	if saved.Installment != nil {
		t.Error("single record must carry no installment info")
	}
	if saved.Notes != "Conta: C6 Bank PF" {
		t.Errorf("notes = %q", saved.Notes)
	}
}

func TestCreateSingle_IncomeKeepsPositiveAmount(t *testing.T) {
	var saved *Transaction
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, tr *Transaction) (*Transaction, error) {
			saved = tr
			return tr, nil
		},
	}
	svc := NewService(repo)
	svc.now = fixedNow

	params := expenseParams("3000")
	params.Type = TypeIncome
	params.IsRecurring = true

	if _, err := svc.CreateSingle(context.Background(), params); err != nil {
		t.Fatalf("CreateSingle failed: %v", err)
	}
	if !saved.Amount.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("income amount = %s, want 3000", saved.Amount)
	}
	if !saved.IsRecurring {
		t.Error("expected recurring flag carried through")
	}
}

func TestCreateSingle_InvalidParams(t *testing.T) {
	svc := NewService(&MockTransactionRepo{})

	params := expenseParams("150.00")
	params.Amount = decimal.Zero
	if _, err := svc.CreateSingle(context.Background(), params); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero amount, got %v", err)
	}

	params = expenseParams("150.00")
	params.Type = "transfer"
	if _, err := svc.CreateSingle(context.Background(), params); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad type, got %v", err)
	}
}

func TestCreateInstallments(t *testing.T) {
	var saved []*Transaction
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, tr *Transaction) (*Transaction, error) {
			saved = append(saved, tr)
			return tr, nil
		},
	}
	svc := NewService(repo)
	svc.now = fixedNow

	start := date(2025, time.June, 20)
	result, err := svc.CreateInstallments(context.Background(), expenseParams("1200"), 12, start)
	if err != nil {
		t.Fatalf("CreateInstallments failed: %v", err)
	}

	if result.Succeeded != 12 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(saved) != 12 {
		t.Fatalf("expected 12 records, got %d", len(saved))
	}

	for i, tr := range saved {
		if !tr.Amount.Equal(decimal.RequireFromString("-100")) {
			t.Errorf("installment %d amount = %s, want -100", i+1, tr.Amount)
		}
		if tr.Installment == nil {
			t.Fatalf("installment %d missing group info", i+1)
		}
		if tr.Installment.Number != i+1 || tr.Installment.Total != 12 {
			t.Errorf("installment %d group info = %+v", i+1, tr.Installment)
		}
		if tr.Installment.ParentID != result.ParentID {
			t.Errorf("installment %d has a different parent", i+1)
		}
		want := InstallmentDate(start, i)
		if !tr.Date.Equal(want) {
			t.Errorf("installment %d date = %v, want %v", i+1, tr.Date, want)
		}
	}

	if !saved[0].Date.Equal(start) {
		t.Errorf("first installment date = %v, want %v", saved[0].Date, start)
	}
	if !saved[11].Date.Equal(date(2026, time.May, 20)) {
		t.Errorf("last installment date = %v, want 2026-05-20", saved[11].Date)
	}

	// Statuses relative to 2025-06-15: the 20th is within seven days.
	if saved[0].Status != StatusPending {
		t.Errorf("first installment status = %q, want pending", saved[0].Status)
	}
	if saved[1].Status != StatusScheduled {
		t.Errorf("second installment status = %q, want scheduled", saved[1].Status)
	}
}

func TestCreateInstallments_LastAbsorbsRemainder(t *testing.T) {
	var saved []*Transaction
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, tr *Transaction) (*Transaction, error) {
			saved = append(saved, tr)
			return tr, nil
		},
	}
	svc := NewService(repo)
	svc.now = fixedNow

	_, err := svc.CreateInstallments(context.Background(), expenseParams("1000"), 3, date(2025, time.July, 1))
	if err != nil {
		t.Fatalf("CreateInstallments failed: %v", err)
	}

	sum := decimal.Zero
	for _, tr := range saved {
		sum = sum.Add(tr.Amount)
	}
	if !sum.Equal(decimal.NewFromInt(-1000)) {
		t.Errorf("installments sum to %s, want -1000", sum)
	}
	if !saved[2].Amount.Equal(decimal.RequireFromString("-333.34")) {
		t.Errorf("last installment = %s, want -333.34", saved[2].Amount)
	}
}

func TestCreateInstallments_PartialFailureTolerated(t *testing.T) {
	calls := 0
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, tr *Transaction) (*Transaction, error) {
			calls++
			if calls == 3 {
				return nil, errors.New("connection reset")
			}
			return tr, nil
		},
	}
	svc := NewService(repo)
	svc.now = fixedNow

	result, err := svc.CreateInstallments(context.Background(), expenseParams("1200"), 10, date(2025, time.July, 1))
	if err != nil {
		t.Fatalf("expected 9/10 to pass the threshold, got %v", err)
	}
	if result.Succeeded != 9 || result.Failed != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCreateInstallments_TooManyFailures(t *testing.T) {
	calls := 0
	repo := &MockTransactionRepo{
		CreateFunc: func(ctx context.Context, tr *Transaction) (*Transaction, error) {
			calls++
			if calls%2 == 0 {
				return nil, errors.New("connection reset")
			}
			return tr, nil
		},
	}
	svc := NewService(repo)
	svc.now = fixedNow

	result, err := svc.CreateInstallments(context.Background(), expenseParams("1200"), 10, date(2025, time.July, 1))
	if !errors.Is(err, ErrBatchFailed) {
		t.Fatalf("expected ErrBatchFailed, got %v", err)
	}
	// The successful subset is kept, not rolled back.
	if result == nil || result.Succeeded != 5 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCreateInstallments_RejectsCountOfOne(t *testing.T) {
	svc := NewService(&MockTransactionRepo{})

	_, err := svc.CreateInstallments(context.Background(), expenseParams("1200"), 1, date(2025, time.July, 1))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
