package transaction

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// batchSuccessRatio is the share of installment writes that must succeed
// for the batch to count as successful. Failures beyond it are reported
// without rolling back the successful subset.
const batchSuccessRatio = 0.8

// BatchResult reports the outcome of an installment batch write.
type BatchResult struct {
	ParentID  string
	Created   []*Transaction
	Succeeded int
	Failed    int
}

// Service handles business logic for transactions
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new transaction service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateSingle persists one record. Status is derived from the record's
// date relative to now.
func (s *Service) CreateSingle(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	t := s.build(params, uuid.NewString(), params.Amount, params.Date, nil)
	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

// CreateInstallments persists count records splitting params.Amount, dated
// by calendar-month steps from startDate. Writes are independent inserts;
// the batch succeeds when at least 80% of them do.
func (s *Service) CreateInstallments(ctx context.Context, params CreateParams, count int, startDate time.Time) (*BatchResult, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if count < 2 {
		return nil, fmt.Errorf("%w: installment count must be at least 2", ErrInvalidInput)
	}

	amounts := InstallmentAmounts(params.Amount, count)
	parentID := uuid.NewString()
	result := &BatchResult{ParentID: parentID}

	for i := 0; i < count; i++ {
		p := params
		p.Title = fmt.Sprintf("%s (%d/%d)", params.Title, i+1, count)
		t := s.build(p, uuid.NewString(), amounts[i], InstallmentDate(startDate, i), &InstallmentInfo{
			Number:   i + 1,
			Total:    count,
			ParentID: parentID,
		})

		created, err := s.repo.Create(ctx, t)
		if err != nil {
			log.Printf("Installment %d/%d write failed for user %d: %v", i+1, count, params.UserID, err)
			result.Failed++
			continue
		}
		result.Created = append(result.Created, created)
		result.Succeeded++
	}

	if float64(result.Succeeded) < float64(count)*batchSuccessRatio {
		return result, fmt.Errorf("%w: %d of %d succeeded", ErrBatchFailed, result.Succeeded, count)
	}
	return result, nil
}

// Summary returns the user's monthly aggregate.
func (s *Service) Summary(ctx context.Context, userID int64, year int, month time.Month) (*MonthlySummary, error) {
	return s.repo.MonthlySummary(ctx, userID, year, month)
}

// ListRecent returns the user's records dated within the last days days.
func (s *Service) ListRecent(ctx context.Context, userID int64, days int) ([]*Transaction, error) {
	since := s.now().AddDate(0, 0, -days)
	return s.repo.ListByUserSince(ctx, userID, since)
}

func (s *Service) build(params CreateParams, id string, amount decimal.Decimal, date time.Time, info *InstallmentInfo) *Transaction {
	signed := amount.Abs()
	if params.Type == TypeExpense {
		signed = signed.Neg()
	}

	notes := params.Description
	if params.AccountName != "" {
		notes = fmt.Sprintf("Conta: %s", params.AccountName)
	}

	return &Transaction{
		ID:          id,
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Amount:      signed,
		Type:        params.Type,
		CategoryID:  params.CategoryID,
		AccountKey:  params.AccountKey,
		Date:        date,
		Status:      StatusForDate(date, s.now()),
		IsRecurring: params.IsRecurring,
		Notes:       notes,
		Tags:        params.Tags,
		Installment: info,
	}
}
