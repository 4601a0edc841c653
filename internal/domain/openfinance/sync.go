package openfinance

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"finbot/internal/domain/transaction"
	ofclient "finbot/internal/infrastructure/openfinance"
)

// SyncResult contains the results of one user's transaction sync.
type SyncResult struct {
	UserID   int64
	Accounts int
	Found    int
	Created  int
	Skipped  int
	Errors   []string
}

// SyncService imports provider-side transactions into the bot's ledger.
// Items are matched to bot users by clientUserId, which the connect flow
// sets to the user's id.
type SyncService struct {
	client          ofclient.API
	transactionRepo transaction.Repository
	startDate       time.Time
}

// NewSyncService creates a new sync service. startDate bounds the first
// import; later runs only re-fetch from the provider's window.
func NewSyncService(client ofclient.API, transactionRepo transaction.Repository, startDate time.Time) *SyncService {
	return &SyncService{client: client, transactionRepo: transactionRepo, startDate: startDate}
}

// SyncUser imports the transactions of every account linked by one user.
// Already-imported transactions (matched by provider id) are skipped.
func (s *SyncService) SyncUser(ctx context.Context, userID int64) (*SyncResult, error) {
	result := &SyncResult{UserID: userID, Errors: []string{}}

	items, err := s.client.ListItems(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	for _, item := range items {
		accounts, err := s.client.ListAccounts(ctx, item.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %s: %v", item.ID, err))
			continue
		}
		result.Accounts += len(accounts)

		for _, acc := range accounts {
			if err := s.syncAccount(ctx, userID, acc, result); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("account %s: %v", acc.ID, err))
			}
		}
	}

	log.Printf("Sync completed for user %d: accounts=%d, found=%d, created=%d, skipped=%d, errors=%d",
		userID, result.Accounts, result.Found, result.Created, result.Skipped, len(result.Errors))
	return result, nil
}

func (s *SyncService) syncAccount(ctx context.Context, userID int64, acc ofclient.Account, result *SyncResult) error {
	txs, err := s.client.ListTransactions(ctx, acc.ID, s.startDate)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}
	result.Found += len(txs)

	for _, apiTx := range txs {
		existing, err := s.transactionRepo.GetByID(ctx, apiTx.ID)
		if err != nil {
			return fmt.Errorf("failed to check transaction %s: %w", apiTx.ID, err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		recordType := transaction.TypeIncome
		status := transaction.StatusPaid
		if apiTx.Amount.IsNegative() {
			recordType = transaction.TypeExpense
		}
		if apiTx.Status == "PENDING" {
			status = transaction.StatusPending
		}

		record := &transaction.Transaction{
			ID:          apiTx.ID,
			UserID:      userID,
			Title:       apiTx.Description,
			Description: fmt.Sprintf("Importado de %s", acc.Name),
			Amount:      apiTx.Amount,
			Type:        recordType,
			AccountKey:  acc.ID,
			Date:        apiTx.Date,
			Status:      status,
			Tags:        []string{"openfinance", acc.Type},
		}
		if apiTx.Category != "" {
			record.Notes = fmt.Sprintf("Categoria do banco: %s", apiTx.Category)
		}

		if _, err := s.transactionRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to store transaction %s: %w", apiTx.ID, err)
		}
		result.Created++
	}
	return nil
}
