package openfinance

import (
	"context"
	"time"
)

// API defines the aggregator operations the sync jobs depend on.
type API interface {
	Authenticate(ctx context.Context) error
	ListConnectors(ctx context.Context) ([]Connector, error)
	CreateConnectToken(ctx context.Context, clientUserID string) (*ConnectToken, error)
	ListItems(ctx context.Context, clientUserID string) ([]Item, error)
	ListAccounts(ctx context.Context, itemID string) ([]Account, error)
	ListTransactions(ctx context.Context, accountID string, from time.Time) ([]Transaction, error)
	ListCreditCards(ctx context.Context, itemID string) ([]CreditCard, error)
	RefreshItem(ctx context.Context, itemID string) (*Item, error)
}
