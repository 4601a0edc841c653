package openfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	productionURL  = "https://api.pluggy.ai"
	sandboxURL     = "https://api.sandbox.pluggy.ai"
	defaultTimeout = 60 * time.Second
	// API keys are issued for two hours; refresh a bit earlier.
	apiKeyLifetime = 110 * time.Minute
)

// Client talks to a Pluggy-style open-finance aggregator. Authentication
// exchanges the client credentials for a short-lived API key, which is
// cached and refreshed transparently.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string

	mu           sync.Mutex
	apiKey       string
	apiKeyExpiry time.Time
}

var _ API = (*Client)(nil)

// NewClient creates an aggregator client. Sandbox selects the test
// environment.
func NewClient(clientID, clientSecret string, sandbox bool) *Client {
	base := productionURL
	if sandbox {
		base = sandboxURL
	}
	return &Client{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		baseURL:      base,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Connector is a supported institution.
type Connector struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Country  string `json:"country"`
	ImageURL string `json:"imageUrl"`
	Health   struct {
		Status string `json:"status"`
	} `json:"health"`
}

// Item is one user-institution connection.
type Item struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	ClientUserID string    `json:"clientUserId"`
	Connector    Connector `json:"connector"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Account is a bank account or credit card under an item.
type Account struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"itemId"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Name         string          `json:"name"`
	Number       string          `json:"number"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}

// Transaction is one provider-side ledger entry. Amount is signed the same
// way the bot stores records: negative debits, positive credits.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
}

// CreditCard carries the card-level detail the provider keeps separate from
// the account balance.
type CreditCard struct {
	ID                   string          `json:"id"`
	ItemID               string          `json:"itemId"`
	Level                string          `json:"level"`
	Brand                string          `json:"brand"`
	BalanceCloseDate     string          `json:"balanceCloseDate"`
	BalanceDueDate       string          `json:"balanceDueDate"`
	AvailableCreditLimit decimal.Decimal `json:"availableCreditLimit"`
	CreditLimit          decimal.Decimal `json:"creditLimit"`
}

// ConnectToken authorizes the widget-based connection of a new item.
type ConnectToken struct {
	AccessToken string `json:"accessToken"`
}

type authResponse struct {
	APIKey string `json:"apiKey"`
}

type page[T any] struct {
	Results []T `json:"results"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Authenticate exchanges the client credentials for an API key. Calls are
// idempotent while the cached key is fresh.
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) error {
	if c.apiKey != "" && time.Now().Before(c.apiKeyExpiry) {
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"clientId":     c.clientID,
		"clientSecret": c.clientSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth failed with status %d: %s", resp.StatusCode, string(body))
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return fmt.Errorf("failed to unmarshal auth response: %w", err)
	}
	if auth.APIKey == "" {
		return fmt.Errorf("auth response carried no API key")
	}

	c.apiKey = auth.APIKey
	c.apiKeyExpiry = time.Now().Add(apiKeyLifetime)
	return nil
}

// ListConnectors fetches the supported institutions.
func (c *Client) ListConnectors(ctx context.Context) ([]Connector, error) {
	var out page[Connector]
	if err := c.get(ctx, "/connectors", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// CreateConnectToken issues a widget token for connecting a new item.
func (c *Client) CreateConnectToken(ctx context.Context, clientUserID string) (*ConnectToken, error) {
	var out ConnectToken
	err := c.post(ctx, "/connect_token", map[string]any{
		"options": map[string]string{"clientUserId": clientUserID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems fetches the connections registered for one bot user.
func (c *Client) ListItems(ctx context.Context, clientUserID string) ([]Item, error) {
	var out page[Item]
	q := url.Values{"clientUserId": {clientUserID}}
	if err := c.get(ctx, "/items", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ListAccounts fetches the accounts under one item.
func (c *Client) ListAccounts(ctx context.Context, itemID string) ([]Account, error) {
	var out page[Account]
	q := url.Values{"itemId": {itemID}}
	if err := c.get(ctx, "/accounts", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ListTransactions fetches an account's transactions, optionally bounded
// below by from.
func (c *Client) ListTransactions(ctx context.Context, accountID string, from time.Time) ([]Transaction, error) {
	var out page[Transaction]
	q := url.Values{"accountId": {accountID}, "pageSize": {"500"}}
	if !from.IsZero() {
		q.Set("from", from.Format("2006-01-02"))
	}
	if err := c.get(ctx, "/transactions", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// ListCreditCards fetches the credit card details under one item.
func (c *Client) ListCreditCards(ctx context.Context, itemID string) ([]CreditCard, error) {
	var out page[CreditCard]
	q := url.Values{"itemId": {itemID}}
	if err := c.get(ctx, "/credit-cards", q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// RefreshItem asks the provider to re-sync one item.
func (c *Client) RefreshItem(ctx context.Context, itemID string) (*Item, error) {
	var out Item
	if err := c.post(ctx, "/items/"+itemID, map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte, out any) error {
	c.mu.Lock()
	if err := c.authenticateLocked(ctx); err != nil {
		c.mu.Unlock()
		return err
	}
	apiKey := c.apiKey
	c.mu.Unlock()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		// Expired key; drop the cache so the next call re-authenticates.
		c.mu.Lock()
		c.apiKey = ""
		c.mu.Unlock()
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp apiError
		if err := json.Unmarshal(body, &errResp); err != nil {
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, errResp.Message)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
