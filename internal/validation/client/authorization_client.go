// Package client provides HTTP adapters for the authorization service ports
// used by the validation pipeline.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/account-authorizer/internal/config"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthorizationClient talks to the authorization service over HTTP/JSON.
// It implements both the CurrentBalanceRetriever and TransactionExecutor
// ports of the validation pipeline.
type AuthorizationClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAuthorizationClient creates a new authorization service client
func NewAuthorizationClient(logger *slog.Logger, cfg *config.AuthorizationConfig) *AuthorizationClient {
	return &AuthorizationClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// currentBalancePayload mirrors the authorization service's balance response
type currentBalancePayload struct {
	AccountID       string `json:"accountId"`
	CurrentBalance  string `json:"currentBalance"`
	DailyTransacted string `json:"dailyTransacted"`
}

// responseEnvelope is the standard envelope of the authorization API
type responseEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// AccountCurrentBalance fetches the derived balance view. A 404 maps back to
// balance.ErrBalanceNotFound; every other non-200 is an opaque error so the
// caller treats it as infrastructure failure.
func (c *AuthorizationClient) AccountCurrentBalance(ctx context.Context, accountID uuid.UUID) (*balance.CurrentBalance, error) {
	url := fmt.Sprintf("%s/api/v1/accounts/%s/balance", c.baseURL, accountID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build balance request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current balance: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusNotFound:
		return nil, balance.ErrBalanceNotFound{AccountID: accountID}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("current balance request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode balance response: %w", err)
	}
	var payload currentBalancePayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode balance payload: %w", err)
	}

	currentBalance, err := decimal.NewFromString(payload.CurrentBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current balance amount: %w", err)
	}
	dailyTransacted, err := decimal.NewFromString(payload.DailyTransacted)
	if err != nil {
		return nil, fmt.Errorf("failed to parse daily transacted amount: %w", err)
	}

	return &balance.CurrentBalance{
		AccountID:       accountID,
		CurrentBalance:  currentBalance,
		DailyTransacted: dailyTransacted,
	}, nil
}

// ExecuteTransaction forwards an approved transaction for execution. A 404
// maps to balance.ErrBalanceNotFound; a 204 is success.
func (c *AuthorizationClient) ExecuteTransaction(ctx context.Context, txn *transaction.Transaction) error {
	url := c.baseURL + "/api/v1/transactions/execute"

	body, err := json.Marshal(txn.ToCommand())
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute transaction: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return balance.ErrBalanceNotFound{AccountID: txn.AccountID}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("execute transaction request failed with status %d: %s", resp.StatusCode, string(respBody))
	}
}
