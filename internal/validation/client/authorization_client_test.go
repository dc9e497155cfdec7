package client

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/account-authorizer/internal/config"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
)

func newTestClient(serverURL string) *AuthorizationClient {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewAuthorizationClient(logger, &config.AuthorizationConfig{
		BaseURL:        serverURL,
		RequestTimeout: 5 * time.Second,
	})
}

func TestAuthorizationClient_AccountCurrentBalance(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/v1/accounts/"+accountID.String()+"/balance", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]string{
					"accountId":       accountID.String(),
					"currentBalance":  "1234.56",
					"dailyTransacted": "78.90",
				},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		cb, err := client.AccountCurrentBalance(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, accountID, cb.AccountID)
		assert.True(t, cb.CurrentBalance.Equal(decimal.NewFromFloat(1234.56)))
		assert.True(t, cb.DailyTransacted.Equal(decimal.NewFromFloat(78.90)))
	})

	t.Run("NotFoundMapsToTypedError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		cb, err := client.AccountCurrentBalance(ctx, accountID)
		assert.Nil(t, cb)
		assert.ErrorIs(t, err, balance.ErrBalanceNotFound{})
		var notFound balance.ErrBalanceNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, accountID, notFound.AccountID)
	})

	t.Run("ServerErrorIsOpaque", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		cb, err := client.AccountCurrentBalance(ctx, accountID)
		assert.Nil(t, cb)
		require.Error(t, err)
		assert.NotErrorIs(t, err, balance.ErrBalanceNotFound{})
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("MalformedAmount", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]string{
					"accountId":       accountID.String(),
					"currentBalance":  "not-a-number",
					"dailyTransacted": "0.00",
				},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		cb, err := client.AccountCurrentBalance(ctx, accountID)
		assert.Nil(t, cb)
		assert.Contains(t, err.Error(), "failed to parse current balance amount")
	})
}

func TestAuthorizationClient_ExecuteTransaction(t *testing.T) {
	ctx := context.Background()

	txn := &transaction.Transaction{
		TransactionID: uuid.New(),
		AccountID:     uuid.New(),
		Amount:        decimal.NewFromFloat(99.99),
		Type:          transaction.TypeDebit,
		Timestamp:     time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/transactions/execute", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var cmd transaction.Command
			require.NoError(t, json.NewDecoder(r.Body).Decode(&cmd))
			assert.Equal(t, txn.TransactionID.String(), cmd.TransactionID)
			assert.Equal(t, txn.AccountID.String(), cmd.AccountID)
			assert.True(t, cmd.Amount.Equal(txn.Amount))
			assert.Equal(t, "DEBIT", cmd.Type)

			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		assert.NoError(t, client.ExecuteTransaction(ctx, txn))
	})

	t.Run("NotFoundMapsToTypedError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.ExecuteTransaction(ctx, txn)
		assert.ErrorIs(t, err, balance.ErrBalanceNotFound{})
	})

	t.Run("ServerErrorIsOpaque", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "conflict", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.ExecuteTransaction(ctx, txn)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}
