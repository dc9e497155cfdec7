package service

import (
	"context"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
)

// CurrentBalanceService aggregates an account's stored balance with the
// amount it has transacted during the current UTC day.
type CurrentBalanceService interface {
	// AccountCurrentBalance returns the derived balance view.
	// Returns balance.ErrBalanceNotFound if no balance row exists.
	AccountCurrentBalance(ctx context.Context, accountID uuid.UUID) (*balance.CurrentBalance, error)
}

// ExecuteTransactionService applies an already-validated transaction to the
// account's balance and appends it to the transaction log atomically.
type ExecuteTransactionService interface {
	// ExecuteTransaction re-reads the balance, applies the amount unconditionally
	// and publishes a "transaction executed" event after the commit.
	ExecuteTransaction(ctx context.Context, txn *transaction.Transaction) error
}
