package usecase

import (
	"context"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
)

// TransactionUsecase runs the validation pipeline on a single transaction.
type TransactionUsecase interface {
	ExecuteTransaction(ctx context.Context, txn *transaction.Transaction) error
}

// CurrentBalanceRetriever fetches the derived balance view from the
// authorization service.
type CurrentBalanceRetriever interface {
	// AccountCurrentBalance returns balance.ErrBalanceNotFound when the
	// authorization service has no balance for the account.
	AccountCurrentBalance(ctx context.Context, accountID uuid.UUID) (*balance.CurrentBalance, error)
}

// TransactionExecutor forwards an approved transaction to the authorization
// service for execution.
type TransactionExecutor interface {
	ExecuteTransaction(ctx context.Context, txn *transaction.Transaction) error
}
