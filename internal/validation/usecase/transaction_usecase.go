// Package usecase contains the transaction validation pipeline. Each step
// either passes the transaction along or rejects it with a typed error whose
// recoverability was fixed when the error was built.
package usecase

import (
	"context"
	"log/slog"

	"github.com/account-authorizer/internal/domain/account"
	"github.com/account-authorizer/internal/domain/transaction"
)

// TransactionUsecaseImpl implements the TransactionUsecase interface
type TransactionUsecaseImpl struct {
	accounts         account.Repository
	balanceRetriever CurrentBalanceRetriever
	executor         TransactionExecutor
	logger           *slog.Logger
}

// NewTransactionUsecase creates a new transaction validation usecase
func NewTransactionUsecase(
	logger *slog.Logger,
	accounts account.Repository,
	balanceRetriever CurrentBalanceRetriever,
	executor TransactionExecutor,
) TransactionUsecase {
	return &TransactionUsecaseImpl{
		accounts:         accounts,
		balanceRetriever: balanceRetriever,
		executor:         executor,
		logger:           logger,
	}
}

// ExecuteTransaction validates the transaction step by step in a fixed order:
// amount sign, account existence, active flag, funds, daily limit. Only a
// transaction that clears every step is forwarded for execution. The first
// failing step decides the outcome; later steps never run.
func (u *TransactionUsecaseImpl) ExecuteTransaction(ctx context.Context, txn *transaction.Transaction) error {
	if !txn.Amount.IsPositive() {
		return transaction.ErrInvalidAmount(txn.AccountID, txn.TransactionID)
	}

	acc, err := u.accounts.Get(ctx, txn.AccountID)
	if err != nil {
		return err
	}

	if !acc.IsActive {
		return transaction.ErrInactiveAccount(txn.AccountID)
	}

	cb, err := u.balanceRetriever.AccountCurrentBalance(ctx, txn.AccountID)
	if err != nil {
		return err
	}

	if cb.CurrentBalance.Sub(txn.Amount).IsNegative() {
		return transaction.ErrInsufficientFunds(txn.AccountID, txn.TransactionID)
	}

	// Reaching the limit exactly is allowed; only exceeding it rejects.
	if cb.DailyTransacted.Add(txn.Amount).GreaterThan(acc.DailyLimit) {
		return transaction.ErrLimitReached(txn.AccountID, txn.TransactionID)
	}

	if err := u.executor.ExecuteTransaction(ctx, txn); err != nil {
		return err
	}

	u.logger.Info("Transaction validated and forwarded",
		"transaction_id", txn.TransactionID.String(),
		"account_id", txn.AccountID.String(),
	)
	return nil
}
