package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/account-authorizer/internal/platform/messaging/producers"
	"github.com/account-authorizer/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// ExecuteTransactionServiceImpl implements the ExecuteTransactionService interface
type ExecuteTransactionServiceImpl struct {
	txRunner        persistence.TxRunner
	balanceRepo     balance.Repository
	transactionRepo transaction.Repository
	publisher       producers.ExecutedEventPublisher
	logger          *slog.Logger
}

// NewExecuteTransactionService creates a new execute transaction service
func NewExecuteTransactionService(
	logger *slog.Logger,
	txRunner persistence.TxRunner,
	balanceRepo balance.Repository,
	transactionRepo transaction.Repository,
	publisher producers.ExecutedEventPublisher,
) ExecuteTransactionService {
	return &ExecuteTransactionServiceImpl{
		txRunner:        txRunner,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

// ExecuteTransaction applies the transaction amount to the account balance.
// Validation already happened upstream; the amount is subtracted without
// re-checking funds or limits. The balance update and the log insert share
// one database transaction, and the balance write is a compare-and-swap on
// the value read here. A conflicting writer surfaces as
// balance.ErrConcurrentModification and the message is redelivered.
func (s *ExecuteTransactionServiceImpl) ExecuteTransaction(ctx context.Context, txn *transaction.Transaction) error {
	bal, err := s.balanceRepo.Get(ctx, txn.AccountID)
	if err != nil {
		return err
	}

	next := bal.Amount.Sub(txn.Amount)
	accountTxn := txn.WithCurrentBalance(next)

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.transactionRepo.WithTx(tx).Create(ctx, &accountTxn); err != nil {
			return err
		}
		return s.balanceRepo.WithTx(tx).UpdateAmount(ctx, txn.AccountID, bal.Amount, next)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Transaction executed",
		"transaction_id", txn.TransactionID.String(),
		"account_id", txn.AccountID.String(),
	)

	// The write is committed; a publish failure surfaces as an error so the
	// command is redelivered and the event is eventually emitted.
	if err := s.publisher.PublishExecuted(ctx, &accountTxn); err != nil {
		return fmt.Errorf("transaction executed but event publish failed: %w", err)
	}

	return nil
}
