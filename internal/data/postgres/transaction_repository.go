package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/account-authorizer/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic writes alongside
// a balance update.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends an executed transaction to the log
func (r *TransactionRepository) Create(ctx context.Context, txn *transaction.AccountTransaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_id, amount, type, timestamp, current_balance)
		VALUES ($1, $2, $3::numeric, $4, $5, $6::numeric)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.TransactionID,
		txn.AccountID,
		txn.Amount.String(),
		string(txn.Type),
		txn.Timestamp,
		txn.CurrentBalance.String(),
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "transaction_id", txn.TransactionID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a single transaction log entry
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*transaction.AccountTransaction, error) {
	query := `
		SELECT transaction_id, account_id, amount::text, type, timestamp, current_balance::text
		FROM transactions
		WHERE transaction_id = $1
	`

	txn, err := r.scanRow(r.querier.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get transaction", "transaction_id", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// GetByAccountIDInRange returns an account's transactions with timestamps
// inside [start, end], both ends inclusive.
func (r *TransactionRepository) GetByAccountIDInRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*transaction.AccountTransaction, error) {
	query := `
		SELECT transaction_id, account_id, amount::text, type, timestamp, current_balance::text
		FROM transactions
		WHERE account_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC
	`

	rows, err := r.querier.Query(ctx, query, accountID, start, end)
	if err != nil {
		r.logger.Error("Failed to query transactions in range", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to query transactions in range: %w", err)
	}
	defer rows.Close()

	return r.collectRows(rows)
}

// GetByAccountID returns an account's most recent transactions
func (r *TransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*transaction.AccountTransaction, error) {
	query := `
		SELECT transaction_id, account_id, amount::text, type, timestamp, current_balance::text
		FROM transactions
		WHERE account_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit)
	if err != nil {
		r.logger.Error("Failed to query transactions", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	return r.collectRows(rows)
}

func (r *TransactionRepository) scanRow(row pgx.Row) (*transaction.AccountTransaction, error) {
	var txn transaction.AccountTransaction
	var amount, currentBalance, txType string
	err := row.Scan(
		&txn.TransactionID,
		&txn.AccountID,
		&amount,
		&txType,
		&txn.Timestamp,
		&currentBalance,
	)
	if err != nil {
		return nil, err
	}

	txn.Type = transaction.Type(txType)
	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse transaction amount: %w", err)
	}
	if txn.CurrentBalance, err = decimal.NewFromString(currentBalance); err != nil {
		return nil, fmt.Errorf("failed to parse transaction balance: %w", err)
	}

	return &txn, nil
}

func (r *TransactionRepository) collectRows(rows pgx.Rows) ([]*transaction.AccountTransaction, error) {
	var txns []*transaction.AccountTransaction
	for rows.Next() {
		txn, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return txns, nil
}
