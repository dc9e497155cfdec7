// Package postgres provides PostgreSQL implementations of the domain repositories.
// Balances and the transaction log live here so a balance update and its log
// entry can share one database transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceRepository implements the balance.Repository interface for PostgreSQL
type BalanceRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewBalanceRepository creates a new PostgreSQL balance repository.
func NewBalanceRepository(logger *slog.Logger, db *persistence.PostgresDB) balance.Repository {
	return &BalanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so balance writes can share
// a database transaction with transaction-log writes.
func (r *BalanceRepository) WithTx(tx pgx.Tx) balance.Repository {
	return &BalanceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new balance row for an account
func (r *BalanceRepository) Create(ctx context.Context, bal *balance.Balance) error {
	query := `
		INSERT INTO balances (account_id, amount, last_update)
		VALUES ($1, $2::numeric, $3)
	`

	_, err := r.querier.Exec(ctx, query,
		bal.AccountID,
		bal.Amount.String(),
		bal.LastUpdate,
	)
	if err != nil {
		r.logger.Error("Failed to create balance", "account_id", bal.AccountID.String(), "error", err)
		return fmt.Errorf("failed to create balance: %w", err)
	}

	return nil
}

// Get retrieves the balance row for an account
func (r *BalanceRepository) Get(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	query := `
		SELECT account_id, amount::text, last_update
		FROM balances
		WHERE account_id = $1
	`

	var bal balance.Balance
	var amount string
	err := r.querier.QueryRow(ctx, query, accountID).Scan(
		&bal.AccountID,
		&amount,
		&bal.LastUpdate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, balance.ErrBalanceNotFound{AccountID: accountID}
		}
		r.logger.Error("Failed to get balance", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	bal.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance amount: %w", err)
	}

	return &bal, nil
}

// UpdateAmount replaces the balance amount with a compare-and-swap on the
// previously read value. Zero rows affected means another writer got there
// first; the caller must re-read and retry.
func (r *BalanceRepository) UpdateAmount(ctx context.Context, accountID uuid.UUID, prior, next decimal.Decimal) error {
	query := `
		UPDATE balances
		SET amount = $1::numeric, last_update = NOW()
		WHERE account_id = $2 AND amount = $3::numeric
	`

	result, err := r.querier.Exec(ctx, query, next.String(), accountID, prior.String())
	if err != nil {
		r.logger.Error("Failed to update balance", "account_id", accountID.String(), "error", err)
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return balance.ErrConcurrentModification{AccountID: accountID}
	}

	return nil
}
