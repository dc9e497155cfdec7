package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages the time-ordered transaction log
type Repository interface {
	Create(ctx context.Context, tx *AccountTransaction) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*AccountTransaction, error)

	// GetByAccountIDInRange returns the account's transactions with
	// timestamps inside [start, end], both ends inclusive.
	GetByAccountIDInRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*AccountTransaction, error)

	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*AccountTransaction, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing transaction log entry
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is matches any ErrTransactionNotFound when the target carries a nil ID
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
