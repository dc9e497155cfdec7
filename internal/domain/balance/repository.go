package balance

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines balance persistence operations
type Repository interface {
	Create(ctx context.Context, bal *Balance) error
	Get(ctx context.Context, accountID uuid.UUID) (*Balance, error)

	// UpdateAmount replaces the balance amount using a compare-and-swap on
	// the previously read value. Returns ErrConcurrentModification when the
	// row changed between the read and the write.
	UpdateAmount(ctx context.Context, accountID uuid.UUID, prior, next decimal.Decimal) error

	WithTx(tx pgx.Tx) Repository
}

// ErrBalanceNotFound indicates missing balance row
type ErrBalanceNotFound struct {
	AccountID uuid.UUID
}

func (e ErrBalanceNotFound) Error() string {
	return "balance not found: " + e.AccountID.String()
}

// Is matches any ErrBalanceNotFound when the target carries a nil account ID
func (e ErrBalanceNotFound) Is(target error) bool {
	t, ok := target.(ErrBalanceNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrConcurrentModification indicates the compare-and-swap balance update
// lost a race against another writer
type ErrConcurrentModification struct {
	AccountID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for balance: " + e.AccountID.String()
}
