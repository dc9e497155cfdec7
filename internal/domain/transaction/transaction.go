package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type defines possible transaction operations
type Type string

const (
	TypeDebit   Type = "DEBIT"
	TypeCredit  Type = "CREDIT"
	TypeUnknown Type = "UNKNOWN"
)

// ParseType parses the wire form of a transaction type. Anything outside the
// known set is a recoverable rejection, not a fatal error.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeDebit, TypeCredit, TypeUnknown:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is a validated transaction command. TransactionID is globally
// unique and keys the transaction log.
type Transaction struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          Type            `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
}

// AccountTransaction is a transaction enriched with the balance snapshot
// computed at authorization time. It is what gets persisted to the
// transaction log and published in the executed event.
type AccountTransaction struct {
	Transaction
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// WithCurrentBalance attaches the post-execution balance snapshot
func (t Transaction) WithCurrentBalance(currentBalance decimal.Decimal) AccountTransaction {
	return AccountTransaction{
		Transaction:    t,
		CurrentBalance: currentBalance,
	}
}
