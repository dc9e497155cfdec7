package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Command is the wire form of an inbound transaction request as read from the
// command queue. Identifiers and the type are kept as raw strings so that a
// malformed value is classified during conversion instead of failing JSON
// decoding with an opaque error.
type Command struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ToTransaction converts the wire command into a domain transaction.
// Unparseable identifiers are an invalid payload; an unknown type is its own
// rejection code. Both are recoverable and end up dead-lettered.
func (c Command) ToTransaction() (Transaction, error) {
	transactionID, err := uuid.Parse(c.TransactionID)
	if err != nil {
		return Transaction{}, ErrInvalidPayload(err)
	}

	accountID, err := uuid.Parse(c.AccountID)
	if err != nil {
		return Transaction{}, ErrInvalidPayload(err)
	}

	transactionType, err := ParseType(c.Type)
	if err != nil {
		return Transaction{}, ErrInvalidType(err)
	}

	return Transaction{
		TransactionID: transactionID,
		AccountID:     accountID,
		Amount:        c.Amount,
		Type:          transactionType,
		Timestamp:     c.Timestamp,
	}, nil
}

// ToCommand converts a domain transaction back to its wire form
func (t Transaction) ToCommand() Command {
	return Command{
		TransactionID: t.TransactionID.String(),
		AccountID:     t.AccountID.String(),
		Amount:        t.Amount,
		Type:          string(t.Type),
		Timestamp:     t.Timestamp,
	}
}
