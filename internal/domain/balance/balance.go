package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the single current-balance row kept per account. It is updated
// exactly once per executed transaction, always by subtracting the
// transaction amount from the previous value.
type Balance struct {
	AccountID  uuid.UUID       `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	LastUpdate time.Time       `json:"last_update"`
}

// CurrentBalance is the read-time projection served by the current-balance
// aggregator: the balance row amount plus the total transacted so far during
// the current UTC calendar day. It is recomputed on every request and never
// persisted.
type CurrentBalance struct {
	AccountID       uuid.UUID       `json:"account_id"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	DailyTransacted decimal.Decimal `json:"daily_transacted"`
}
