package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds the metadata the validation pipeline checks before a
// transaction is forwarded for execution. Accounts are provisioned by the
// web service and are immutable while a transaction is being validated.
type Account struct {
	AccountID  uuid.UUID       `json:"account_id"`
	CreatedAt  time.Time       `json:"created_at"`
	IsActive   bool            `json:"is_active"`
	DailyLimit decimal.Decimal `json:"daily_limit"`
}
