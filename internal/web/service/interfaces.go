package service

import (
	"context"

	"github.com/account-authorizer/internal/domain/account"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountDetails is the inspection projection served by the web façade:
// the account plus its balance row and recent transaction log.
type AccountDetails struct {
	Account      *account.Account
	Balance      *balance.Balance
	Transactions []*transaction.AccountTransaction
}

// GeneratorService provisions synthetic accounts with balances and history
type GeneratorService interface {
	// CreateBatch generates quantity accounts and writes them through the
	// stores together with a starting balance and a few days of history.
	CreateBatch(ctx context.Context, quantity int) ([]*account.Account, error)

	// Get returns the full projection for one account
	Get(ctx context.Context, accountID uuid.UUID) (*AccountDetails, error)

	// All returns the projection for every account
	All(ctx context.Context) ([]*AccountDetails, error)
}

// CommandService publishes synthetic transaction commands to the command topic
type CommandService interface {
	// ProduceCommands publishes quantity random valid commands concurrently
	// and returns how many were accepted by the producer.
	ProduceCommands(ctx context.Context, quantity int) (int, error)

	// ProduceWithAmount publishes a single command with a caller-chosen amount
	ProduceWithAmount(ctx context.Context, amount decimal.Decimal) (*transaction.Command, error)

	// ProduceErrorCommands publishes quantity deliberately broken commands,
	// each with one randomly chosen corruption.
	ProduceErrorCommands(ctx context.Context, quantity int) (int, error)
}
