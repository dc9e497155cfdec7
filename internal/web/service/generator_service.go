package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/account-authorizer/internal/domain/account"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Generation parameters for synthetic data. The numbers are deliberately
// generous so that most generated commands pass validation while a visible
// share gets rejected for inactivity or limits.
const (
	activeAccountRatio = 0.9

	minDailyLimit = 500.0
	maxDailyLimit = 2000.0

	minStartingBalance = 5000.0
	maxStartingBalance = 10000.0

	historyDays           = 8
	maxTransactionsPerDay = 5

	minHistoryAmount = 1.0
	maxHistoryAmount = 200.0
)

// GeneratorServiceImpl provisions synthetic accounts across both stores:
// account metadata in the document store, balances and transaction history
// in the relational store.
type GeneratorServiceImpl struct {
	accounts     account.Repository
	balances     balance.Repository
	transactions transaction.Repository
	logger       *slog.Logger
	rng          *rand.Rand
	now          func() time.Time
}

func NewGeneratorService(
	logger *slog.Logger,
	accounts account.Repository,
	balances balance.Repository,
	transactions transaction.Repository,
) *GeneratorServiceImpl {
	return &GeneratorServiceImpl{
		accounts:     accounts,
		balances:     balances,
		transactions: transactions,
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
	}
}

// CreateBatch generates quantity accounts, persists them in one batch, then
// writes a starting balance and a few days of transaction history for each.
// History rows are written outside any transaction: the data is synthetic and
// partially generated accounts are acceptable on failure.
func (s *GeneratorServiceImpl) CreateBatch(ctx context.Context, quantity int) ([]*account.Account, error) {
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	now := s.now().UTC()
	accounts := make([]*account.Account, 0, quantity)
	for i := 0; i < quantity; i++ {
		accounts = append(accounts, &account.Account{
			AccountID:  uuid.New(),
			CreatedAt:  now,
			IsActive:   s.rng.Float64() < activeAccountRatio,
			DailyLimit: s.randomAmount(minDailyLimit, maxDailyLimit),
		})
	}

	if err := s.accounts.CreateBatch(ctx, accounts); err != nil {
		return nil, fmt.Errorf("failed to create account batch: %w", err)
	}

	for _, acc := range accounts {
		if err := s.seedAccountData(ctx, acc, now); err != nil {
			return nil, fmt.Errorf("failed to seed data for account %s: %w", acc.AccountID, err)
		}
	}

	s.logger.Info("generated account batch", "quantity", quantity)
	return accounts, nil
}

// Get returns the account together with its balance row and recent history.
// A missing balance row means generation was interrupted; it surfaces as-is.
func (s *GeneratorServiceImpl) Get(ctx context.Context, accountID uuid.UUID) (*AccountDetails, error) {
	acc, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	bal, err := s.balances.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	txns, err := s.transactions.GetByAccountID(ctx, accountID, historyDays*maxTransactionsPerDay)
	if err != nil {
		return nil, err
	}

	return &AccountDetails{Account: acc, Balance: bal, Transactions: txns}, nil
}

// All returns the projection for every provisioned account. Transactions are
// omitted from the listing to keep the payload bounded.
func (s *GeneratorServiceImpl) All(ctx context.Context) ([]*AccountDetails, error) {
	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*AccountDetails, 0, len(accounts))
	for _, acc := range accounts {
		bal, err := s.balances.Get(ctx, acc.AccountID)
		if err != nil {
			return nil, err
		}
		details = append(details, &AccountDetails{Account: acc, Balance: bal})
	}
	return details, nil
}

// seedAccountData writes the starting balance and a backdated transaction
// log. History is generated newest-first so that each row's balance snapshot
// can be derived by adding the amount back onto the newer snapshot.
func (s *GeneratorServiceImpl) seedAccountData(ctx context.Context, acc *account.Account, now time.Time) error {
	bal := &balance.Balance{
		AccountID:  acc.AccountID,
		Amount:     s.randomAmount(minStartingBalance, maxStartingBalance),
		LastUpdate: now,
	}
	if err := s.balances.Create(ctx, bal); err != nil {
		return err
	}

	snapshot := bal.Amount
	for day := 1; day <= historyDays; day++ {
		dayStart := now.AddDate(0, 0, -day).Truncate(24 * time.Hour)
		for i := s.rng.Intn(maxTransactionsPerDay + 1); i > 0; i-- {
			amount := s.randomAmount(minHistoryAmount, maxHistoryAmount)
			txn := transaction.Transaction{
				TransactionID: uuid.New(),
				AccountID:     acc.AccountID,
				Amount:        amount,
				Type:          transaction.TypeDebit,
				Timestamp:     dayStart.Add(time.Duration(s.rng.Intn(24)) * time.Hour),
			}
			accountTxn := txn.WithCurrentBalance(snapshot)
			if err := s.transactions.Create(ctx, &accountTxn); err != nil {
				return err
			}
			snapshot = snapshot.Add(amount)
		}
	}
	return nil
}

func (s *GeneratorServiceImpl) randomAmount(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(min + s.rng.Float64()*(max-min)).Round(2)
}
