package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrentBalanceServiceImpl implements the CurrentBalanceService interface
type CurrentBalanceServiceImpl struct {
	balanceRepo     balance.Repository
	transactionRepo transaction.Repository
	logger          *slog.Logger
	now             func() time.Time
}

// NewCurrentBalanceService creates a new current balance service
func NewCurrentBalanceService(logger *slog.Logger, balanceRepo balance.Repository, transactionRepo transaction.Repository) CurrentBalanceService {
	return &CurrentBalanceServiceImpl{
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// AccountCurrentBalance fetches the stored balance and folds today's
// transaction amounts into a daily total. The view is derived on every call;
// nothing is cached or persisted.
func (s *CurrentBalanceServiceImpl) AccountCurrentBalance(ctx context.Context, accountID uuid.UUID) (*balance.CurrentBalance, error) {
	bal, err := s.balanceRepo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	start, end := dayRange(s.now())
	txns, err := s.transactionRepo.GetByAccountIDInRange(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily transactions: %w", err)
	}

	daily := decimal.Zero
	for _, txn := range txns {
		daily = daily.Add(txn.Amount)
	}

	return &balance.CurrentBalance{
		AccountID:       accountID,
		CurrentBalance:  bal.Amount,
		DailyTransacted: daily,
	}, nil
}

// dayRange returns the current UTC day as [startOfDay, nextStartOfDay - 1ns],
// inclusive on both ends.
func dayRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
