package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentBalanceService_AccountCurrentBalance(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	accountID := uuid.New()

	// Fixed clock so day boundaries are predictable
	now := time.Date(2024, 3, 15, 14, 30, 45, 123456789, time.UTC)
	expectedStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	expectedEnd := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	newService := func(balanceRepo *MockBalanceRepository, txnRepo *MockTransactionRepository) *CurrentBalanceServiceImpl {
		return &CurrentBalanceServiceImpl{
			balanceRepo:     balanceRepo,
			transactionRepo: txnRepo,
			logger:          logger,
			now:             func() time.Time { return now },
		}
	}

	t.Run("SumsTodaysTransactions", func(t *testing.T) {
		balanceRepo := new(MockBalanceRepository)
		txnRepo := new(MockTransactionRepository)
		svc := newService(balanceRepo, txnRepo)

		balanceRepo.On("Get", ctx, accountID).Return(&balance.Balance{
			AccountID: accountID,
			Amount:    decimal.NewFromFloat(1000.50),
		}, nil).Once()

		txns := []*transaction.AccountTransaction{
			{Transaction: transaction.Transaction{Amount: decimal.NewFromFloat(10.25)}},
			{Transaction: transaction.Transaction{Amount: decimal.NewFromFloat(39.75)}},
			{Transaction: transaction.Transaction{Amount: decimal.NewFromInt(50)}},
		}
		txnRepo.On("GetByAccountIDInRange", ctx, accountID, expectedStart, expectedEnd).Return(txns, nil).Once()

		result, err := svc.AccountCurrentBalance(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, accountID, result.AccountID)
		assert.True(t, result.CurrentBalance.Equal(decimal.NewFromFloat(1000.50)))
		assert.True(t, result.DailyTransacted.Equal(decimal.NewFromInt(100)))

		balanceRepo.AssertExpectations(t)
		txnRepo.AssertExpectations(t)
	})

	t.Run("ZeroDailyTransactedWhenNoTransactions", func(t *testing.T) {
		balanceRepo := new(MockBalanceRepository)
		txnRepo := new(MockTransactionRepository)
		svc := newService(balanceRepo, txnRepo)

		balanceRepo.On("Get", ctx, accountID).Return(&balance.Balance{
			AccountID: accountID,
			Amount:    decimal.NewFromInt(500),
		}, nil).Once()
		txnRepo.On("GetByAccountIDInRange", ctx, accountID, expectedStart, expectedEnd).
			Return([]*transaction.AccountTransaction{}, nil).Once()

		result, err := svc.AccountCurrentBalance(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, result.DailyTransacted.IsZero())

		balanceRepo.AssertExpectations(t)
		txnRepo.AssertExpectations(t)
	})

	t.Run("BalanceNotFound", func(t *testing.T) {
		balanceRepo := new(MockBalanceRepository)
		txnRepo := new(MockTransactionRepository)
		svc := newService(balanceRepo, txnRepo)

		balanceRepo.On("Get", ctx, accountID).
			Return(nil, balance.ErrBalanceNotFound{AccountID: accountID}).Once()

		result, err := svc.AccountCurrentBalance(ctx, accountID)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, balance.ErrBalanceNotFound{})

		balanceRepo.AssertExpectations(t)
		txnRepo.AssertNotCalled(t, "GetByAccountIDInRange")
	})

	t.Run("AggregationError", func(t *testing.T) {
		balanceRepo := new(MockBalanceRepository)
		txnRepo := new(MockTransactionRepository)
		svc := newService(balanceRepo, txnRepo)

		expectedErr := errors.New("db down")
		balanceRepo.On("Get", ctx, accountID).Return(&balance.Balance{
			AccountID: accountID,
			Amount:    decimal.NewFromInt(500),
		}, nil).Once()
		txnRepo.On("GetByAccountIDInRange", ctx, accountID, expectedStart, expectedEnd).
			Return(nil, expectedErr).Once()

		result, err := svc.AccountCurrentBalance(ctx, accountID)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestDayRange(t *testing.T) {
	t.Run("ConvertsToUTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*3600)
		local := time.Date(2024, 3, 15, 2, 0, 0, 0, loc) // 2024-03-14 21:00 UTC

		start, end := dayRange(local)
		assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
	})

	t.Run("EndIsLastInstantOfDay", func(t *testing.T) {
		start, end := dayRange(time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC))
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), start)
		assert.True(t, end.Before(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 999999999, end.Nanosecond())
	})
}
