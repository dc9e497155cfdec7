package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/account-authorizer/internal/domain/account"
	"github.com/account-authorizer/internal/domain/balance"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// MockAccountRepository mocks account.Repository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) All(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateBatch(ctx context.Context, accounts []*account.Account) error {
	args := m.Called(ctx, accounts)
	return args.Error(0)
}

// MockBalanceRepository mocks balance.Repository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Create(ctx context.Context, bal *balance.Balance) error {
	args := m.Called(ctx, bal)
	return args.Error(0)
}

func (m *MockBalanceRepository) Get(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*balance.Balance), args.Error(1)
}

func (m *MockBalanceRepository) UpdateAmount(ctx context.Context, accountID uuid.UUID, prior, next decimal.Decimal) error {
	args := m.Called(ctx, accountID, prior, next)
	return args.Error(0)
}

func (m *MockBalanceRepository) WithTx(tx pgx.Tx) balance.Repository {
	m.Called(tx)
	return m
}

// MockTransactionRepository mocks transaction.Repository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *transaction.AccountTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*transaction.AccountTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByAccountIDInRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*transaction.AccountTransaction, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit int) ([]*transaction.AccountTransaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	m.Called(tx)
	return m
}

// MockMessagePublisher mocks producers.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
