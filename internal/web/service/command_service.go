package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/account-authorizer/internal/domain/account"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/account-authorizer/internal/platform/messaging/producers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	minCommandAmount = 1.0
	maxCommandAmount = 200.0
)

// ErrNoAccounts is returned when commands are requested before any account
// has been generated.
var ErrNoAccounts = errors.New("no accounts available, generate accounts first")

// CommandServiceImpl feeds the validation pipeline with synthetic commands.
// It picks target accounts at random from the generated population.
type CommandServiceImpl struct {
	accounts account.Repository
	producer producers.MessagePublisher
	logger   *slog.Logger
	rng      *rand.Rand
	mu       sync.Mutex
	now      func() time.Time
}

func NewCommandService(
	logger *slog.Logger,
	accounts account.Repository,
	producer producers.MessagePublisher,
) *CommandServiceImpl {
	return &CommandServiceImpl{
		accounts: accounts,
		producer: producer,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
	}
}

// ProduceCommands publishes quantity valid commands concurrently, each
// against a random generated account. Publishing continues past individual
// failures; the first error is reported alongside the accepted count.
func (s *CommandServiceImpl) ProduceCommands(ctx context.Context, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errors.New("quantity must be positive")
	}

	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return 0, ErrNoAccounts
	}

	var (
		wg        sync.WaitGroup
		resultMu  sync.Mutex
		published int
		firstErr  error
	)
	for i := 0; i < quantity; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd := s.randomCommand(accounts)
			err := s.producer.Publish(ctx, cmd.TransactionID, cmd)

			resultMu.Lock()
			defer resultMu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			published++
		}()
	}
	wg.Wait()

	s.logger.Info("produced transaction commands", "requested", quantity, "published", published)
	return published, firstErr
}

// ProduceWithAmount publishes a single command carrying the given amount, so
// that validation outcomes such as insufficient funds can be provoked on
// purpose.
func (s *CommandServiceImpl) ProduceWithAmount(ctx context.Context, amount decimal.Decimal) (*transaction.Command, error) {
	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	cmd := s.randomCommand(accounts)
	cmd.Amount = amount
	if err := s.producer.Publish(ctx, cmd.TransactionID, cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}

// ProduceErrorCommands publishes quantity commands that are each broken in
// one randomly chosen way, exercising the dead-letter path end to end.
func (s *CommandServiceImpl) ProduceErrorCommands(ctx context.Context, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, errors.New("quantity must be positive")
	}

	accounts, err := s.accounts.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return 0, ErrNoAccounts
	}

	published := 0
	for i := 0; i < quantity; i++ {
		cmd := s.randomCommand(accounts)
		s.corrupt(&cmd)
		if err := s.producer.Publish(ctx, cmd.TransactionID, cmd); err != nil {
			return published, err
		}
		published++
	}

	s.logger.Info("produced error commands", "published", published)
	return published, nil
}

func (s *CommandServiceImpl) randomCommand(accounts []*account.Account) transaction.Command {
	s.mu.Lock()
	target := accounts[s.rng.Intn(len(accounts))]
	amount := decimal.NewFromFloat(minCommandAmount + s.rng.Float64()*(maxCommandAmount-minCommandAmount)).Round(2)
	s.mu.Unlock()

	return transaction.Command{
		TransactionID: uuid.New().String(),
		AccountID:     target.AccountID.String(),
		Amount:        amount,
		Type:          string(transaction.TypeDebit),
		Timestamp:     s.now().UTC(),
	}
}

// corrupt applies one of the corruptions the validation pipeline is expected
// to dead-letter: unparseable identifiers, a non-positive amount, or an
// unknown transaction type.
func (s *CommandServiceImpl) corrupt(cmd *transaction.Command) {
	s.mu.Lock()
	n := s.rng.Intn(4)
	s.mu.Unlock()

	switch n {
	case 0:
		cmd.TransactionID = "qwerty"
	case 1:
		cmd.AccountID = "qwerty"
	case 2:
		cmd.Amount = decimal.Zero
	case 3:
		cmd.Type = "QWERTY"
	}
}
