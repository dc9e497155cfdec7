// Package mongo provides the MongoDB implementation of the account repository.
// Account metadata (active flag, daily limit) is read-mostly and lives apart
// from the balances and the transaction log.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/account-authorizer/internal/domain/account"
)

const (
	// AccountCollectionName is the name of the accounts collection in MongoDB
	AccountCollectionName = "accounts"
)

// accountDocument is the BSON form of an account. The daily limit is stored
// as a string to avoid float drift in the driver's default numeric mapping.
type accountDocument struct {
	AccountID  uuid.UUID `bson:"account_id"`
	CreatedAt  time.Time `bson:"created_at"`
	IsActive   bool      `bson:"is_active"`
	DailyLimit string    `bson:"daily_limit"`
}

func toDocument(acc *account.Account) accountDocument {
	return accountDocument{
		AccountID:  acc.AccountID,
		CreatedAt:  acc.CreatedAt,
		IsActive:   acc.IsActive,
		DailyLimit: acc.DailyLimit.String(),
	}
}

func (d accountDocument) toAccount() (*account.Account, error) {
	limit, err := decimal.NewFromString(d.DailyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to parse daily limit: %w", err)
	}
	return &account.Account{
		AccountID:  d.AccountID,
		CreatedAt:  d.CreatedAt,
		IsActive:   d.IsActive,
		DailyLimit: limit,
	}, nil
}

// AccountRepository implements the account.Repository interface for MongoDB
type AccountRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewAccountRepository creates a new MongoDB account repository
func NewAccountRepository(logger *slog.Logger, db *mongo.Database) account.Repository {
	return &AccountRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves an account by its ID.
// Returns ErrAccountNotFound if no account exists with the given ID.
func (r *AccountRepository) Get(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	collection := r.db.Collection(AccountCollectionName)

	filter := bson.M{"account_id": accountID}
	var doc accountDocument
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, account.ErrAccountNotFound{AccountID: accountID}
		}
		r.logger.Error("Failed to get account",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return doc.toAccount()
}

// All retrieves every account. The collection is small (generated test data),
// so no pagination.
func (r *AccountRepository) All(ctx context.Context) ([]*account.Account, error) {
	collection := r.db.Collection(AccountCollectionName)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode accounts", "error", err)
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	accounts := make([]*account.Account, 0, len(docs))
	for _, doc := range docs {
		acc, err := doc.toAccount()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}

	return accounts, nil
}

// CreateBatch stores a batch of generated accounts
func (r *AccountRepository) CreateBatch(ctx context.Context, accounts []*account.Account) error {
	if len(accounts) == 0 {
		return nil
	}

	collection := r.db.Collection(AccountCollectionName)

	docs := make([]interface{}, 0, len(accounts))
	for _, acc := range accounts {
		docs = append(docs, toDocument(acc))
	}

	_, err := collection.InsertMany(ctx, docs)
	if err != nil {
		r.logger.Error("Failed to create accounts", "count", len(accounts), "error", err)
		return fmt.Errorf("failed to create accounts: %w", err)
	}

	return nil
}
