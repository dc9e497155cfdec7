package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/account-authorizer/internal/config"
	"github.com/account-authorizer/internal/domain/transaction"
	"github.com/segmentio/kafka-go"
)

// executedEvent is the wire form of a successfully applied transaction.
// Amounts are fixed to two decimal places with banker's rounding.
type executedEvent struct {
	TransactionID  string `json:"transactionId"`
	AccountID      string `json:"accountId"`
	Amount         string `json:"amount"`
	Type           string `json:"type"`
	Timestamp      string `json:"timestamp"`
	CurrentBalance string `json:"currentBalance"`
}

type TransactionExecutedProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates the executed-event producer used by the authorization service
func NewTransactionExecutedProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TransactionExecutedProducer, error) {
	if cfg.ExecutedTopic == "" {
		return nil, fmt.Errorf("kafka executed topic is not configured")
	}

	if err := ensureTopic(cfg.Brokers, cfg.ExecutedTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure executed topic %s exists: %w", cfg.ExecutedTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ExecutedTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &TransactionExecutedProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ExecutedTopic,
	}, nil
}

// PublishExecuted emits the event keyed by transaction ID with the account ID
// carried as a header for downstream routing.
func (p *TransactionExecutedProducer) PublishExecuted(ctx context.Context, txn *transaction.AccountTransaction) error {
	event := executedEvent{
		TransactionID:  txn.TransactionID.String(),
		AccountID:      txn.AccountID.String(),
		Amount:         txn.Amount.StringFixedBank(2),
		Type:           string(txn.Type),
		Timestamp:      txn.Timestamp.UTC().Format(time.RFC3339Nano),
		CurrentBalance: txn.CurrentBalance.StringFixedBank(2),
	}

	jsonValue, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal executed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: jsonValue,
		Headers: []kafka.Header{
			{Key: "accountId", Value: []byte(event.AccountID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish executed event",
			"topic", p.topic,
			"transaction_id", event.TransactionID,
			"error", err,
		)
		return fmt.Errorf("failed to publish executed event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published executed event",
		"topic", p.topic,
		"transaction_id", event.TransactionID,
		"account_id", event.AccountID,
	)
	return nil
}

func (p *TransactionExecutedProducer) Close() error {
	p.logger.Info("Closing executed-event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close executed kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
