package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/account-authorizer/internal/config"
	"github.com/segmentio/kafka-go"
)

type TransactionCommandProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates the command producer used by the web service and ensures the topic exists
func NewTransactionCommandProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TransactionCommandProducer, error) {
	if cfg.CommandTopic == "" {
		return nil, fmt.Errorf("kafka command topic is not configured")
	}

	if err := ensureTopic(cfg.Brokers, cfg.CommandTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure command topic %s exists: %w", cfg.CommandTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.CommandTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.CommandTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.CommandTopic, "count", len(messages))
			}
		},
	}

	return &TransactionCommandProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.CommandTopic,
	}, nil
}

func (p *TransactionCommandProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for command producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish command",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish command to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published command",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *TransactionCommandProducer) Close() error {
	p.logger.Info("Closing command Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close command kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
