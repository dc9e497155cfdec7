// Package consumers reads transaction commands from Kafka and dispatches
// them to a bounded worker pool. Offsets are committed strictly in fetch
// order per partition: a message that keeps failing is retried in place and
// holds back every later commit on its partition, so it is never skipped and
// is redelivered after a restart or rebalance.
package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/segmentio/kafka-go"

	"github.com/account-authorizer/internal/config"
)

// MessageHandler processes one message. A nil return acknowledges the
// message (processed or dead-lettered); an error means it must be seen again.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error
	Close() error
}

// MessageReader wraps kafka.Reader methods for testing
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ MessageReader = (*kafka.Reader)(nil)

// KafkaConsumer implements Consumer using Kafka. Fetched messages are handed
// to an ants pool, so up to poolSize messages are in flight at once; the
// fetch loop blocks on Submit when the pool is saturated.
type KafkaConsumer struct {
	reader     MessageReader
	logger     *slog.Logger
	pool       *ants.Pool
	retryDelay time.Duration
}

func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig, poolSize int) (*KafkaConsumer, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &KafkaConsumer{
		logger: logger,
		pool:   pool,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.CommandTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.FirstOffset,
		}),
		retryDelay: time.Second,
	}, nil
}

// Subscribe starts the fetch loop. Each fetched message is tracked, then
// processed on the pool; the commit decision happens on the processing
// goroutine once the message and every earlier one on its partition are done.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic",
		"topic", topic,
		"group_id", groupID,
		"concurrency", c.pool.Cap(),
	)

	go func() {
		tracker := newOffsetTracker()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Context canceled, stopping consumer",
					"topic", topic,
					"group_id", groupID,
				)
				return
			default:
				msg, err := c.reader.FetchMessage(ctx)
				if err != nil {
					// If the context was canceled, return
					if ctx.Err() != nil {
						return
					}
					c.logger.Error("Failed to fetch message from Kafka",
						"topic", topic,
						"group_id", groupID,
						"error", err,
					)
					// Otherwise, wait a bit and try again
					time.Sleep(time.Second)
					continue
				}

				c.logger.Debug("Received message from Kafka",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"key", string(msg.Key),
				)

				// Track before Submit so completion order can never
				// overtake fetch order within the partition
				tracker.track(msg)
				if err := c.pool.Submit(func() {
					c.process(ctx, msg, handler, tracker)
				}); err != nil {
					// Submit only fails once the pool is released
					c.logger.Error("Worker pool rejected message, stopping consumer",
						"topic", msg.Topic,
						"partition", msg.Partition,
						"offset", msg.Offset,
						"error", err,
					)
					return
				}
			}
		}
	}()

	return nil
}

// process retries the message in place until the handler acknowledges it,
// then commits the longest fully-processed offset prefix of its partition.
// A message is therefore committed exactly once, and never before every
// earlier message on its partition.
func (c *KafkaConsumer) process(ctx context.Context, msg kafka.Message, handler MessageHandler, tracker *offsetTracker) {
	for {
		err := handler(ctx, msg.Key, msg.Value)
		if err == nil {
			break
		}

		c.logger.Error("Failed to process message, will retry without committing",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"error", err,
		)

		select {
		case <-ctx.Done():
			// Uncommitted; the broker redelivers it to the next assignee
			return
		case <-time.After(c.retryDelay):
		}
	}

	commit, ok := tracker.complete(msg)
	if !ok {
		// An earlier offset on this partition is still in flight
		return
	}

	if err := c.reader.CommitMessages(ctx, commit); err != nil {
		c.logger.Error("Failed to commit message after successful processing",
			"topic", commit.Topic,
			"partition", commit.Partition,
			"offset", commit.Offset,
			"error", err,
		)
		return
	}

	c.logger.Debug("Committed offsets",
		"topic", commit.Topic,
		"partition", commit.Partition,
		"offset", commit.Offset,
	)
}

func (c *KafkaConsumer) Close() error {
	c.pool.Release()
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
