package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	topicLookupAttempts = 5
	topicLookupBackoff  = 2 * time.Second
)

// ensureTopic dials the broker and creates the topic when it does not exist
// yet. Partition lookups are retried because a broker that has just started
// can refuse metadata requests for a short while.
func ensureTopic(brokers, topic string, partitions, replicationFactor int, log *slog.Logger) error {
	conn, err := kafka.Dial("tcp", brokers)
	if err != nil {
		return fmt.Errorf("dial kafka broker %s: %w", brokers, err)
	}
	defer conn.Close()

	for attempt := 1; attempt <= topicLookupAttempts; attempt++ {
		existing, lookupErr := conn.ReadPartitions(topic)
		if lookupErr == nil {
			if len(existing) > 0 {
				log.Debug("Kafka topic already exists", "topic", topic, "partitions", len(existing))
				return nil
			}
			break
		}
		log.Warn("Failed to read topic partitions",
			"topic", topic,
			"attempt", attempt,
			"error", lookupErr,
		)
		time.Sleep(topicLookupBackoff)
	}

	if partitions <= 0 {
		partitions = 1
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	log.Info("Creating Kafka topic",
		"topic", topic,
		"partitions", partitions,
		"replication_factor", replicationFactor,
	)
	if err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: replicationFactor,
	}); err != nil {
		return fmt.Errorf("create kafka topic %s: %w", topic, err)
	}
	return nil
}
