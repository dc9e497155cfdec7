package consumers

import (
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// offsetTracker serializes offset commits per partition while messages are
// processed concurrently. Messages are tracked in fetch order; an offset
// becomes committable only once it and every earlier tracked offset on the
// same partition have completed. Committing a Kafka offset acknowledges all
// earlier offsets too, so releasing only the prefix boundary is what keeps a
// failed message from being implicitly acknowledged by a later success.
type offsetTracker struct {
	mu         sync.Mutex
	partitions map[string][]pendingMessage
}

type pendingMessage struct {
	msg  kafka.Message
	done bool
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{
		partitions: make(map[string][]pendingMessage),
	}
}

func partitionKey(msg kafka.Message) string {
	return fmt.Sprintf("%s/%d", msg.Topic, msg.Partition)
}

// track registers a fetched message. It must be called in fetch order,
// before the message is handed to a worker.
func (t *offsetTracker) track(msg kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := partitionKey(msg)
	t.partitions[key] = append(t.partitions[key], pendingMessage{msg: msg})
}

// complete marks the message as processed and returns the highest message of
// the partition's fully-processed prefix, which is safe to commit. The
// second return is false while an earlier offset is still in flight.
func (t *offsetTracker) complete(msg kafka.Message) (kafka.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := partitionKey(msg)
	pending := t.partitions[key]
	for i := range pending {
		if pending[i].msg.Offset == msg.Offset {
			pending[i].done = true
			break
		}
	}

	var commit kafka.Message
	committable := false
	for len(pending) > 0 && pending[0].done {
		commit = pending[0].msg
		committable = true
		pending = pending[1:]
	}
	t.partitions[key] = pending

	return commit, committable
}
