package consumers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader serves a fixed message sequence, then blocks until the context
// is canceled. Commits are recorded for inspection.
type fakeReader struct {
	mu      sync.Mutex
	msgs    []kafka.Message
	next    int
	commits []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if r.next < len(r.msgs) {
		msg := r.msgs[r.next]
		r.next++
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) committed() []kafka.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]kafka.Message, len(r.commits))
	copy(out, r.commits)
	return out
}

func (r *fakeReader) highestCommit(partition int) (int64, bool) {
	highest := int64(-1)
	for _, msg := range r.committed() {
		if msg.Partition == partition && msg.Offset > highest {
			highest = msg.Offset
		}
	}
	return highest, highest >= 0
}

func newTestConsumer(t *testing.T, reader *fakeReader, poolSize int) *KafkaConsumer {
	t.Helper()
	pool, err := ants.NewPool(poolSize)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	return &KafkaConsumer{
		reader:     reader,
		logger:     slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})),
		pool:       pool,
		retryDelay: 5 * time.Millisecond,
	}
}

func commandMessage(partition int, offset int64) kafka.Message {
	return kafka.Message{
		Topic:     "account-transaction-commands",
		Partition: partition,
		Offset:    offset,
		Key:       []byte("key"),
		Value:     []byte("{}"),
	}
}

func TestKafkaConsumer_CommitsUpToLastSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{msgs: []kafka.Message{
		commandMessage(0, 0),
		commandMessage(0, 1),
		commandMessage(0, 2),
	}}
	consumer := newTestConsumer(t, reader, 4)

	err := consumer.Subscribe(ctx, "account-transaction-commands", "group", func(context.Context, []byte, []byte) error {
		return nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		offset, ok := reader.highestCommit(0)
		return ok && offset == 2
	}, 2*time.Second, 10*time.Millisecond, "all offsets should be committed")
}

func TestKafkaConsumer_FailedOffsetBlocksLaterCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := commandMessage(0, 0)
	first.Value = []byte("poison")
	reader := &fakeReader{msgs: []kafka.Message{
		first,
		commandMessage(0, 1),
		commandMessage(0, 2),
	}}
	consumer := newTestConsumer(t, reader, 4)

	var poisonAttempts atomic.Int64
	err := consumer.Subscribe(ctx, "account-transaction-commands", "group", func(_ context.Context, _ []byte, value []byte) error {
		if string(value) == "poison" {
			poisonAttempts.Add(1)
			return errors.New("account not found")
		}
		return nil
	})
	require.NoError(t, err)

	// The poison message has been retried several times by now, and the
	// later offsets have long since succeeded.
	require.Eventually(t, func() bool {
		return poisonAttempts.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond, "failed message should be retried in place")

	_, committed := reader.highestCommit(0)
	assert.False(t, committed, "no offset may be committed past an unacknowledged message")
}

func TestKafkaConsumer_RecoveredMessageUnblocksItsPartition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := commandMessage(0, 0)
	first.Value = []byte("flaky")
	reader := &fakeReader{msgs: []kafka.Message{
		first,
		commandMessage(0, 1),
	}}
	consumer := newTestConsumer(t, reader, 4)

	var flakyAttempts atomic.Int64
	err := consumer.Subscribe(ctx, "account-transaction-commands", "group", func(_ context.Context, _ []byte, value []byte) error {
		if string(value) == "flaky" && flakyAttempts.Add(1) <= 2 {
			return errors.New("balance service unavailable")
		}
		return nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		offset, ok := reader.highestCommit(0)
		return ok && offset == 1
	}, 2*time.Second, 10*time.Millisecond, "partition should commit through once the failure clears")

	assert.GreaterOrEqual(t, flakyAttempts.Load(), int64(3))
}

func TestKafkaConsumer_ProcessesMessagesConcurrently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const workers = 4
	reader := &fakeReader{msgs: []kafka.Message{
		commandMessage(0, 0),
		commandMessage(0, 1),
		commandMessage(0, 2),
		commandMessage(0, 3),
	}}
	consumer := newTestConsumer(t, reader, workers)

	arrived := make(chan struct{}, workers)
	release := make(chan struct{})
	err := consumer.Subscribe(ctx, "account-transaction-commands", "group", func(context.Context, []byte, []byte) error {
		arrived <- struct{}{}
		<-release
		return nil
	})
	require.NoError(t, err)

	// All four handlers must be in flight at the same time before any of
	// them is allowed to finish.
	for i := 0; i < workers; i++ {
		select {
		case <-arrived:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d messages were in flight concurrently", i, workers)
		}
	}
	close(release)

	require.Eventually(t, func() bool {
		offset, ok := reader.highestCommit(0)
		return ok && offset == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestKafkaConsumer_PartitionsCommitIndependently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poisoned := commandMessage(0, 0)
	poisoned.Value = []byte("poison")
	reader := &fakeReader{msgs: []kafka.Message{
		poisoned,
		commandMessage(1, 0),
	}}
	consumer := newTestConsumer(t, reader, 4)

	err := consumer.Subscribe(ctx, "account-transaction-commands", "group", func(_ context.Context, _ []byte, value []byte) error {
		if string(value) == "poison" {
			return errors.New("account not found")
		}
		return nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		offset, ok := reader.highestCommit(1)
		return ok && offset == 0
	}, 2*time.Second, 10*time.Millisecond, "healthy partition should keep committing")

	_, committed := reader.highestCommit(0)
	assert.False(t, committed, "poisoned partition must stay uncommitted")
}

func TestOffsetTracker_CommitsOnlyContiguousPrefix(t *testing.T) {
	tracker := newOffsetTracker()
	for offset := int64(0); offset < 3; offset++ {
		tracker.track(commandMessage(0, offset))
	}

	// Completing out of order must not release anything past the gap.
	_, ok := tracker.complete(commandMessage(0, 1))
	assert.False(t, ok)

	commit, ok := tracker.complete(commandMessage(0, 0))
	require.True(t, ok)
	assert.Equal(t, int64(1), commit.Offset, "prefix boundary covers both completed offsets")

	commit, ok = tracker.complete(commandMessage(0, 2))
	require.True(t, ok)
	assert.Equal(t, int64(2), commit.Offset)
}

func TestOffsetTracker_PartitionsAreIsolated(t *testing.T) {
	tracker := newOffsetTracker()
	tracker.track(commandMessage(0, 0))
	tracker.track(commandMessage(1, 0))

	commit, ok := tracker.complete(commandMessage(1, 0))
	require.True(t, ok)
	assert.Equal(t, 1, commit.Partition)
	assert.Equal(t, int64(0), commit.Offset)

	_, ok = tracker.complete(commandMessage(1, 0))
	assert.False(t, ok, "an already-released offset must not commit twice")
}
