package outbox

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func deliveredMessage(id string) *kafka.Message {
	topic := "stock-item-events"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0},
		Opaque:         id,
	}
}

func failedMessage(id string) *kafka.Message {
	topic := "stock-item-events"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic: &topic,
			Error: kafka.NewError(kafka.ErrMsgTimedOut, "message timed out", false),
		},
		Opaque: id,
	}
}

// startConfirmer runs a confirmer over a delivery channel. Reports queued
// before the call are drained right after start, ahead of the first tick.
func startConfirmer(repo *mockRepository, delivery chan kafka.Event) (context.CancelFunc, chan error) {
	c := newConfirmer(repo, delivery, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	return cancel, done
}

func TestConfirmerRun(t *testing.T) {
	t.Run("confirms delivered messages on the flush interval", func(t *testing.T) {
		repo := &mockRepository{}
		delivery := make(chan kafka.Event, 10)
		delivery <- deliveredMessage("evt-1")
		delivery <- deliveredMessage("evt-2")

		cancel, done := startConfirmer(repo, delivery)
		defer cancel()

		require.Eventually(t, func() bool {
			return len(repo.getSentIDs()) == 1
		}, 4*time.Second, 50*time.Millisecond)
		assert.Equal(t, [][]string{{"evt-1", "evt-2"}}, repo.getSentIDs())

		cancel()
		waitStopped(t, done)
	})

	t.Run("flushes a full batch without waiting for the ticker", func(t *testing.T) {
		repo := &mockRepository{}
		delivery := make(chan kafka.Event, confirmBatchSize)
		for i := 0; i < confirmBatchSize; i++ {
			delivery <- deliveredMessage(fmt.Sprintf("evt-%03d", i))
		}

		cancel, done := startConfirmer(repo, delivery)
		defer cancel()

		require.Eventually(t, func() bool {
			return len(repo.getSentIDs()) == 1
		}, time.Second, 10*time.Millisecond)

		ids := repo.getSentIDs()[0]
		assert.Len(t, ids, confirmBatchSize)
		assert.Equal(t, "evt-000", ids[0])

		cancel()
		waitStopped(t, done)
	})

	t.Run("confirms only clean delivery reports", func(t *testing.T) {
		repo := &mockRepository{}
		delivery := make(chan kafka.Event, 10)
		delivery <- failedMessage("evt-1")
		delivery <- kafka.NewError(kafka.ErrAllBrokersDown, "all brokers down", false)

		noID := deliveredMessage("evt-2")
		noID.Opaque = 42
		delivery <- noID

		delivery <- deliveredMessage("evt-3")

		cancel, done := startConfirmer(repo, delivery)
		defer cancel()

		require.Eventually(t, func() bool {
			return len(repo.getSentIDs()) == 1
		}, 4*time.Second, 50*time.Millisecond)
		assert.Equal(t, [][]string{{"evt-3"}}, repo.getSentIDs())

		cancel()
		waitStopped(t, done)
	})

	t.Run("flushes the pending batch on shutdown", func(t *testing.T) {
		repo := &mockRepository{}
		delivery := make(chan kafka.Event, 10)
		delivery <- deliveredMessage("evt-1")
		delivery <- deliveredMessage("evt-2")

		cancel, done := startConfirmer(repo, delivery)

		require.Eventually(t, func() bool {
			return len(delivery) == 0
		}, time.Second, 10*time.Millisecond)

		cancel()
		waitStopped(t, done)
		assert.Equal(t, [][]string{{"evt-1", "evt-2"}}, repo.getSentIDs())
	})

	t.Run("keeps running after update failures", func(t *testing.T) {
		repo := &mockRepository{sentErr: fmt.Errorf("connection reset")}
		delivery := make(chan kafka.Event, 10)
		delivery <- deliveredMessage("evt-1")

		cancel, done := startConfirmer(repo, delivery)

		require.Eventually(t, func() bool {
			return len(delivery) == 0
		}, time.Second, 10*time.Millisecond)

		cancel()
		waitStopped(t, done)
		assert.Empty(t, repo.getSentIDs())
	})
}
