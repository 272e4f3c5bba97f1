package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const (
	confirmBatchSize     = 100
	confirmFlushInterval = 2 * time.Second
)

// Confirmer collects Kafka delivery reports and marks delivered messages as
// sent in batches. Failed deliveries are skipped, the fetcher redelivers
// them once the backoff elapses.
type Confirmer struct {
	repository   repository
	deliveryChan <-chan kafka.Event
	log          *zap.Logger
	wg           sync.WaitGroup
}

func newConfirmer(repository repository, deliveryChan <-chan kafka.Event, log *zap.Logger) *Confirmer {
	return &Confirmer{
		repository:   repository,
		deliveryChan: deliveryChan,
		log:          log.With(zap.String("component", "outbox-confirmer")),
	}
}

// Run collects reports until ctx ends, then flushes the pending batch and
// waits for in-flight updates.
func (c *Confirmer) Run(ctx context.Context) error {
	// Confirmations record delivery facts, they must survive shutdown
	// cancellation or the fetcher resends already delivered messages.
	updateCtx := context.WithoutCancel(ctx)

	ticker := time.NewTicker(confirmFlushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, confirmBatchSize)

	for {
		select {
		case <-ctx.Done():
			c.flush(updateCtx, batch)
			c.wg.Wait()
			return nil
		case <-ticker.C:
			batch = c.flush(updateCtx, batch)
		case e := <-c.deliveryChan:
			id, ok := c.confirmedID(e)
			if !ok {
				continue
			}
			batch = append(batch, id)
			if len(batch) >= confirmBatchSize {
				batch = c.flush(updateCtx, batch)
			}
		}
	}
}

// flush writes the batch in the background and returns a fresh one. The
// write happens off the loop goroutine so a slow update cannot back up the
// delivery channel.
func (c *Confirmer) flush(ctx context.Context, batch []string) []string {
	if len(batch) == 0 {
		return batch
	}

	ids := batch
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.repository.UpdateAsSentByIds(ctx, ids); err != nil {
			c.log.Error("failed to mark outbox messages as sent",
				zap.Int("count", len(ids)),
				zap.Error(err))
		}
	}()

	return make([]string, 0, confirmBatchSize)
}

// confirmedID extracts the outbox document id from a clean delivery report.
func (c *Confirmer) confirmedID(e kafka.Event) (string, bool) {
	msg, ok := e.(*kafka.Message)
	if !ok {
		return "", false
	}

	if msg.TopicPartition.Error != nil {
		c.log.Warn("outbox message delivery failed, leaving for redelivery",
			zap.Error(msg.TopicPartition.Error))
		return "", false
	}

	id, ok := msg.Opaque.(string)
	if !ok {
		c.log.Error("delivery report without outbox id", zap.Any("opaque", msg.Opaque))
		return "", false
	}
	return id, true
}
