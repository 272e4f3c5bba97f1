package consumer

import (
	"context"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const readPollTimeout = 5 * time.Second

// messageReader is the subset of *kafka.Consumer the reader needs
type messageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

// reader polls the broker and feeds raw messages into the pipeline channel.
type reader struct {
	consumer     messageReader
	topic        string
	messagesChan chan<- *kafka.Message
	log          *zap.Logger
	waiter       health.ReadinessWaiter
	errorTracker *errorTracker
}

func newReader(
	consumer messageReader,
	topic string,
	messagesChan chan<- *kafka.Message,
	log *zap.Logger,
	waiter health.ReadinessWaiter,
) *reader {
	return &reader{
		consumer:     consumer,
		topic:        topic,
		messagesChan: messagesChan,
		log:          log,
		waiter:       waiter,
		errorTracker: newErrorTracker(log),
	}
}

func (r *reader) Run(ctx context.Context) error {
	// Consume only once the whole service is allowed to take traffic,
	// otherwise messages race the rest of the startup sequence
	r.log.Info("waiting for readiness before reading messages")
	if err := r.waiter.WaitTrafficReady(ctx); err != nil {
		return nil
	}
	r.log.Info("readiness achieved, starting to read messages")

	for {
		if ctx.Err() != nil {
			return nil
		}

		msg, err := r.consumer.ReadMessage(readPollTimeout)
		if err != nil {
			readerErr := wrapReaderError(err)

			if readerErr.isTimeout() {
				continue
			}

			if readerErr.isFatal() {
				r.log.Error("fatal kafka error, stopping reader",
					zap.String("topic", r.topic),
					zap.Error(readerErr))
				return readerErr
			}

			if readerErr.isTemporary() {
				r.errorTracker.logReaderError(readerErr)
				sleep(ctx, readerErr.retryDelay())
				continue
			}

			r.log.Error("failed to read message", zap.Error(readerErr))
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case r.messagesChan <- msg:
		}
	}
}
