package consumer

import (
	"context"
	"errors"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// offsetStorer is an interface for storing message offsets
type offsetStorer interface {
	StoreMessage(m *kafka.Message) (storedOffsets []kafka.TopicPartition, err error)
}

// resultHandler maps every processing outcome to the single terminal state:
// the offset is stored and the message is acknowledged. The only exception
// is shutdown, where the message stays unacknowledged and is redelivered.
type resultHandler struct {
	log   *zap.Logger
	store offsetStorer
	stats *processingStats
}

func newResultHandler(log *zap.Logger, consumer *kafka.Consumer, stats *processingStats) *resultHandler {
	return &resultHandler{
		log:   log,
		store: consumer,
		stats: stats,
	}
}

func (h *resultHandler) handle(ctx context.Context, err error, message *kafka.Message, span trace.Span) {
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		// Офсет не зберігаємо, після рестарту повідомлення прийде знову
		span.SetStatus(codes.Error, "processing interrupted by shutdown")
		h.log.Warn("processing interrupted, message will be redelivered", h.messageFields(message)...)
		return
	}

	defer h.storeOffset(message)

	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "message processed successfully")
		h.stats.recordSuccess()

	case errors.Is(err, ErrSkipMessage):
		span.SetStatus(codes.Ok, "message skipped")
		h.stats.recordSuccess()
		h.log.Debug("skipping message", h.messageFields(message)...)

	case errors.Is(err, ErrDegraded):
		span.SetStatus(codes.Ok, "message processed with degraded outcome")
		h.stats.recordSuccess()
		h.log.Warn("event processed with degraded outcome", h.messageFieldsWithError(message, err)...)

	case isTenantMismatch(err):
		span.RecordError(err)
		span.SetStatus(codes.Error, "tenant ownership violation")
		h.stats.recordFailure()
		h.log.Error("tenant ownership violation, acknowledging message",
			append(h.messageFieldsWithError(message, err), zap.String("security", "tenant_mismatch"))...)

	case isNonRetryable(err):
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-retryable error")
		h.stats.recordFailure()
		h.log.Error("non-retryable error, acknowledging message", h.messageFieldsWithError(message, err)...)

	default:
		// Retry exhausted
		span.RecordError(err)
		span.SetStatus(codes.Error, "retries exhausted")
		h.stats.recordFailure()
		h.log.Error("retries exhausted, acknowledging message", h.messageFieldsWithError(message, err)...)
	}
}

func (h *resultHandler) storeOffset(message *kafka.Message) {
	if _, err := h.store.StoreMessage(message); err != nil {
		h.log.Error("failed to store offset", h.messageFieldsWithError(message, err)...)
	}
}

func (h *resultHandler) messageFields(message *kafka.Message) []zap.Field {
	return []zap.Field{
		zap.String("key", string(message.Key)),
		zap.Int32("partition", message.TopicPartition.Partition),
		zap.Int64("offset", int64(message.TopicPartition.Offset)),
	}
}

func (h *resultHandler) messageFieldsWithError(message *kafka.Message, err error) []zap.Field {
	return append(h.messageFields(message), zap.Error(err))
}
