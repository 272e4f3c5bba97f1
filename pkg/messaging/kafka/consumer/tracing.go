package consumer

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MessageTracer continues the producer's trace on the consumer side.
type MessageTracer interface {
	// ExtractContext reads the W3C trace context out of the Kafka headers.
	ExtractContext(ctx context.Context, message *kafka.Message) context.Context

	// StartConsumerSpan opens the span covering one message's handling.
	StartConsumerSpan(ctx context.Context, message *kafka.Message) (context.Context, trace.Span)
}

type messageTracer struct {
	tracer trace.Tracer
}

func newMessageTracer(tp trace.TracerProvider) MessageTracer {
	return &messageTracer{
		tracer: tp.Tracer("kafka-consumer"),
	}
}

// headerCarrier adapts Kafka message headers to the propagator interface
// without copying them into a map.
type headerCarrier []kafka.Header

var _ propagation.TextMapCarrier = headerCarrier(nil)

func (c headerCarrier) Get(key string) string {
	for _, h := range c {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	// read-only on the consume path
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c))
	for i, h := range c {
		keys[i] = h.Key
	}
	return keys
}

func (t *messageTracer) ExtractContext(ctx context.Context, message *kafka.Message) context.Context {
	if len(message.Headers) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, headerCarrier(message.Headers))
}

func (t *messageTracer) StartConsumerSpan(ctx context.Context, message *kafka.Message) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", *message.TopicPartition.Topic),
			attribute.Int("messaging.partition", int(message.TopicPartition.Partition)),
			attribute.Int64("messaging.offset", int64(message.TopicPartition.Offset)),
			attribute.String("messaging.message.key", string(message.Key)),
		),
	)
}
