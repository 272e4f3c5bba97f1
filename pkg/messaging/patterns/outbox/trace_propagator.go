package outbox

import (
	"context"
	"maps"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// tracePropagator carries trace context across the outbox store. The trace
// active at Create time is saved into the document headers and resumed
// around the eventual Kafka produce, which may happen seconds later on a
// worker goroutine with no request context of its own.
type tracePropagator interface {
	// SaveTraceContext injects the current trace context into a copy of
	// headers. The input map is never mutated.
	SaveTraceContext(ctx context.Context, headers map[string]string) map[string]string

	// StartKafkaProducerSpan resumes the trace saved in headers and opens a
	// producer span under it. The returned Kafka headers carry the stored
	// values plus the propagation fields of the new span.
	StartKafkaProducerSpan(headers map[string]string, topic string, messageID string) (context.Context, trace.Span, []kafka.Header)
}

type otelTracePropagator struct {
	tracer trace.Tracer
}

func newTracePropagator(tp trace.TracerProvider) tracePropagator {
	return &otelTracePropagator{tracer: tp.Tracer("outbox")}
}

func (p *otelTracePropagator) SaveTraceContext(ctx context.Context, headers map[string]string) map[string]string {
	carrier := propagation.MapCarrier(maps.Clone(headers))
	if carrier == nil {
		carrier = propagation.MapCarrier{}
	}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

func (p *otelTracePropagator) StartKafkaProducerSpan(headers map[string]string, topic string, messageID string) (context.Context, trace.Span, []kafka.Header) {
	parent := otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(headers))

	ctx, span := p.tracer.Start(parent, "kafka.produce.buffer",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.message.id", messageID),
		),
	)

	carrier := propagation.MapCarrier(maps.Clone(headers))
	if carrier == nil {
		carrier = propagation.MapCarrier{}
	}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	kafkaHeaders := make([]kafka.Header, 0, len(carrier))
	for key, value := range carrier {
		kafkaHeaders = append(kafkaHeaders, kafka.Header{Key: key, Value: []byte(value)})
	}
	return ctx, span, kafkaHeaders
}
