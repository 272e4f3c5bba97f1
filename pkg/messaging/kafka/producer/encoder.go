package producer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// eventTypeHeader names the Kafka header carrying the event kind. Consumers
// read it as the first hint when resolving a decoded envelope.
const eventTypeHeader = "event-type"

// encodeMessage turns a domain event into a Kafka message. The event is
// marshalled as one flat JSON object carrying metadata keys and payload
// fields together, keyed by aggregate id so events of the same aggregate
// land on the same partition in order.
func encodeMessage(ctx context.Context, event events.Event) (*kafka.Message, error) {
	topic := event.Topic()
	if topic == "" {
		return nil, fmt.Errorf("event %s has no topic", event.Kind())
	}

	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", event.Kind(), err)
	}

	key := event.AggregateID()
	if key == "" {
		key = event.GetMetadata().EventID
	}

	headers := []kafka.Header{{Key: eventTypeHeader, Value: []byte(event.Kind())}}
	headers = append(headers, traceHeaders(ctx)...)

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          value,
		Headers:        headers,
	}, nil
}

// traceHeaders injects the current trace context into Kafka headers so the
// consumer side can continue the trace.
func traceHeaders(ctx context.Context) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := make([]kafka.Header, 0, len(carrier))
	for key, value := range carrier {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}
	return headers
}
