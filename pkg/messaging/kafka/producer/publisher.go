package producer

import (
	"context"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// publisher implements events.Publisher by producing straight to Kafka and
// waiting for the broker acknowledgement before returning. Staged events
// reach it only after their transaction committed, so a delivery failure
// here is reported to the caller and never rolls anything back.
type publisher struct {
	producer Producer
	tracer   trace.Tracer
	log      *zap.Logger
}

func newPublisher(producer Producer, tp trace.TracerProvider, log *zap.Logger) *publisher {
	return &publisher{
		producer: producer,
		tracer:   tp.Tracer("kafka-producer"),
		log:      log.With(zap.String("component", "kafka-producer")),
	}
}

func (p *publisher) Publish(ctx context.Context, event events.Event) error {
	ctx, span := p.startProducerSpan(ctx, event)
	defer span.End()

	if err := p.publish(ctx, event); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (p *publisher) publish(ctx context.Context, event events.Event) error {
	msg, err := encodeMessage(ctx, event)
	if err != nil {
		return err
	}

	deliveryChan := make(chan kafka.Event, 1)
	if err := p.producer.Produce(msg, deliveryChan); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for delivery of event %s: %w", event.GetMetadata().EventID, ctx.Err())
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event type %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery of event %s to topic %s failed: %w",
				event.GetMetadata().EventID, event.Topic(), m.TopicPartition.Error)
		}
	}

	p.log.Debug("event published",
		zap.String("event_id", event.GetMetadata().EventID),
		zap.String("event_type", event.Kind()),
		zap.String("topic", event.Topic()))
	return nil
}

func (p *publisher) startProducerSpan(ctx context.Context, event events.Event) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "kafka.produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", event.Topic()),
			attribute.String("messaging.message.id", event.GetMetadata().EventID),
		),
	)
}
