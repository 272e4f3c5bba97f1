package outbox

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/producer"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Sender produces queued outbox messages to Kafka. Delivery reports land on
// the shared delivery channel where the confirmer picks them up, so Run
// never waits for broker acknowledgements.
type Sender struct {
	producer     producer.Producer
	entitiesChan <-chan *outboxEntity
	deliveryChan chan kafka.Event
	propagator   tracePropagator
	log          *zap.Logger
}

func newSender(p producer.Producer, entitiesChan <-chan *outboxEntity, deliveryChan chan kafka.Event, propagator tracePropagator, log *zap.Logger) *Sender {
	return &Sender{
		producer:     p,
		entitiesChan: entitiesChan,
		deliveryChan: deliveryChan,
		propagator:   propagator,
		log:          log.With(zap.String("component", "outbox-sender")),
	}
}

// Run loops until ctx ends. Produce failures are logged and left for the
// fetcher to redeliver after the backoff.
func (s *Sender) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case entity := <-s.entitiesChan:
			s.send(entity)
		}
	}
}

func (s *Sender) send(entity *outboxEntity) {
	_, span, headers := s.propagator.StartKafkaProducerSpan(entity.Headers, entity.Topic, entity.ID)
	defer span.End()

	// Opaque travels through librdkafka into the delivery report, it is how
	// the confirmer maps a report back to the outbox document.
	err := s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &entity.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(entity.Key),
		Value:          entity.Payload,
		Headers:        headers,
		Opaque:         entity.ID,
	}, s.deliveryChan)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		s.log.Error("failed to produce outbox message",
			zap.String("id", entity.ID),
			zap.String("topic", entity.Topic),
			zap.Error(err))
		return
	}

	span.SetStatus(codes.Ok, "")
	s.log.Debug("outbox message produced",
		zap.String("id", entity.ID),
		zap.String("topic", entity.Topic))
}
