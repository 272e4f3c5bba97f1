package producer

import (
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// Producer sends prepared Kafka messages. The outbox sender and the direct
// publisher both go through this interface, so tests can swap in a mock.
type Producer interface {
	Produce(message *kafka.Message, deliveryChan chan kafka.Event) error
	Close()
}

// kafkaProducer is the slice of *kafka.Producer the wrapper depends on.
type kafkaProducer interface {
	Produce(message *kafka.Message, deliveryChan chan kafka.Event) error
	Close()
}

type producer struct {
	producer kafkaProducer
	log      *zap.Logger
}

func newProducer(kp kafkaProducer, log *zap.Logger) *producer {
	return &producer{producer: kp, log: log}
}

func (p *producer) Produce(message *kafka.Message, deliveryChan chan kafka.Event) error {
	if err := p.producer.Produce(message, deliveryChan); err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", message.TopicPartition, err)
	}
	return nil
}

func (p *producer) Close() {
	p.producer.Close()
}

// watchEvents drains the producer's global event channel until Close shuts
// it down. Delivery reports arrive on per-message delivery channels, so only
// client-level errors show up here.
func watchEvents(kp *kafka.Producer, log *zap.Logger) {
	for e := range kp.Events() {
		switch ev := e.(type) {
		case kafka.Error:
			if ev.IsFatal() {
				log.Error("kafka producer fatal error", zap.Error(ev))
			} else {
				log.Warn("kafka producer error", zap.Error(ev))
			}
		}
	}
}
