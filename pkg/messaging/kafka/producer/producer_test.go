package producer

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// mockKafkaProducer is a mock implementation of the kafkaProducer interface.
type mockKafkaProducer struct {
	produceFunc func(msg *kafka.Message, deliveryChan chan kafka.Event) error
	closed      atomic.Bool
}

func (m *mockKafkaProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if m.produceFunc != nil {
		return m.produceFunc(msg, deliveryChan)
	}
	return nil
}

func (m *mockKafkaProducer) Close() {
	m.closed.Store(true)
}

func TestNewProducer(t *testing.T) {
	t.Run("creates producer with dependencies", func(t *testing.T) {
		p := newProducer(&mockKafkaProducer{}, zap.NewNop())

		assert.NotNil(t, p)
	})
}

func TestProducer_Produce(t *testing.T) {
	topic := "stock-item-events"

	t.Run("delegates message and delivery channel", func(t *testing.T) {
		var capturedMessage *kafka.Message
		var capturedChan chan kafka.Event

		mock := &mockKafkaProducer{
			produceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				capturedMessage = msg
				capturedChan = deliveryChan
				return nil
			},
		}
		p := newProducer(mock, zap.NewNop())

		message := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            []byte("item-1"),
			Value:          []byte(`{"event_id":"evt-1"}`),
		}
		deliveryChan := make(chan kafka.Event, 1)

		err := p.Produce(message, deliveryChan)

		assert.NoError(t, err)
		assert.Equal(t, message, capturedMessage)
		assert.Equal(t, deliveryChan, capturedChan)
	})

	t.Run("wraps error with topic information", func(t *testing.T) {
		queueFull := errors.New("local queue full")
		mock := &mockKafkaProducer{
			produceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				return queueFull
			},
		}
		p := newProducer(mock, zap.NewNop())

		message := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Value:          []byte("payload"),
		}

		err := p.Produce(message, nil)

		assert.Error(t, err)
		assert.ErrorIs(t, err, queueFull)
		assert.Contains(t, err.Error(), topic)
	})

	t.Run("passes headers through unchanged", func(t *testing.T) {
		var capturedMessage *kafka.Message
		mock := &mockKafkaProducer{
			produceFunc: func(msg *kafka.Message, deliveryChan chan kafka.Event) error {
				capturedMessage = msg
				return nil
			},
		}
		p := newProducer(mock, zap.NewNop())

		headers := []kafka.Header{
			{Key: "event-type", Value: []byte("StockItemCreated")},
			{Key: "traceparent", Value: []byte("00-abc-def-01")},
		}
		message := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Headers:        headers,
		}

		err := p.Produce(message, nil)

		assert.NoError(t, err)
		assert.Equal(t, headers, capturedMessage.Headers)
	})
}

func TestProducer_Close(t *testing.T) {
	t.Run("closes underlying producer", func(t *testing.T) {
		mock := &mockKafkaProducer{}
		p := newProducer(mock, zap.NewNop())

		p.Close()

		assert.True(t, mock.closed.Load())
	})
}
