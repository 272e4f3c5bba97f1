package consumer

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// MessageEnvelope carries a decoded envelope together with the original Kafka message.
type MessageEnvelope struct {
	Envelope *envelope.Envelope
	Message  *kafka.Message
}

// messageDecoder reads raw Kafka messages, decodes them into envelopes and
// dispatches them to processor channels keyed by partition, so messages from
// one partition are always handled by the same worker in order.
type messageDecoder struct {
	inputChan   <-chan *kafka.Message
	workerChans []chan *MessageEnvelope
	log         *zap.Logger
	tracer      MessageTracer
	store       offsetStorer
}

func newMessageDecoder(
	inputChan <-chan *kafka.Message,
	workerChans []chan *MessageEnvelope,
	log *zap.Logger,
	tracer MessageTracer,
	store offsetStorer,
) *messageDecoder {
	return &messageDecoder{
		inputChan:   inputChan,
		workerChans: workerChans,
		log:         log,
		tracer:      tracer,
		store:       store,
	}
}

func (d *messageDecoder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-d.inputChan:
			d.decodeAndDispatch(ctx, msg)
		}
	}
}

func (d *messageDecoder) decodeAndDispatch(ctx context.Context, message *kafka.Message) {
	env, err := envelope.Decode(message.Value, GetEventType(message.Headers))
	if err != nil {
		// Помилка декодування перманентна, retry не допоможе
		d.acknowledgeUndecodable(ctx, message, err)
		return
	}

	workerChan := d.workerChans[int(message.TopicPartition.Partition)%len(d.workerChans)]

	select {
	case <-ctx.Done():
		return
	case workerChan <- &MessageEnvelope{Envelope: env, Message: message}:
	}
}

// acknowledgeUndecodable logs the malformed message with provenance and
// stores its offset, so one bad payload cannot wedge the partition.
func (d *messageDecoder) acknowledgeUndecodable(ctx context.Context, message *kafka.Message, decodeErr error) {
	tracedCtx := d.tracer.ExtractContext(ctx, message)
	_, span := d.tracer.StartConsumerSpan(tracedCtx, message)
	defer span.End()
	span.RecordError(decodeErr)
	span.SetStatus(codes.Error, "undecodable message acknowledged")

	d.log.Error("failed to decode message, acknowledging",
		zap.String("key", string(message.Key)),
		zap.Int32("partition", message.TopicPartition.Partition),
		zap.Int64("offset", int64(message.TopicPartition.Offset)),
		zap.Error(decodeErr))

	if _, storeErr := d.store.StoreMessage(message); storeErr != nil {
		d.log.Error("failed to store offset",
			zap.Int32("partition", message.TopicPartition.Partition),
			zap.Int64("offset", int64(message.TopicPartition.Offset)),
			zap.Error(storeErr))
	}
}
