// Package outbox implements transactional event delivery. Events are stored
// in a Mongo collection alongside the business write and shipped to Kafka by
// background workers, so a committed transaction can never lose its events.
//
// Handlers have two ways in: call Outbox.Create inside the transaction and
// invoke the returned SendFunc after commit, or stage events through
// events.Stager and let the decorated events.Publisher store them once the
// transaction manager drains the buffer.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/logger"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"go.uber.org/zap"
)

// eventTypeHeader names the Kafka header carrying the event kind. Consumers
// read it as the first hint when resolving a decoded envelope.
const eventTypeHeader = "event-type"

// sendNudgeTimeout bounds how long a SendFunc waits for a free slot on the
// entities channel before leaving delivery to the fetcher.
const sendNudgeTimeout = time.Second

// Message is one event to deliver through the outbox, with optional Kafka
// key and header overrides.
type Message struct {
	Event events.Event

	// Key overrides the Kafka partition key. Defaults to the aggregate id,
	// then the event id.
	Key string

	// Headers are extra Kafka headers stored with the message.
	Headers map[string]string
}

// SendFunc nudges the sender to deliver a created message right away instead
// of waiting for the fetcher to pick it up. Call it after the surrounding
// transaction committed; a failed nudge only costs latency, the document is
// already stored.
type SendFunc func(ctx context.Context) error

// Outbox persists messages for reliable delivery.
type Outbox interface {
	// Create encodes the event, stores it as a pending outbox document and
	// returns a SendFunc for immediate post-commit delivery. The insert
	// joins the caller's transaction when the context carries one.
	Create(ctx context.Context, msg Message) (SendFunc, error)
}

type outbox struct {
	repository   repository
	entitiesChan chan<- *outboxEntity
	propagator   tracePropagator
	populator    events.MetadataPopulator
}

func newOutbox(repository repository, entitiesChan chan<- *outboxEntity, propagator tracePropagator, populator events.MetadataPopulator) Outbox {
	return &outbox{
		repository:   repository,
		entitiesChan: entitiesChan,
		propagator:   propagator,
		populator:    populator,
	}
}

func (o *outbox) Create(ctx context.Context, msg Message) (SendFunc, error) {
	event := msg.Event

	// The staging publisher populates metadata before events get here.
	// Direct callers hand over bare events, populate for them.
	eventID := event.GetMetadata().EventID
	if eventID == "" {
		eventID = o.populator.PopulateMetadata(ctx, event)
	}

	topic := event.Topic()
	if topic == "" {
		return nil, fmt.Errorf("event %s has no topic", event.Kind())
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outbox message: %w", err)
	}

	key := msg.Key
	if key == "" {
		key = event.AggregateID()
	}
	if key == "" {
		key = eventID
	}

	headers := o.propagator.SaveTraceContext(ctx, msg.Headers)
	headers[eventTypeHeader] = event.Kind()

	entity, err := o.repository.Create(ctx, payload, eventID, key, topic, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	o.logCtx(ctx).Debug("outbox message created",
		zap.String("event_id", eventID),
		zap.String("event_type", event.Kind()),
		zap.String("topic", topic))

	return o.sendFunc(entity), nil
}

func (o *outbox) sendFunc(entity *outboxEntity) SendFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(sendNudgeTimeout)
		defer timer.Stop()

		select {
		case o.entitiesChan <- entity:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("outbox didn't sent: %w", ctx.Err())
		case <-timer.C:
			o.logCtx(ctx).Warn("entitiesChan is full, message waits for the fetcher",
				zap.String("id", entity.ID))
			return fmt.Errorf("entitiesChan is full")
		}
	}
}

func (o *outbox) logCtx(ctx context.Context) *zap.Logger {
	return logger.Get(ctx).With(zap.String("component", "outbox"))
}
