package outbox

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"go.uber.org/zap"
)

// publisher adapts the outbox into the events.Publisher the staging buffer
// drains into. Publish stores the event durably and nudges the sender; only
// the store can fail the call.
type publisher struct {
	outbox Outbox
	log    *zap.Logger
}

func newPublisher(outbox Outbox, log *zap.Logger) *publisher {
	return &publisher{
		outbox: outbox,
		log:    log.With(zap.String("component", "outbox")),
	}
}

func (p *publisher) Publish(ctx context.Context, event events.Event) error {
	sendFunc, err := p.outbox.Create(ctx, Message{Event: event})
	if err != nil {
		return err
	}

	if err := sendFunc(ctx); err != nil {
		// The document is already stored, the fetcher redelivers it after
		// the grace period.
		p.log.Debug("outbox nudge failed",
			zap.String("event_id", event.GetMetadata().EventID),
			zap.Error(err))
	}
	return nil
}
