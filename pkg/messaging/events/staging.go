package events

import (
	"context"
	"sync"

	"github.com/Sokol111/warehouse-commons/pkg/core/logger"
	"go.uber.org/zap"
)

// Publisher emits a domain event to the message bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Staging buffers events raised inside a transaction. The transaction
// manager binds one into the context before running the transactional
// function and drains it after a successful commit; a rollback discards it.
type Staging struct {
	mu     sync.Mutex
	events []Event
}

// Stage appends an event to the buffer, preserving order.
func (s *Staging) Stage(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Drain returns the staged events in staging order and empties the buffer,
// so a retried transaction callback starts clean.
func (s *Staging) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.events
	s.events = nil
	return drained
}

// Len returns the number of staged events.
func (s *Staging) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

type stagingKey struct{}

// WithStaging returns a context carrying a fresh staging buffer.
func WithStaging(ctx context.Context) (context.Context, *Staging) {
	staging := &Staging{}
	return context.WithValue(ctx, stagingKey{}, staging), staging
}

// StagingFromContext returns the staging buffer bound to the context, if a
// transaction is active.
func StagingFromContext(ctx context.Context) (*Staging, bool) {
	staging, ok := ctx.Value(stagingKey{}).(*Staging)
	return staging, ok
}

// Stager is what handlers publish through. Inside a transaction the event is
// held until commit; outside one it goes straight to the publisher.
type Stager struct {
	publisher Publisher
	populator MetadataPopulator
}

// NewStager creates a Stager emitting through the given publisher.
func NewStager(publisher Publisher, populator MetadataPopulator) *Stager {
	return &Stager{publisher: publisher, populator: populator}
}

// Stage populates the event's metadata and either buffers it in the active
// transaction or publishes it immediately when no transaction is active.
func (s *Stager) Stage(ctx context.Context, event Event) error {
	s.populator.PopulateMetadata(ctx, event)

	if staging, ok := StagingFromContext(ctx); ok {
		staging.Stage(event)
		logger.Get(ctx).Debug("staged event for post-commit publication",
			zap.String("event_id", event.GetMetadata().EventID),
			zap.String("event_type", event.GetMetadata().EventType),
		)
		return nil
	}

	return s.publisher.Publish(ctx, event)
}

// PublishStaged drains the buffer to the publisher in staging order.
// Failures are logged and skipped: the owning transaction has already
// committed, so nothing here may fail the message. Reconciliation picks up
// consumers that missed a notification.
func PublishStaged(ctx context.Context, staging *Staging, publisher Publisher) {
	for _, event := range staging.Drain() {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Get(ctx).Error("failed to publish staged event after commit",
				zap.String("event_id", event.GetMetadata().EventID),
				zap.String("event_type", event.GetMetadata().EventType),
				zap.Error(err),
			)
		}
	}
}
