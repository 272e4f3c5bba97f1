package outbox

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	emptyQueueWait = 2 * time.Second
	fetchErrorWait = 5 * time.Second
)

// Fetcher claims due outbox documents and feeds them to the sender. It is
// the redelivery path: anything the SendFunc nudge missed, or that failed
// to produce, comes back through here once its backoff elapses.
type Fetcher struct {
	repository   repository
	entitiesChan chan<- *outboxEntity
	log          *zap.Logger
}

func newFetcher(repository repository, entitiesChan chan<- *outboxEntity, log *zap.Logger) *Fetcher {
	return &Fetcher{
		repository:   repository,
		entitiesChan: entitiesChan,
		log:          log.With(zap.String("component", "outbox-fetcher")),
	}
}

// Run polls until ctx ends. It never returns an error: an empty queue or a
// failed fetch only pauses the loop.
func (f *Fetcher) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		entity, err := f.repository.FetchAndLock(ctx)
		if err != nil {
			if errors.Is(err, errEntityNotFound) {
				waitOrDone(ctx, emptyQueueWait)
				continue
			}
			if ctx.Err() != nil {
				break
			}
			f.log.Error("failed to fetch outbox entity", zap.Error(err))
			waitOrDone(ctx, fetchErrorWait)
			continue
		}

		select {
		case f.entitiesChan <- entity:
		case <-ctx.Done():
		}
	}
	return nil
}

// waitOrDone sleeps for d or until ctx ends, whichever comes first.
func waitOrDone(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
