package mongo

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Bulkhead caps the number of concurrently running transactions so a burst of
// event handlers cannot exhaust the connection pool.
type Bulkhead struct {
	semaphore *semaphore.Weighted
	timeout   time.Duration
	log       *zap.Logger
}

// NewBulkhead creates a bulkhead admitting at most limit concurrent callers.
// Waiting for a slot is bounded by timeout.
func NewBulkhead(limit int, timeout time.Duration, log *zap.Logger) *Bulkhead {
	log.Info("bulkhead initialized",
		zap.Int("limit", limit),
		zap.Duration("timeout", timeout),
	)

	return &Bulkhead{
		semaphore: semaphore.NewWeighted(int64(limit)),
		timeout:   timeout,
		log:       log,
	}
}

// Execute runs fn once a slot is acquired. It returns the acquisition error
// when no slot frees up within the timeout.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.semaphore.Acquire(timeoutCtx, 1); err != nil {
		b.log.Warn("bulkhead acquisition failed",
			zap.Duration("timeout", b.timeout),
			zap.Error(err),
		)
		return err
	}
	defer b.semaphore.Release(1)

	return fn()
}
