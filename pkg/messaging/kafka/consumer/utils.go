package consumer

import (
	"context"
	"time"
)

// sleep waits out d, or less when the context is cancelled first.
func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
