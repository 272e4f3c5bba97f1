package logger

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LogThrottler rate-limits repetitive warnings. Each instance keeps its own
// limiter per key, so different components throttle independently. The
// consumer uses it for repeated transient failures, the cache invalidator
// for unreachable Redis.
type LogThrottler struct {
	log      *zap.Logger
	limiters sync.Map // map[string]*rate.Limiter
	interval time.Duration
}

// NewLogThrottler creates a LogThrottler that allows one WARN per key per
// interval. A zero interval defaults to 5 minutes.
func NewLogThrottler(log *zap.Logger, interval time.Duration) *LogThrottler {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &LogThrottler{
		log:      log,
		interval: interval,
	}
}

// Warn logs at WARN once per interval per key, DEBUG otherwise.
func (t *LogThrottler) Warn(key string, msg string, fields ...zap.Field) {
	if t.getLimiter(key).Allow() {
		t.log.Warn(msg, fields...)
	} else {
		t.log.Debug(msg, fields...)
	}
}

func (t *LogThrottler) getLimiter(key string) *rate.Limiter {
	if limiter, ok := t.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	// 1 event per interval, no burst
	limiter := rate.NewLimiter(rate.Every(t.interval), 1)
	actual, _ := t.limiters.LoadOrStore(key, limiter)
	return actual.(*rate.Limiter)
}
