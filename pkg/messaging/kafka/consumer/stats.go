package consumer

import (
	"sync/atomic"

	"go.uber.org/zap"
)

const consecutiveFailureWarnEvery = 10

// processingStats tracks per-consumer processing outcomes. A growing run of
// consecutive failures is the signal that a consumer only ever fails, which
// manual acknowledgment would otherwise hide behind committed offsets.
type processingStats struct {
	log                 *zap.Logger
	processed           atomic.Int64
	failed              atomic.Int64
	consecutiveFailures atomic.Int64
}

func newProcessingStats(log *zap.Logger) *processingStats {
	return &processingStats{log: log}
}

func (s *processingStats) recordSuccess() {
	s.processed.Add(1)
	s.consecutiveFailures.Store(0)
}

func (s *processingStats) recordFailure() {
	s.processed.Add(1)
	s.failed.Add(1)

	streak := s.consecutiveFailures.Add(1)
	if streak%consecutiveFailureWarnEvery == 0 {
		s.log.Warn("consumer keeps failing",
			zap.Int64("consecutive_failures", streak),
			zap.Int64("processed_total", s.processed.Load()),
			zap.Int64("failed_total", s.failed.Load()))
	}
}
