package consumer

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/logger"
	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/config"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// panicError представляє помилку, що виникла через panic
type panicError struct {
	Panic interface{}
	Stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Panic)
}

// processor consumes decoded envelopes from its channel and drives each one
// to the single terminal state through retry and result handling.
type processor struct {
	envelopeChan      <-chan *MessageEnvelope
	handler           Handler
	log               *zap.Logger
	resultHandler     *resultHandler
	tracer            MessageTracer
	maxRetries        uint64
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	processingTimeout time.Duration
}

func newProcessor(
	envelopeChan <-chan *MessageEnvelope,
	handler Handler,
	log *zap.Logger,
	resultHandler *resultHandler,
	tracer MessageTracer,
	conf config.ConsumerConfig,
) *processor {
	return &processor{
		envelopeChan:      envelopeChan,
		handler:           handler,
		log:               log,
		resultHandler:     resultHandler,
		tracer:            tracer,
		maxRetries:        uint64(conf.MaxRetryAttempts - 1), // first attempt is not a retry
		initialBackoff:    conf.InitialBackoff,
		maxBackoff:        conf.MaxBackoff,
		backoffMultiplier: conf.BackoffMultiplier,
		processingTimeout: conf.ProcessingTimeout,
	}
}

func (p *processor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case me := <-p.envelopeChan:
			if ctx.Err() != nil {
				return nil
			}
			p.processMessage(ctx, me)
		}
	}
}

func (p *processor) processMessage(ctx context.Context, me *MessageEnvelope) {
	// Витягуємо trace context з Kafka headers
	ctx = p.tracer.ExtractContext(ctx, me.Message)

	// Створюємо span для обробки повідомлення
	ctx, span := p.tracer.StartConsumerSpan(ctx, me.Message)
	defer span.End()

	ctx = p.bindEventContext(ctx, me.Envelope)

	err := p.executeWithRetry(ctx, me.Envelope)

	p.resultHandler.handle(ctx, err, me.Message, span)
}

// bindEventContext carries tenant, correlation and actor from the envelope
// into the context and enriches the context logger with event identity, so
// every log line written while handling this event is attributable.
func (p *processor) bindEventContext(ctx context.Context, env *envelope.Envelope) context.Context {
	tenantID := env.TenantID()
	if tenantID != "" {
		ctx = tenant.WithTenant(ctx, tenantID)
	}
	ctx = tenant.WithCorrelation(ctx, env.CorrelationID(), env.CausationID())
	ctx = tenant.EnsureCorrelation(ctx)
	ctx = tenant.WithActor(ctx, env.Actor())

	fields := []zap.Field{
		zap.String("event_id", env.EventID()),
		zap.String("event_kind", string(env.Kind())),
	}
	if tenantID != "" {
		fields = append(fields, zap.String("tenant_id", tenantID))
	}
	if correlationID, ok := tenant.CorrelationID(ctx); ok {
		fields = append(fields, zap.String("correlation_id", correlationID))
	}
	return logger.With(ctx, p.log.With(fields...))
}

// executeWithRetry виконує обробку з повторними спробами при помилках
func (p *processor) executeWithRetry(ctx context.Context, env *envelope.Envelope) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := p.process(ctx, env)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrSkipMessage) || errors.Is(err, ErrDegraded) || isNonRetryable(err) {
			return backoff.Permanent(err)
		}
		p.log.Warn("failed to process event, will retry",
			zap.Int("attempt", attempt),
			zap.Uint64("max_retries", p.maxRetries),
			zap.Error(err))
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.initialBackoff
	bo.MaxInterval = p.maxBackoff
	bo.Multiplier = p.backoffMultiplier
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, p.maxRetries), ctx))
	if err == nil || ctx.Err() != nil {
		return err
	}
	if errors.Is(err, ErrSkipMessage) || errors.Is(err, ErrDegraded) || isNonRetryable(err) {
		return err
	}
	return fmt.Errorf("retries exhausted: %w", err)
}

// process виконує одну спробу обробки з panic recovery
func (p *processor) process(ctx context.Context, env *envelope.Envelope) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			// Panic - це перманентна помилка (вказує на баг у коді)
			err = fmt.Errorf("%w: %v", ErrPermanent, &panicError{
				Panic: rec,
				Stack: debug.Stack(),
			})
		}
	}()

	if p.processingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.processingTimeout)
		defer cancel()
	}

	return p.handler.Handle(ctx, env)
}
