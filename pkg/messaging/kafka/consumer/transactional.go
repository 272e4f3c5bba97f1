package consumer

import (
	"context"
	"errors"

	"github.com/Sokol111/warehouse-commons/pkg/core/logger"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/envelope"
	"github.com/Sokol111/warehouse-commons/pkg/persistence"
	"go.uber.org/zap"
)

// NewTransactionalHandler builds the standard consumption pipeline around a
// domain handler: the gate decides whether the event still needs processing,
// then the handler runs inside a single tenant-scoped transaction. Events
// staged by the handler stay in memory and reach the publisher only after
// the transaction commits.
func NewTransactionalHandler(gate Gate, txm persistence.TxManager, handler Handler) Handler {
	return HandlerFunc(func(ctx context.Context, env *envelope.Envelope) error {
		proceed, err := gate.ShouldProcess(ctx, env)
		if err != nil {
			return err
		}
		if !proceed {
			logger.Get(ctx).Debug("event already applied, skipping",
				zap.String("event_id", env.EventID()),
				zap.String("event_kind", string(env.Kind())))
			return ErrSkipMessage
		}

		var degradedErr error
		_, err = txm.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
			handleErr := handler.Handle(txCtx, env)
			if handleErr != nil && errors.Is(handleErr, ErrDegraded) {
				// Degraded outcomes commit, the warning surfaces after the transaction
				degradedErr = handleErr
				return nil, nil
			}
			return nil, handleErr
		})
		if err != nil {
			return err
		}
		return degradedErr
	})
}
