package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/Sokol111/warehouse-commons/pkg/persistence"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"
	"go.uber.org/zap"
)

// maxTxAttempts bounds retries on transient transaction errors.
const maxTxAttempts = 3

type txManager struct {
	runTx     func(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error)
	bulkhead  *Bulkhead
	publisher events.Publisher
	log       *zap.Logger
}

func newTxManager(admin Admin, conf Config, log *zap.Logger, publisher events.Publisher) persistence.TxManager {
	return &txManager{
		runTx:     driverTxRunner(admin.Client()),
		bulkhead:  NewBulkhead(conf.MaxConcurrentTransactions, conf.TransactionAcquireTimeout, log),
		publisher: publisher,
		log:       log,
	}
}

func (t *txManager) WithTransaction(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	var result any
	err := t.bulkhead.Execute(ctx, func() error {
		var execErr error
		result, execErr = t.runWithRetry(ctx, fn)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *txManager) runWithRetry(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			t.log.Warn("retrying transaction", zap.Int("attempt", attempt))
		} else {
			t.log.Debug("starting transaction")
		}

		// Fresh buffer per attempt so a retried callback cannot publish
		// events staged by an aborted run. The driver also re-invokes the
		// callback itself on TransientTransactionError, so the buffer is
		// drained on entry as well.
		txCtx, staging := events.WithStaging(ctx)
		body := func(innerCtx context.Context) (any, error) {
			staging.Drain()
			return fn(innerCtx)
		}

		result, err := t.runTx(txCtx, body)
		if err == nil {
			t.log.Debug("transaction committed", zap.Int("attempts", attempt))
			t.publishStaged(ctx, staging)
			return result, nil
		}

		if isTransientError(err) && attempt < maxTxAttempts {
			t.log.Warn("transient transaction error, will retry",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxTxAttempts),
			)
			continue
		}

		t.log.Error("transaction failed", zap.Error(err), zap.Int("attempt", attempt))
		return nil, fmt.Errorf("transaction failed after %d attempts: %w", attempt, err)
	}
}

// publishStaged flushes events buffered during the transaction. The commit
// already happened, so failures here are logged by the publisher and never
// propagated.
func (t *txManager) publishStaged(ctx context.Context, staging *events.Staging) {
	if staging.Len() == 0 {
		return
	}
	if t.publisher == nil {
		t.log.Error("no event publisher wired, dropping staged events",
			zap.Int("events", staging.Len()),
		)
		return
	}
	events.PublishStaged(ctx, staging, t.publisher)
}

// isTransientError checks for the MongoDB error label that marks a
// transaction as safe to retry.
func isTransientError(err error) bool {
	var serverErr mongodriver.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	return serverErr.HasErrorLabel("TransientTransactionError")
}

// driverTxRunner executes fn inside a driver session with majority read and
// write concerns.
func driverTxRunner(client *mongodriver.Client) func(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
	txOpts := options.Transaction().
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority())

	return func(ctx context.Context, fn func(txCtx context.Context) (any, error)) (any, error) {
		session, err := client.StartSession()
		if err != nil {
			return nil, fmt.Errorf("failed to start session: %w", err)
		}
		defer session.EndSession(ctx)

		return session.WithTransaction(ctx, fn, txOpts)
	}
}
