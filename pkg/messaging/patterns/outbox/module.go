package outbox

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/core/worker"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/producer"
	"github.com/Sokol111/warehouse-commons/pkg/persistence/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewOutboxModule wires transactional event delivery: the Outbox for
// handlers that store events inside their transaction, the fetcher, sender
// and confirmer workers, and a decorated events.Publisher so staged events
// drain into the outbox instead of straight to Kafka.
//
// Requires the persistence, producer and events modules.
func NewOutboxModule() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			newChannels,
			newRepository,
			newTracePropagator,
			provideOutbox,
			provideFetcher,
			provideSender,
			provideConfirmer,
			worker.Register[*Fetcher]("outbox-fetcher", worker.WithTrafficReady()),
			worker.Register[*Sender]("outbox-sender", worker.WithTrafficReady()),
			worker.Register[*Confirmer]("outbox-confirmer", worker.WithTrafficReady()),
		),
		fx.Decorate(decoratePublisher),
		fx.Invoke(registerSchemaSetup),
	)
}

func provideOutbox(repository repository, ch *channels, propagator tracePropagator, populator events.MetadataPopulator) Outbox {
	return newOutbox(repository, ch.entities, propagator, populator)
}

func provideFetcher(repository repository, ch *channels, log *zap.Logger) *Fetcher {
	return newFetcher(repository, ch.entities, log)
}

func provideSender(p producer.Producer, ch *channels, propagator tracePropagator, log *zap.Logger) *Sender {
	return newSender(p, ch.entities, ch.delivery, propagator, log)
}

func provideConfirmer(repository repository, ch *channels, log *zap.Logger) *Confirmer {
	return newConfirmer(repository, ch.delivery, log)
}

// decoratePublisher reroutes events.Publisher to the outbox. The direct
// Kafka publisher stays in the graph undecorated, only consumers of the
// interface switch to durable delivery.
func decoratePublisher(_ events.Publisher, outbox Outbox, log *zap.Logger) events.Publisher {
	return newPublisher(outbox, log)
}

func registerSchemaSetup(lc fx.Lifecycle, log *zap.Logger, partitions mongo.Partitions) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := EnsureIndexes(ctx, partitions); err != nil {
				return err
			}
			log.Info("outbox indexes ensured")
			return nil
		},
	})
}
