package producer

import (
	"context"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewProducerModule wires the Kafka producer and the direct events.Publisher
// built on top of it. Services publishing through the outbox need it too,
// the outbox sender produces through the same Producer.
func NewProducerModule() fx.Option {
	return fx.Provide(
		provideProducer,
		fx.Annotate(newPublisher, fx.As(new(events.Publisher))),
	)
}

func provideProducer(lc fx.Lifecycle, conf config.Config, log *zap.Logger, componentMgr health.ComponentManager) (Producer, error) {
	log = log.With(zap.String("component", "kafka-producer"))

	kp, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": conf.Brokers})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	go watchEvents(kp, log)

	p := newProducer(kp, log)

	markReady := componentMgr.AddComponent("kafka-producer")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := waitForBrokers(ctx, kp, log,
				conf.ProducerConfig.ReadinessTimeoutSeconds,
				*conf.ProducerConfig.FailOnBrokerError); err != nil {
				return err
			}
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("closing kafka producer")
			p.Close()
			return nil
		},
	})

	return p, nil
}
