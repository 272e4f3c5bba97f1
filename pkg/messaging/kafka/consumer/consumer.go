package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/config"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// provideKafkaConsumer creates the underlying Kafka consumer. Offsets are
// stored manually after each message is handled and committed in the
// background, so a crash replays everything since the last commit instead of
// losing it.
func provideKafkaConsumer(lc fx.Lifecycle, conf config.Config, consumerConf config.ConsumerConfig, log *zap.Logger) (*kafka.Consumer, error) {
	kafkaConsumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        conf.Brokers,
		"group.id":                 consumerConf.GroupID,
		"enable.auto.commit":       true,
		"enable.auto.offset.store": false,
		"auto.commit.interval.ms":  3000,
		"auto.offset.reset":        consumerConf.AutoOffsetReset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer, name: %s: %w", consumerConf.Name, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Final commit before closing
			if _, commitErr := kafkaConsumer.Commit(); commitErr != nil {
				var kafkaErr kafka.Error
				if !errors.As(commitErr, &kafkaErr) || kafkaErr.Code() != kafka.ErrNoOffset {
					log.Warn("failed to commit offsets on shutdown", zap.Error(commitErr))
				}
			} else {
				log.Debug("final commit successful")
			}

			log.Info("closing kafka consumer")
			return kafkaConsumer.Close()
		},
	})

	return kafkaConsumer, nil
}
