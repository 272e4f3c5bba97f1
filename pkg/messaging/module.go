package messaging

import (
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/config"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/producer"
	"go.uber.org/fx"
)

// messagingOptions holds internal configuration for the messaging module.
type messagingOptions struct {
	kafkaConfig *config.Config
}

// MessagingOption is a functional option for configuring the messaging module.
type MessagingOption func(*messagingOptions)

// WithKafkaConfig provides a static Kafka Config (useful for tests).
// When set, the Kafka configuration will not be loaded from viper.
func WithKafkaConfig(cfg config.Config) MessagingOption {
	return func(opts *messagingOptions) {
		opts.kafkaConfig = &cfg
	}
}

// NewMessagingModule provides the publishing side of the event pipeline:
// kafka config, the producer, and the event registry, metadata populator and
// stager. Consumers are registered per topic with
// consumer.RegisterHandlerAndConsumer, and outbox publication is opt-in
// through outbox.NewOutboxModule.
//
// Example usage:
//
//	// Production - loads config from viper
//	messaging.NewMessagingModule()
//
//	// Testing - with static config
//	messaging.NewMessagingModule(
//	    messaging.WithKafkaConfig(config.Config{...}),
//	)
func NewMessagingModule(opts ...MessagingOption) fx.Option {
	cfg := &messagingOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		kafkaConfigModule(cfg),
		events.NewEventsModule(),
		producer.NewProducerModule(),
	)
}

func kafkaConfigModule(cfg *messagingOptions) fx.Option {
	if cfg.kafkaConfig != nil {
		return config.NewKafkaConfigModule(config.WithKafkaConfig(*cfg.kafkaConfig))
	}
	return config.NewKafkaConfigModule()
}
