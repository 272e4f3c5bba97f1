package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// kafkaOptions holds internal configuration for the kafka config module.
type kafkaOptions struct {
	conf *Config
}

// KafkaOption is a functional option for configuring the kafka config module.
type KafkaOption func(*kafkaOptions)

// WithKafkaConfig provides a static Config (useful for tests).
// When set, the configuration will not be loaded from viper.
func WithKafkaConfig(cfg Config) KafkaOption {
	return func(o *kafkaOptions) {
		o.conf = &cfg
	}
}

func NewKafkaConfigModule(opts ...KafkaOption) fx.Option {
	o := &kafkaOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configProvider := any(newConfig)
	if o.conf != nil {
		conf := *o.conf
		applyDefaults(&conf)
		configProvider = func() (Config, error) {
			if err := validateConfig(&conf); err != nil {
				return conf, fmt.Errorf("invalid kafka config: %w", err)
			}
			return conf, nil
		}
	}

	return fx.Provide(
		configProvider,
	)
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	sub := v.Sub("kafka")
	if sub == nil {
		return Config{}, fmt.Errorf("kafka config section is missing")
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load kafka config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid kafka config: %w", err)
	}

	logger.Info("loaded kafka config", zap.Any("config", cfg))
	return cfg, nil
}

// ConsumerByName returns the configuration of the consumer with the given
// name. Handler registration resolves its consumer settings through this
// lookup, so a missing entry is a wiring error.
func (c Config) ConsumerByName(name string) (ConsumerConfig, error) {
	for _, consumer := range c.ConsumersConfig.ConsumerConfig {
		if consumer.Name == name {
			return consumer, nil
		}
	}
	return ConsumerConfig{}, fmt.Errorf("consumer config not found for name: %s", name)
}
