package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type configOptions struct {
	static         *Config
	disableTracing bool
	disableMetrics bool
}

// Option configures how the observability Config is produced.
type Option func(*configOptions)

// WithConfig bypasses viper and uses the given Config, for tests.
func WithConfig(cfg Config) Option {
	return func(o *configOptions) {
		o.static = &cfg
	}
}

// WithDisableTracing forces tracing off regardless of configuration.
func WithDisableTracing() Option {
	return func(o *configOptions) {
		o.disableTracing = true
	}
}

// WithDisableMetrics forces metrics off regardless of configuration.
func WithDisableMetrics() Option {
	return func(o *configOptions) {
		o.disableMetrics = true
	}
}

// NewObservabilityConfigModule provides the observability Config, loaded
// from the `observability` viper section unless WithConfig supplied one.
func NewObservabilityConfigModule(opts ...Option) fx.Option {
	o := &configOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return fx.Options(
		fx.Supply(o),
		fx.Provide(provideConfig),
	)
}

func provideConfig(o *configOptions, v *viper.Viper, log *zap.Logger) (Config, error) {
	cfg, err := loadConfig(o, v)
	if err != nil {
		return cfg, err
	}

	if cfg.Metrics.Interval == 0 {
		cfg.Metrics.Interval = DefaultMetricsInterval
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultSampleRatio
	}
	if o.disableTracing {
		cfg.Tracing.Enabled = false
	}
	if o.disableMetrics {
		cfg.Metrics.Enabled = false
	}

	log.Info("loaded observability config",
		zap.Bool("tracing", cfg.Tracing.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled))
	return cfg, nil
}

func loadConfig(o *configOptions, v *viper.Viper) (Config, error) {
	if o.static != nil {
		return *o.static, nil
	}

	var cfg Config
	sub := v.Sub("observability")
	if sub == nil {
		// Absent section means everything stays disabled
		return cfg, nil
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load observability config: %w", err)
	}
	return cfg, nil
}
