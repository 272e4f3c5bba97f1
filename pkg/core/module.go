package core

import (
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/config"
	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/Sokol111/warehouse-commons/pkg/core/logger"
	"github.com/Sokol111/warehouse-commons/pkg/core/worker"
	"go.uber.org/fx"
)

// coreOptions holds internal configuration for the core module.
type coreOptions struct {
	appConfig     *config.AppConfig
	loggerConfig  *logger.Config
	disableDotEnv bool
	disableConfig bool
}

// Option is a functional option for configuring the core module.
type Option func(*coreOptions)

// WithAppConfig provides a static AppConfig (useful for tests).
func WithAppConfig(cfg config.AppConfig) Option {
	return func(o *coreOptions) {
		o.appConfig = &cfg
	}
}

// WithLoggerConfig provides a static logger Config (useful for tests).
func WithLoggerConfig(cfg logger.Config) Option {
	return func(o *coreOptions) {
		o.loggerConfig = &cfg
	}
}

// WithoutEnvFile disables loading of the .env file.
func WithoutEnvFile() Option {
	return func(o *coreOptions) {
		o.disableDotEnv = true
	}
}

// WithoutConfigFile disables loading of the yaml config file.
func WithoutConfigFile() Option {
	return func(o *coreOptions) {
		o.disableConfig = true
	}
}

// NewCoreModule provides the ambient platform every service starts from:
// dotenv, viper, app config, logger, readiness tracking and the worker
// group. Startup and shutdown timeouts are raised because consumers wait
// for topics and readiness before accepting work.
//
// Example usage:
//
//	// Production
//	core.NewCoreModule()
//
//	// Testing
//	core.NewCoreModule(
//	    core.WithAppConfig(config.AppConfig{...}),
//	    core.WithLoggerConfig(logger.Config{...}),
//	    core.WithoutEnvFile(),
//	    core.WithoutConfigFile(),
//	)
func NewCoreModule(opts ...Option) fx.Option {
	options := &coreOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return fx.Options(
		fx.StartTimeout(5*time.Minute),
		fx.StopTimeout(5*time.Minute),

		dotEnvModule(options),
		viperModule(options),
		appConfigModule(options),
		loggerModule(options),
		health.NewReadinessModule(),
		worker.NewWorkerModule(),
	)
}

func dotEnvModule(o *coreOptions) fx.Option {
	if o.disableDotEnv {
		return fx.Options()
	}
	return config.NewDotEnvModule()
}

func viperModule(o *coreOptions) fx.Option {
	if o.disableConfig {
		return config.NewViperModule(config.WithoutConfigFile())
	}
	return config.NewViperModule()
}

func appConfigModule(o *coreOptions) fx.Option {
	if o.appConfig != nil {
		return config.NewAppConfigModule(config.WithAppConfig(*o.appConfig))
	}
	return config.NewAppConfigModule()
}

func loggerModule(o *coreOptions) fx.Option {
	if o.loggerConfig != nil {
		return logger.NewZapLoggingModule(logger.WithLoggerConfig(*o.loggerConfig))
	}
	return logger.NewZapLoggingModule()
}
