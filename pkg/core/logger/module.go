package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// loggerOptions holds internal configuration for the logging module.
type loggerOptions struct {
	static *Config
}

// LoggerOption is a functional option for configuring the logging module.
type LoggerOption func(*loggerOptions)

// WithLoggerConfig provides a static Config instead of reading viper.
// Useful for tests.
func WithLoggerConfig(cfg Config) LoggerOption {
	return func(o *loggerOptions) {
		o.static = &cfg
	}
}

// NewZapLoggingModule provides a configured *zap.Logger and routes fx's own
// lifecycle events through it.
func NewZapLoggingModule(opts ...LoggerOption) fx.Option {
	options := &loggerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return fx.Options(
		fx.Provide(
			func(v *viper.Viper) (Config, error) {
				if options.static != nil {
					return *options.static, nil
				}
				return newConfig(v)
			},
			provideLogger,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
}

func provideLogger(lc fx.Lifecycle, conf Config) (*zap.Logger, error) {
	log, err := newLogger(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			err := log.Sync()
			if err != nil {
				// Sync on stderr returns EINVAL, which is not a real failure
				if pathErr, ok := err.(*os.PathError); ok && pathErr.Err.Error() == "invalid argument" {
					return nil
				}
				return err
			}
			return nil
		},
	})

	return log, nil
}
