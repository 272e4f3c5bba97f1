package config

import (
	"context"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// dotenvOptions holds configuration for the dotenv module.
type dotenvOptions struct {
	path   string
	loaded bool
}

// DotEnvOption is a functional option for configuring the dotenv module.
type DotEnvOption func(*dotenvOptions)

// WithDotEnvPath sets a custom path to the .env file.
func WithDotEnvPath(path string) DotEnvOption {
	return func(o *dotenvOptions) {
		o.path = path
	}
}

// NewDotEnvModule loads environment variables from a .env file.
// By default it loads from ".env" in the current directory. Loading happens
// synchronously when the module is created, so APP_* variables set in the
// file are visible to the app config module.
func NewDotEnvModule(opts ...DotEnvOption) fx.Option {
	options := &dotenvOptions{path: ".env"}
	for _, opt := range opts {
		opt(options)
	}

	err := godotenv.Load(options.path)
	options.loaded = err == nil

	return fx.Module("dotenv",
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if options.loaded {
						logger.Info("loaded .env file", zap.String("path", options.path))
					} else {
						logger.Debug("no .env file loaded", zap.String("path", options.path))
					}
					return nil
				},
			})
		}),
	)
}
