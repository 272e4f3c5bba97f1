package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// viperOptions holds internal configuration options for the Viper module.
type viperOptions struct {
	configPath   *string
	noConfigFile bool
}

// ViperOption is a functional option for configuring the Viper module.
type ViperOption func(*viperOptions)

// WithConfigPath sets a direct path to the configuration file.
// Overrides the default behavior of resolving from environment variables.
func WithConfigPath(path string) ViperOption {
	return func(o *viperOptions) {
		o.configPath = &path
	}
}

// WithoutConfigFile disables loading of any config file.
// Viper will still be available for DI but with no file-based configuration.
func WithoutConfigFile() ViperOption {
	return func(o *viperOptions) {
		o.noConfigFile = true
	}
}

// FilePath is the path to a configuration file.
// Empty string means no config file will be loaded.
type FilePath string

// NewViperModule provides a *viper.Viper for the rest of the application.
// By default the config path is resolved from the CONFIG_FILE environment
// variable; if it is not set, an empty Viper instance is provided and every
// package falls back to its defaults.
func NewViperModule(opts ...ViperOption) fx.Option {
	options := &viperOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return fx.Module("viper",
		fx.Supply(resolveConfigPath(options)),
		fx.Provide(newViper),
		fx.Invoke(logViperConfig),
	)
}

func logViperConfig(logger *zap.Logger, v *viper.Viper) {
	logger.Info("configuration loaded",
		zap.String("configFile", v.ConfigFileUsed()),
		zap.Int("settingsCount", len(v.AllSettings())),
	)
}

func resolveConfigPath(o *viperOptions) FilePath {
	if o.noConfigFile {
		return ""
	}
	if o.configPath != nil {
		return FilePath(*o.configPath)
	}
	if configFile := os.Getenv(envConfigFile); configFile != "" {
		return FilePath(configFile)
	}
	return ""
}

func newViper(configFile FilePath, logger *zap.Logger) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile == "" {
		logger.Info("no config file specified, using empty viper instance")
		return v, nil
	}

	v.SetConfigFile(string(configFile))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configFile, err)
	}

	return v, nil
}
