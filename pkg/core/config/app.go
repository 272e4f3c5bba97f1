package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Environment variable names
const (
	envAppEnv            = "APP_ENV"
	envAppServiceName    = "APP_SERVICE_NAME"
	envAppServiceVersion = "APP_SERVICE_VERSION"
	envConfigFile        = "CONFIG_FILE"
	envConfigDir         = "CONFIG_DIR"
	envConfigName        = "CONFIG_NAME"
	envKubernetesHost    = "KUBERNETES_SERVICE_HOST"
)

const defaultConfigDir = "./configs"

// AppConfig carries the service identity and configuration file location.
// It is loaded from environment variables once, before anything else starts.
type AppConfig struct {
	// ConfigFile is the full path to the config file
	ConfigFile string
	// ServiceName is the name of the service
	ServiceName string
	// ServiceVersion is the version of the service
	ServiceVersion string
	// Environment is the deployment environment (e.g., "local", "staging", "pro")
	Environment string
	// IsKubernetes reports whether the process runs inside a Kubernetes pod
	IsKubernetes bool
}

// appConfigOptions holds internal configuration for the app config module.
type appConfigOptions struct {
	static *AppConfig
}

// AppConfigOption is a functional option for configuring the app config module.
type AppConfigOption func(*appConfigOptions)

// WithAppConfig provides a static AppConfig instead of reading environment
// variables. Useful for tests.
func WithAppConfig(cfg AppConfig) AppConfigOption {
	return func(o *appConfigOptions) {
		o.static = &cfg
	}
}

// NewAppConfigModule provides AppConfig loaded from environment variables.
//
// Required environment variables:
//   - APP_ENV: Environment name (e.g., "local", "staging", "pro")
//   - APP_SERVICE_NAME: Service name
//   - APP_SERVICE_VERSION: Service version
//
// Optional environment variables:
//   - CONFIG_FILE: Full path to config file (default: ./configs/config.{env}.yaml)
//   - CONFIG_DIR, CONFIG_NAME: Used to build the default path
func NewAppConfigModule(opts ...AppConfigOption) fx.Option {
	options := &appConfigOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return fx.Module("appconfig",
		fx.Provide(func() (AppConfig, error) {
			if options.static != nil {
				return *options.static, nil
			}
			return newAppConfig()
		}),
		fx.Invoke(func(logger *zap.Logger, conf AppConfig) {
			logger.Info("loaded application configuration",
				zap.String("service", conf.ServiceName),
				zap.String("version", conf.ServiceVersion),
				zap.String("environment", conf.Environment),
				zap.String("configFile", conf.ConfigFile),
				zap.Bool("kubernetes", conf.IsKubernetes),
			)
		}),
	)
}

// newAppConfig reads the service identity from environment variables.
func newAppConfig() (AppConfig, error) {
	env := os.Getenv(envAppEnv)
	if env == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppEnv)
	}

	serviceName := os.Getenv(envAppServiceName)
	if serviceName == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppServiceName)
	}

	serviceVersion := os.Getenv(envAppServiceVersion)
	if serviceVersion == "" {
		return AppConfig{}, fmt.Errorf("%s is required", envAppServiceVersion)
	}

	configFile := os.Getenv(envConfigFile)
	if configFile == "" {
		configDir := os.Getenv(envConfigDir)
		if configDir == "" {
			configDir = defaultConfigDir
		}

		configName := os.Getenv(envConfigName)
		if configName == "" {
			configName = "config." + env
		}

		configFile = filepath.Join(configDir, configName+".yaml")
	}

	return AppConfig{
		ConfigFile:     configFile,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    env,
		IsKubernetes:   os.Getenv(envKubernetesHost) != "",
	}, nil
}
