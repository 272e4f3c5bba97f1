package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port int `mapstructure:"port"`

	// Server connection settings
	Connection ConnectionConfig `mapstructure:"connection"`
}

// ConnectionConfig contains low-level HTTP server connection settings.
// These are "hard" timeouts that close the connection without HTTP response.
type ConnectionConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout"` // Time to read request headers (Slowloris protection)
	ReadTimeout       time.Duration `mapstructure:"read-timeout"`        // Time to read entire request (headers + body)
	WriteTimeout      time.Duration `mapstructure:"write-timeout"`       // Time to write response
	IdleTimeout       time.Duration `mapstructure:"idle-timeout"`        // Keep-alive timeout between requests
	MaxHeaderBytes    int           `mapstructure:"max-header-bytes"`    // Max size of request headers
}

func newConfig(v *viper.Viper, logger *zap.Logger) (Config, error) {
	var cfg Config
	if sub := v.Sub("server"); sub != nil {
		if err := sub.UnmarshalExact(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load server config: %w", err)
		}
	}

	cfg.Connection.setDefaults()

	logger.Info("loaded server config", zap.Any("config", cfg))
	return cfg, nil
}

// setDefaults sets default values for server connection settings (optimized for API services).
func (c *ConnectionConfig) setDefaults() {
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10 * time.Second // Default: 10s - protection against Slowloris
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second // Default: 30s - enough for typical API requests
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 40 * time.Second // Default: 40s
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second // Default: 120s - keep-alive timeout
	}
	if c.MaxHeaderBytes == 0 {
		c.MaxHeaderBytes = 1 << 20 // Default: 1 MB
	}
}
