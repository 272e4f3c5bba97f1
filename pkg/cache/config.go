package cache

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const defaultTTL = 5 * time.Minute

// Config holds Redis cache connection settings.
type Config struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTL is the default lifetime of cached entries.
	TTL time.Duration `mapstructure:"ttl"`
}

func newConfig(v *viper.Viper) (*Config, error) {
	conf := &Config{}
	if sub := v.Sub("cache"); sub != nil {
		if err := sub.Unmarshal(conf); err != nil {
			return nil, fmt.Errorf("failed to load cache config: %w", err)
		}
	}
	if conf.Addr == "" {
		return nil, fmt.Errorf("cache: addr is required")
	}
	if conf.TTL <= 0 {
		conf.TTL = defaultTTL
	}
	return conf, nil
}
