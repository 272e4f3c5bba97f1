package migrations

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultCollectionName = "schema_migrations"
	defaultMigrationsPath = "./db/migrations"
	defaultLockingMinutes = 5
)

// Config controls the migrations runner. Only the shared base database has
// schema history; tenant databases are created on first write and indexed by
// the owning service.
type Config struct {
	Enabled        bool   `mapstructure:"enabled"`
	MigrationsPath string `mapstructure:"migrations-path"`
	CollectionName string `mapstructure:"collection-name"`
	AutoMigrate    bool   `mapstructure:"auto-migrate"`
	LockingTimeout int    `mapstructure:"locking-timeout"`
}

// GetLockingTimeoutDuration returns the migration lock timeout. The config
// value is in minutes.
func (c Config) GetLockingTimeoutDuration() time.Duration {
	return time.Duration(c.LockingTimeout) * time.Minute
}

func newConfig(v *viper.Viper) (Config, error) {
	if !v.IsSet("mongo.migrations") {
		return Config{}, nil
	}

	var cfg Config
	if err := v.Sub("mongo.migrations").UnmarshalExact(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load mongo migrations config: %w", err)
	}

	if cfg.CollectionName == "" {
		cfg.CollectionName = defaultCollectionName
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = defaultMigrationsPath
	}
	if cfg.LockingTimeout == 0 {
		cfg.LockingTimeout = defaultLockingMinutes
	}
	return cfg, nil
}
