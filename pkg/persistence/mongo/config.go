package mongo

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/config"
	"github.com/spf13/viper"
)

type Config struct {
	ConnectionString string `mapstructure:"connection-string"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	ReplicaSet       string `mapstructure:"replica-set"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	DirectConnection bool   `mapstructure:"direct-connection"`

	// TenantDatabasePrefix is prepended to the tenant id when resolving the
	// per-tenant database name. Defaults to "<database>_tenant".
	TenantDatabasePrefix string `mapstructure:"tenant-database-prefix"`

	// Connection pool settings
	MaxPoolSize         uint64        `mapstructure:"max-pool-size"`
	MinPoolSize         uint64        `mapstructure:"min-pool-size"`
	MaxConnIdleTime     time.Duration `mapstructure:"max-conn-idle-time"`
	ConnectTimeout      time.Duration `mapstructure:"connect-timeout"`
	ServerSelectTimeout time.Duration `mapstructure:"server-select-timeout"`

	// QueryTimeout caps the execution time of a single collection operation.
	QueryTimeout time.Duration `mapstructure:"query-timeout"`

	// Transaction bulkhead settings
	MaxConcurrentTransactions int           `mapstructure:"max-concurrent-transactions"`
	TransactionAcquireTimeout time.Duration `mapstructure:"transaction-acquire-timeout"`
}

func newConfig(v *viper.Viper, appConf config.AppConfig) (Config, error) {
	var cfg Config
	if sub := v.Sub("mongo"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load mongo config: %w", err)
		}
	}

	if cfg.Database == "" {
		cfg.Database = appConf.ServiceName
	}

	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	if cfg.TenantDatabasePrefix == "" {
		cfg.TenantDatabasePrefix = cfg.Database + "_tenant"
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 100
	}
	if cfg.MinPoolSize == 0 {
		cfg.MinPoolSize = 10
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = 5 * time.Minute
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.ServerSelectTimeout == 0 {
		cfg.ServerSelectTimeout = 30 * time.Second
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = 30 * time.Second
	}
	if cfg.MaxConcurrentTransactions == 0 {
		cfg.MaxConcurrentTransactions = 100
	}
	if cfg.TransactionAcquireTimeout == 0 {
		cfg.TransactionAcquireTimeout = 10 * time.Second
	}
	return cfg
}

func validateConfig(conf Config) error {
	if conf.Database == "" {
		return fmt.Errorf("mongo database name is required")
	}
	if conf.ConnectionString != "" {
		return nil
	}
	if conf.Host == "" || conf.Port == 0 {
		return fmt.Errorf("invalid mongo configuration: host and port are required")
	}
	return nil
}

// BuildURI renders the connection URI. An explicit connection string wins
// over the individual host settings.
func (c Config) BuildURI() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}

	params := url.Values{}
	if c.ReplicaSet != "" {
		params.Set("replicaSet", c.ReplicaSet)
	}
	if c.DirectConnection {
		params.Set("directConnection", "true")
	}
	u.RawQuery = params.Encode()

	return u.String()
}
