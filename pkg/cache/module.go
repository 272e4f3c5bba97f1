// Package cache is the Redis-backed read cache shared by the warehouse
// services: a JSON cache-aside store with tenant-partitioned keys and a
// consumer handler that evicts stale entries as domain events arrive.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// cacheOptions holds internal configuration for the cache module.
type cacheOptions struct {
	conf *Config
}

// CacheOption is a functional option for configuring the cache module.
type CacheOption func(*cacheOptions)

// WithCacheConfig provides a static Config (useful for tests).
// When set, the configuration will not be loaded from viper.
func WithCacheConfig(cfg Config) CacheOption {
	return func(o *cacheOptions) {
		o.conf = &cfg
	}
}

// NewCacheModule provides the Redis client and the cache Store.
func NewCacheModule(opts ...CacheOption) fx.Option {
	o := &cacheOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configProvider := any(newConfig)
	if o.conf != nil {
		conf := *o.conf
		if conf.TTL <= 0 {
			conf.TTL = defaultTTL
		}
		configProvider = func() (*Config, error) { return &conf, nil }
	}

	return fx.Provide(
		configProvider,
		provideClient,
		newStore,
	)
}

func provideClient(lc fx.Lifecycle, log *zap.Logger, conf *Config, readiness health.ComponentManager) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	markReady := readiness.AddComponent("cache")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
			defer cancel()
			if err := client.Ping(pingCtx).Err(); err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			log.Info("cache connected", zap.String("addr", conf.Addr), zap.Int("db", conf.DB))
			markReady()
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return client
}
