// Package client builds the HTTP clients warehouse services use for their
// few synchronous collaborator calls. The transport retries dead-connection
// failures and rotates connections so a redeployed collaborator picks up
// fresh endpoints; the Caller adds bounded status-code retries on top.
package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	// DefaultTimeout bounds a whole collaborator exchange.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxIdleConnsPerHost sizes the pool. Connection rotation keeps
	// a large pool from pinning traffic to stale endpoints.
	DefaultMaxIdleConnsPerHost = 100
	// DefaultIdleConnTimeout is how long an unused connection may sit in
	// the pool before the transport drops it.
	DefaultIdleConnTimeout = 90 * time.Second
	// DefaultMaxConnLifetime forces periodic re-dial so traffic rebalances
	// onto collaborator pods that came up after the pool filled.
	DefaultMaxConnLifetime = 60 * time.Second

	// RedialRetryCap limits transport-level retries before the pool is
	// reset and one last attempt is made on a fresh connection.
	RedialRetryCap = 5

	dialTimeout = 5 * time.Second
)

// Config describes one named collaborator client, loaded from the
// `collaborators` config section:
//
//	collaborators:
//	  stock-service:
//	    base-url: http://stock-service:8080
//	    timeout: 10s
//	    max-idle-conns-per-host: 10
//	    idle-conn-timeout: 10s
//	    max-conn-lifetime: 60s
//
// Absent duration fields fall back to defaults; explicit zero disables the
// corresponding mechanism.
type Config struct {
	BaseURL             string         `mapstructure:"base-url"`
	Timeout             *time.Duration `mapstructure:"timeout"`
	MaxIdleConnsPerHost *int           `mapstructure:"max-idle-conns-per-host"`
	IdleConnTimeout     *time.Duration `mapstructure:"idle-conn-timeout"`
	MaxConnLifetime     *time.Duration `mapstructure:"max-conn-lifetime"`
}

func (c *Config) applyDefaults() {
	if c.Timeout == nil {
		c.Timeout = lo.ToPtr(DefaultTimeout)
	}
	if c.MaxIdleConnsPerHost == nil {
		c.MaxIdleConnsPerHost = lo.ToPtr(DefaultMaxIdleConnsPerHost)
	}
	if c.IdleConnTimeout == nil {
		c.IdleConnTimeout = lo.ToPtr(DefaultIdleConnTimeout)
	}
	if c.MaxConnLifetime == nil {
		c.MaxConnLifetime = lo.ToPtr(DefaultMaxConnLifetime)
	}
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base-url is required")
	}
	return nil
}

// New builds an *http.Client for one collaborator. Missing optional config
// fields are defaulted.
func New(cfg Config) *http.Client {
	cfg.applyDefaults()

	transport := &http.Transport{
		DialContext:         rotatingDialer(*cfg.MaxConnLifetime),
		MaxIdleConnsPerHost: *cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     *cfg.IdleConnTimeout,
	}

	return &http.Client{
		Timeout: *cfg.Timeout,
		Transport: &redialTransport{
			base: transport,
			pool: transport,
			// enough to cycle out a pool of dead connections, no more
			maxRetries: min(*cfg.MaxIdleConnsPerHost, RedialRetryCap),
		},
	}
}

// rotatingDialer dials with a lifetime cap on every connection. With a zero
// lifetime it returns nil so the transport uses its plain default dialer.
func rotatingDialer(maxLifetime time.Duration) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if maxLifetime <= 0 {
		return nil
	}
	dialer := &net.Dialer{Timeout: dialTimeout}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		return newAgingConn(conn, maxLifetime), nil
	}
}

// Provide returns an fx provider building the named collaborator client
// from the viper config tree:
//
//	fx.Provide(fx.Private, client.Provide("stock-service"))
func Provide(name string) func(*viper.Viper) (*http.Client, Config, error) {
	return func(v *viper.Viper) (*http.Client, Config, error) {
		var cfg Config
		if err := v.UnmarshalKey("collaborators."+name, &cfg); err != nil {
			return nil, Config{}, fmt.Errorf("failed to unmarshal collaborator config %q: %w", name, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, Config{}, fmt.Errorf("invalid collaborator config %q: %w", name, err)
		}
		cfg.applyDefaults()
		return New(cfg), cfg, nil
	}
}
