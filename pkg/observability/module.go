// Package observability wires OpenTelemetry tracing and metrics behind one
// shared configuration section.
package observability

import (
	"github.com/Sokol111/warehouse-commons/pkg/observability/config"
	"github.com/Sokol111/warehouse-commons/pkg/observability/metrics"
	"github.com/Sokol111/warehouse-commons/pkg/observability/tracing"
	"go.uber.org/fx"
)

// NewObservabilityModule provides tracing and metrics on top of one shared
// observability config. Options are forwarded to the config module.
//
// Example usage:
//
//	// Production - loads config from viper
//	observability.NewObservabilityModule()
//
//	// Testing - with static config, signals disabled
//	observability.NewObservabilityModule(
//	    config.WithDisableTracing(),
//	    config.WithDisableMetrics(),
//	)
func NewObservabilityModule(opts ...config.Option) fx.Option {
	return fx.Options(
		config.NewObservabilityConfigModule(opts...),
		tracing.NewTracingModule(),
		metrics.NewMetricsModule(),
	)
}
