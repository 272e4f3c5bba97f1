package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadObservabilityConfig(t *testing.T, yml string, opts ...Option) (Config, error) {
	t.Helper()

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yml)))

	o := &configOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return provideConfig(o, v, zap.NewNop())
}

func TestProvideConfig(t *testing.T) {
	t.Run("loads config from the observability section", func(t *testing.T) {
		cfg, err := loadObservabilityConfig(t, `
observability:
  otel-collector-endpoint: otel-collector:4317
  tracing:
    enabled: true
    sample-ratio: 0.25
  metrics:
    enabled: true
    interval: 30s
`)

		require.NoError(t, err)
		assert.Equal(t, "otel-collector:4317", cfg.OtelCollectorEndpoint)
		assert.True(t, cfg.Tracing.Enabled)
		assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Metrics.Interval)
	})

	t.Run("applies defaults for missing values", func(t *testing.T) {
		cfg, err := loadObservabilityConfig(t, `
observability:
  tracing:
    enabled: true
  metrics:
    enabled: true
`)

		require.NoError(t, err)
		assert.Equal(t, DefaultSampleRatio, cfg.Tracing.SampleRatio)
		assert.Equal(t, DefaultMetricsInterval, cfg.Metrics.Interval)
	})

	t.Run("returns disabled config when section is missing", func(t *testing.T) {
		cfg, err := loadObservabilityConfig(t, `
server:
  port: 8080
`)

		require.NoError(t, err)
		assert.False(t, cfg.Tracing.Enabled)
		assert.False(t, cfg.Metrics.Enabled)
		assert.Equal(t, DefaultSampleRatio, cfg.Tracing.SampleRatio)
		assert.Equal(t, DefaultMetricsInterval, cfg.Metrics.Interval)
	})

	t.Run("uses static config when provided", func(t *testing.T) {
		static := Config{
			OtelCollectorEndpoint: "static:4317",
			Tracing:               TracingConfig{Enabled: true, SampleRatio: 0.5},
			Metrics:               MetricsConfig{Enabled: true, Interval: time.Minute},
		}

		cfg, err := loadObservabilityConfig(t, `
observability:
  otel-collector-endpoint: from-file:4317
`, WithConfig(static))

		require.NoError(t, err)
		assert.Equal(t, "static:4317", cfg.OtelCollectorEndpoint)
		assert.Equal(t, 0.5, cfg.Tracing.SampleRatio)
	})

	t.Run("disables tracing and metrics through options", func(t *testing.T) {
		cfg, err := loadObservabilityConfig(t, `
observability:
  tracing:
    enabled: true
  metrics:
    enabled: true
`, WithDisableTracing(), WithDisableMetrics())

		require.NoError(t, err)
		assert.False(t, cfg.Tracing.Enabled)
		assert.False(t, cfg.Metrics.Enabled)
	})

	t.Run("rejects malformed section", func(t *testing.T) {
		_, err := loadObservabilityConfig(t, `
observability:
  tracing:
    enabled: [not, a, bool]
`)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load observability config")
	})
}
