package outbox

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const defaultMaxBackoff = 10 * time.Hour

// Config tunes outbox redelivery.
type Config struct {
	// MaxBackoff caps the exponential delay between redelivery attempts.
	MaxBackoff time.Duration `mapstructure:"max-backoff"`
}

// newConfig reads the optional outbox section. A missing section yields the
// defaults, the outbox works without any configuration.
func newConfig(v *viper.Viper) (*Config, error) {
	conf := &Config{}

	sub := v.Sub("outbox")
	if sub != nil {
		if err := sub.Unmarshal(conf); err != nil {
			return nil, fmt.Errorf("failed to load outbox config: %w", err)
		}
	}

	if conf.MaxBackoff <= 0 {
		conf.MaxBackoff = defaultMaxBackoff
	}
	return conf, nil
}
