package events

import (
	appconfig "github.com/Sokol111/warehouse-commons/pkg/core/config"
	"go.uber.org/fx"
)

// NewEventsModule provides the event registry, metadata populator and the
// stager handlers publish through. A Publisher implementation must be
// provided elsewhere (kafka producer or outbox).
func NewEventsModule() fx.Option {
	return fx.Provide(
		NewEventRegistry,
		func(appConf appconfig.AppConfig) MetadataPopulator {
			return NewMetadataPopulator(appConf.ServiceName)
		},
		NewStager,
	)
}
