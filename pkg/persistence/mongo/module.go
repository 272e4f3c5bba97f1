package mongo

import (
	"context"

	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/Sokol111/warehouse-commons/pkg/persistence/mongo/migrations"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// mongoOptions holds internal configuration for the mongo module.
type mongoOptions struct {
	conf *Config
}

// MongoOption is a functional option for configuring the mongo module.
type MongoOption func(*mongoOptions)

// WithMongoConfig provides a static Config (useful for tests).
// When set, the configuration will not be loaded from viper.
func WithMongoConfig(cfg Config) MongoOption {
	return func(o *mongoOptions) {
		o.conf = &cfg
	}
}

// NewMongoModule provides MongoDB components for dependency injection.
func NewMongoModule(opts ...MongoOption) fx.Option {
	o := &mongoOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configProvider := any(newConfig)
	if o.conf != nil {
		conf := applyDefaults(*o.conf)
		configProvider = func() (Config, error) { return conf, nil }
	}

	return fx.Provide(
		configProvider,
		provideMongo,
		fx.Annotate(newTxManager, fx.ParamTags("", "", "", `optional:"true"`)),
	)
}

// NewPersistenceModule bundles the tenant-partitioned Mongo layer with the
// migrations runner. The bundle lives here rather than in pkg/persistence so
// the error vocabulary and TxManager interface stay a leaf every store
// implementation can import.
func NewPersistenceModule(opts ...MongoOption) fx.Option {
	return fx.Options(
		NewMongoModule(opts...),
		fx.Provide(migrationTarget),
		// No-op unless the `mongo.migrations` config section enables it
		migrations.NewMigrationsModule(),
	)
}

// migrationTarget points the migrator at the shared base database. Tenant
// databases carry no schema history.
func migrationTarget(conf Config) migrations.Target {
	return migrations.Target{URI: conf.BuildURI(), Database: conf.Database}
}

func provideMongo(lc fx.Lifecycle, log *zap.Logger, conf Config, readiness health.ComponentManager) (Partitions, Admin, error) {
	p, err := newPartitions(log, conf)
	if err != nil {
		return nil, nil, err
	}

	markReady := readiness.AddComponent("mongo")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			defer markReady()
			return p.connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return p.disconnect(ctx)
		},
	})

	return p, p, nil
}
