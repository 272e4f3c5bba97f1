package migrations

import (
	"context"
	"fmt"

	mongov1 "go.mongodb.org/mongo-driver/mongo"
	optionsv1 "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Target names the database the migrator runs against. The persistence
// bundle derives it from the mongo config so schema history always lives in
// the shared base database.
type Target struct {
	URI      string
	Database string
}

func NewMigrationsModule() fx.Option {
	return fx.Options(
		fx.Provide(
			newConfig,
			provideMigrator,
		),
		fx.Invoke(func(m Migrator) {}),
	)
}

func provideMigrator(lc fx.Lifecycle, log *zap.Logger, conf Config, target Target) (Migrator, error) {
	// golang-migrate's mongodb driver is built on mongo-driver v1, so the
	// migrator keeps its own client instead of sharing the v2 one.
	client, err := mongov1.Connect(context.Background(), optionsv1.Client().ApplyURI(target.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration client: %w", err)
	}

	migrator, err := newMigrator(client.Database(target.Database), log, conf.LockingTimeout)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !conf.Enabled || !conf.AutoMigrate {
				return nil
			}

			log.Info("auto-running migrations on startup",
				zap.String("collection", conf.CollectionName),
				zap.String("path", conf.MigrationsPath),
				zap.Duration("locking-timeout", conf.GetLockingTimeoutDuration()))

			if err := migrator.Up(conf.CollectionName, conf.MigrationsPath); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	switch {
	case !conf.Enabled:
		log.Info("migrations disabled")
	case conf.AutoMigrate:
		log.Info("migrations auto-run is enabled, migrator also available in DI",
			zap.Duration("locking-timeout", conf.GetLockingTimeoutDuration()))
	default:
		log.Info("migrations auto-run is disabled, migrator available for manual use")
	}

	return migrator, nil
}
