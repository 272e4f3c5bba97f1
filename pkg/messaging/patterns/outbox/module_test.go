package outbox

import (
	"context"
	"testing"

	"github.com/Sokol111/warehouse-commons/pkg/core/health"
	"github.com/Sokol111/warehouse-commons/pkg/core/worker"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/kafka/producer"
	"github.com/Sokol111/warehouse-commons/pkg/persistence/mongo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type fakePartitions struct{}

func (fakePartitions) Database(ctx context.Context) (*mongodriver.Database, error) { return nil, nil }

func (fakePartitions) Collection(ctx context.Context, name string, opts ...mongo.WrapperOption) (mongo.Collection, error) {
	return &fakeCollection{}, nil
}

func (fakePartitions) BaseDatabase() *mongodriver.Database { return nil }

func (fakePartitions) BaseCollection(name string, opts ...mongo.WrapperOption) mongo.Collection {
	return &fakeCollection{}
}

type fakeWaiter struct{}

func (fakeWaiter) WaitReady(ctx context.Context) error        { return nil }
func (fakeWaiter) WaitTrafficReady(ctx context.Context) error { return nil }

type directPublisher struct{}

func (directPublisher) Publish(ctx context.Context, event events.Event) error { return nil }

// moduleDeps is everything the surrounding application normally provides.
func moduleDeps(withPartitions bool) fx.Option {
	provides := []any{
		zap.NewNop,
		viper.New,
		func() trace.TracerProvider { return noop.NewTracerProvider() },
		func() events.MetadataPopulator { return &mockPopulator{} },
		func() events.Publisher { return directPublisher{} },
		func() producer.Producer { return &mockProducer{} },
		func() health.ReadinessWaiter { return fakeWaiter{} },
	}
	if withPartitions {
		provides = append(provides, func() mongo.Partitions { return fakePartitions{} })
	}
	return fx.Provide(provides...)
}

func TestNewOutboxModule(t *testing.T) {
	t.Run("resolves the full outbox graph", func(t *testing.T) {
		err := fx.ValidateApp(
			fx.NopLogger,
			moduleDeps(true),
			NewOutboxModule(),
			worker.NewWorkerModule(),
			fx.Invoke(func(events.Publisher, Outbox) {}),
		)
		assert.NoError(t, err)
	})

	t.Run("fails without a persistence layer", func(t *testing.T) {
		err := fx.ValidateApp(
			fx.NopLogger,
			moduleDeps(false),
			NewOutboxModule(),
			worker.NewWorkerModule(),
			fx.Invoke(func(events.Publisher, Outbox) {}),
		)
		assert.Error(t, err)
	})
}
