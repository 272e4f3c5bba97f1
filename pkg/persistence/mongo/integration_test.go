package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	"github.com/Sokol111/warehouse-commons/pkg/messaging/events"
	"github.com/Sokol111/warehouse-commons/pkg/testutil/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// startMongo provides a replica-set MongoDB for transaction tests.
func startMongo(t *testing.T) *container.MongoDBContainer {
	t.Helper()

	mc, err := container.StartMongoDBContainer(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mc.Terminate(context.Background())
	})
	return mc
}

func newIntegrationTxManager(client *mongodriver.Client, pub events.Publisher) *txManager {
	return &txManager{
		runTx:     driverTxRunner(client),
		bulkhead:  NewBulkhead(10, time.Second, zap.NewNop()),
		publisher: pub,
		log:       zap.NewNop(),
	}
}

func TestTxManagerAgainstMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	mc := startMongo(t)
	coll := mc.Database("warehouse_acme").Collection("stock_items")
	ctx := tenant.WithTenant(context.Background(), "acme")

	t.Run("commit persists the write and drains staged events", func(t *testing.T) {
		pub := &mockPublisher{}
		txm := newIntegrationTxManager(mc.Client, pub)

		_, err := txm.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
			if _, insertErr := coll.InsertOne(txCtx, bson.M{"_id": "si-1", "qty": 5}); insertErr != nil {
				return nil, insertErr
			}
			staging, ok := events.StagingFromContext(txCtx)
			require.True(t, ok)
			staging.Stage(newStagedEvent("evt-1"))
			staging.Stage(newStagedEvent("evt-2"))
			return nil, nil
		})
		require.NoError(t, err)

		count, err := coll.CountDocuments(ctx, bson.M{"_id": "si-1"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
		assert.Equal(t, []string{"evt-1", "evt-2"}, pub.published)
	})

	t.Run("rollback discards the write and the staged events", func(t *testing.T) {
		pub := &mockPublisher{}
		txm := newIntegrationTxManager(mc.Client, pub)
		boom := errors.New("no location available")

		_, err := txm.WithTransaction(ctx, func(txCtx context.Context) (any, error) {
			if _, insertErr := coll.InsertOne(txCtx, bson.M{"_id": "si-2", "qty": 9}); insertErr != nil {
				return nil, insertErr
			}
			staging, ok := events.StagingFromContext(txCtx)
			require.True(t, ok)
			staging.Stage(newStagedEvent("evt-3"))
			return nil, boom
		})
		require.ErrorIs(t, err, boom)

		count, err := coll.CountDocuments(ctx, bson.M{"_id": "si-2"})
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Empty(t, pub.published)
	})
}

func TestPartitionsAgainstMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	mc := startMongo(t)
	p := &partitions{
		client: mc.Client,
		baseDB: mc.Client.Database("warehouse"),
		conf: Config{
			Database:             "warehouse",
			TenantDatabasePrefix: "warehouse",
			QueryTimeout:         5 * time.Second,
		},
		log: zap.NewNop(),
	}

	t.Run("writes land in the tenant database", func(t *testing.T) {
		ctx := tenant.WithTenant(context.Background(), "acme")

		db, err := p.Database(ctx)
		require.NoError(t, err)
		assert.Equal(t, "warehouse_acme", db.Name())

		coll, err := p.Collection(ctx, "return_orders")
		require.NoError(t, err)
		_, err = coll.InsertOne(ctx, bson.M{"_id": "R-100", "status": "PROCESSED"})
		require.NoError(t, err)

		count, err := mc.Database("warehouse_acme").Collection("return_orders").
			CountDocuments(ctx, bson.M{"_id": "R-100"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("no tenant in context refuses the partition", func(t *testing.T) {
		_, err := p.Database(context.Background())
		require.ErrorIs(t, err, tenant.ErrNoTenant)
	})
}
