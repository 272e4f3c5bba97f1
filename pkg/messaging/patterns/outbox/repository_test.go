package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sokol111/warehouse-commons/pkg/persistence/mongo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// fakeCollection overrides just the collection methods the repository uses.
// Calling anything else hits the nil embedded interface and fails the test
// loudly.
type fakeCollection struct {
	mongo.Collection

	findOneAndUpdateFunc func(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult
	insertOneFunc        func(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error)
	updateManyFunc       func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error)
}

func (f *fakeCollection) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
	return f.findOneAndUpdateFunc(ctx, filter, update, opts...)
}

func (f *fakeCollection) InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
	return f.insertOneFunc(ctx, document, opts...)
}

func (f *fakeCollection) UpdateMany(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error) {
	return f.updateManyFunc(ctx, filter, update, opts...)
}

func newTestRepository(coll mongo.Collection) *mongoRepository {
	return &mongoRepository{
		coll:             coll,
		maxBackoffMillis: defaultMaxBackoff.Milliseconds(),
	}
}

func singleResult(t *testing.T, doc any, err error) *mongodriver.SingleResult {
	t.Helper()
	return mongodriver.NewSingleResultFromDocument(doc, err, nil)
}

func TestRepositoryFetchAndLock(t *testing.T) {
	t.Run("claims the oldest due document", func(t *testing.T) {
		var (
			gotFilter any
			gotUpdate any
			gotOpts   []options.Lister[options.FindOneAndUpdateOptions]
		)
		coll := &fakeCollection{
			findOneAndUpdateFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
				gotFilter = filter
				gotUpdate = update
				gotOpts = opts
				return singleResult(t, outboxEntity{
					ID:             "evt-1",
					Topic:          "stock-item-events",
					Status:         StatusProcessing,
					AttemptsToSend: 1,
				}, nil)
			},
		}

		entity, err := newTestRepository(coll).FetchAndLock(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "evt-1", entity.ID)
		assert.Equal(t, int32(1), entity.AttemptsToSend)

		filter, ok := gotFilter.(bson.M)
		require.True(t, ok)
		assert.Equal(t, StatusProcessing, filter["status"])
		now := time.Now()
		dueBefore, ok := filter["nextAttemptAfter"].(bson.M)["$lt"].(time.Time)
		require.True(t, ok)
		assert.WithinDuration(t, now, dueBefore, time.Second)
		lockBefore, ok := filter["lockExpiresAt"].(bson.M)["$lt"].(time.Time)
		require.True(t, ok)
		assert.WithinDuration(t, now, lockBefore, time.Second)

		pipeline, ok := gotUpdate.(mongodriver.Pipeline)
		require.True(t, ok)
		require.Len(t, pipeline, 1)
		require.Equal(t, "$set", pipeline[0][0].Key)
		set, ok := pipeline[0][0].Value.(bson.M)
		require.True(t, ok)

		lockUntil, ok := set["lockExpiresAt"].(time.Time)
		require.True(t, ok)
		assert.WithinDuration(t, now.Add(fetchLockDuration), lockUntil, time.Second)
		assert.Contains(t, set, "attemptsToSend")
		assert.Contains(t, set, "nextAttemptAfter")

		backoff := set["nextAttemptAfter"].(bson.M)["$add"].(bson.A)
		capped := backoff[1].(bson.M)["$min"].(bson.A)
		assert.Equal(t, defaultMaxBackoff.Milliseconds(), capped[1])

		foundOpts := &options.FindOneAndUpdateOptions{}
		for _, lister := range gotOpts {
			for _, setter := range lister.List() {
				require.NoError(t, setter(foundOpts))
			}
		}
		require.NotNil(t, foundOpts.ReturnDocument)
		assert.Equal(t, options.After, *foundOpts.ReturnDocument)
		assert.Equal(t,
			bson.D{{Key: "nextAttemptAfter", Value: 1}, {Key: "createdAt", Value: 1}},
			foundOpts.Sort)
	})

	t.Run("reports empty queue", func(t *testing.T) {
		coll := &fakeCollection{
			findOneAndUpdateFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
				return singleResult(t, bson.D{}, mongodriver.ErrNoDocuments)
			},
		}

		_, err := newTestRepository(coll).FetchAndLock(context.Background())
		assert.ErrorIs(t, err, errEntityNotFound)
	})

	t.Run("wraps driver errors", func(t *testing.T) {
		coll := &fakeCollection{
			findOneAndUpdateFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
				return singleResult(t, bson.D{}, errors.New("connection reset"))
			},
		}

		_, err := newTestRepository(coll).FetchAndLock(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to fetch outbox entity")
	})
}

func TestRepositoryCreate(t *testing.T) {
	t.Run("inserts a pending document", func(t *testing.T) {
		var inserted any
		coll := &fakeCollection{
			insertOneFunc: func(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
				inserted = document
				return &mongodriver.InsertOneResult{InsertedID: "evt-1"}, nil
			},
		}

		headers := map[string]string{"event-type": "StockLevelChanged"}
		entity, err := newTestRepository(coll).Create(context.Background(),
			[]byte(`{"event_id":"evt-1"}`), "evt-1", "item-1", "stock-item-events", headers)
		require.NoError(t, err)

		stored, ok := inserted.(*outboxEntity)
		require.True(t, ok)
		assert.Same(t, entity, stored)

		assert.Equal(t, "evt-1", stored.ID)
		assert.Equal(t, "item-1", stored.Key)
		assert.Equal(t, "stock-item-events", stored.Topic)
		assert.Equal(t, headers, stored.Headers)
		assert.Equal(t, StatusProcessing, stored.Status)
		assert.WithinDuration(t, time.Now(), stored.CreatedAt, time.Second)
		assert.Equal(t, stored.LockExpiresAt, stored.NextAttemptAfter)
		assert.WithinDuration(t, time.Now().Add(createGracePeriod), stored.LockExpiresAt, time.Second)
	})

	t.Run("wraps insert errors", func(t *testing.T) {
		coll := &fakeCollection{
			insertOneFunc: func(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
				return nil, errors.New("server selection timeout")
			},
		}

		_, err := newTestRepository(coll).Create(context.Background(), nil, "evt-1", "", "stock-item-events", nil)
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to insert outbox entity")
	})
}

func TestRepositoryUpdateAsSentByIds(t *testing.T) {
	t.Run("marks documents as sent", func(t *testing.T) {
		var (
			gotFilter any
			gotUpdate any
		)
		coll := &fakeCollection{
			updateManyFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error) {
				gotFilter = filter
				gotUpdate = update
				return &mongodriver.UpdateResult{MatchedCount: 2, ModifiedCount: 2}, nil
			},
		}

		err := newTestRepository(coll).UpdateAsSentByIds(context.Background(), []string{"evt-1", "evt-2"})
		require.NoError(t, err)

		filter, ok := gotFilter.(bson.M)
		require.True(t, ok)
		assert.Equal(t, bson.M{"$in": []string{"evt-1", "evt-2"}}, filter["_id"])

		update, ok := gotUpdate.(bson.M)
		require.True(t, ok)
		set := update["$set"].(bson.M)
		assert.Equal(t, StatusSent, set["status"])
		assert.Contains(t, set, "sentAt")
		assert.Equal(t, bson.M{"lockExpiresAt": "", "nextAttemptAfter": ""}, update["$unset"])
		assert.Equal(t, bson.M{"confirmations": 1}, update["$inc"])
	})

	t.Run("skips empty batches", func(t *testing.T) {
		coll := &fakeCollection{
			updateManyFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error) {
				t.Fatal("unexpected update for empty batch")
				return nil, nil
			},
		}

		require.NoError(t, newTestRepository(coll).UpdateAsSentByIds(context.Background(), nil))
	})

	t.Run("wraps update errors", func(t *testing.T) {
		coll := &fakeCollection{
			updateManyFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error) {
				return nil, errors.New("connection reset")
			},
		}

		err := newTestRepository(coll).UpdateAsSentByIds(context.Background(), []string{"evt-1"})
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to update outbox messages")
	})
}
