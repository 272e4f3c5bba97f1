package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestNewCollectionWrapper(t *testing.T) {
	t.Run("creates wrapper with no options", func(t *testing.T) {
		mockColl := &mockCollection{}
		wrapper := newCollectionWrapper(mockColl)

		assert.NotNil(t, wrapper)
		assert.Equal(t, Collection(mockColl), wrapper.coll)
		assert.NotNil(t, wrapper.middleware)
	})

	t.Run("panics when collection is nil", func(t *testing.T) {
		assert.Panics(t, func() {
			newCollectionWrapper(nil)
		})
	})

	t.Run("creates wrapper with timeout option", func(t *testing.T) {
		wrapper := newCollectionWrapper(&mockCollection{}, WithTimeout(5*time.Second))

		assert.NotNil(t, wrapper)
		assert.NotNil(t, wrapper.middleware)
	})

	t.Run("creates wrapper with custom middleware", func(t *testing.T) {
		customMw := func(ctx context.Context, next func(context.Context)) {
			next(ctx)
		}
		wrapper := newCollectionWrapper(&mockCollection{}, WithMiddleware(customMw))

		assert.NotNil(t, wrapper)
		assert.NotNil(t, wrapper.middleware)
	})
}

func TestChainMiddleware(t *testing.T) {
	t.Run("chain with no middlewares calls next directly", func(t *testing.T) {
		called := false
		chained := chain()
		chained(context.Background(), func(ctx context.Context) {
			called = true
		})
		assert.True(t, called)
	})

	t.Run("chain with single middleware", func(t *testing.T) {
		order := []string{}
		mw := func(ctx context.Context, next func(context.Context)) {
			order = append(order, "mw-before")
			next(ctx)
			order = append(order, "mw-after")
		}

		chained := chain(mw)
		chained(context.Background(), func(ctx context.Context) {
			order = append(order, "handler")
		})

		assert.Equal(t, []string{"mw-before", "handler", "mw-after"}, order)
	})

	t.Run("chain with multiple middlewares executes in order", func(t *testing.T) {
		order := []string{}
		mw1 := func(ctx context.Context, next func(context.Context)) {
			order = append(order, "mw1-before")
			next(ctx)
			order = append(order, "mw1-after")
		}
		mw2 := func(ctx context.Context, next func(context.Context)) {
			order = append(order, "mw2-before")
			next(ctx)
			order = append(order, "mw2-after")
		}

		chained := chain(mw1, mw2)
		chained(context.Background(), func(ctx context.Context) {
			order = append(order, "handler")
		})

		assert.Equal(t, []string{"mw1-before", "mw2-before", "handler", "mw2-after", "mw1-after"}, order)
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("adds timeout to context", func(t *testing.T) {
		timeout := 100 * time.Millisecond
		mw := timeoutMiddleware(timeout)

		var capturedCtx context.Context
		mw(context.Background(), func(ctx context.Context) {
			capturedCtx = ctx
		})

		deadline, ok := capturedCtx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(timeout), deadline, 50*time.Millisecond)
	})
}

func TestCollectionWrapperDelegation(t *testing.T) {
	ctx := context.Background()

	t.Run("FindOne passes filter to underlying collection", func(t *testing.T) {
		var capturedFilter any
		mockColl := &mockCollection{
			findOneFunc: func(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
				capturedFilter = filter
				return &mongodriver.SingleResult{}
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		filter := map[string]any{"_id": "123"}
		result := wrapper.FindOne(ctx, filter)

		assert.NotNil(t, result)
		assert.Equal(t, filter, capturedFilter)
	})

	t.Run("Find returns error from underlying collection", func(t *testing.T) {
		expectedErr := errors.New("find error")
		mockColl := &mockCollection{
			findFunc: func(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongodriver.Cursor, error) {
				return nil, expectedErr
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		cursor, err := wrapper.Find(ctx, map[string]any{})

		assert.Nil(t, cursor)
		assert.Equal(t, expectedErr, err)
	})

	t.Run("InsertOne returns result from underlying collection", func(t *testing.T) {
		expectedResult := &mongodriver.InsertOneResult{InsertedID: "123"}
		mockColl := &mockCollection{
			insertOneFunc: func(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
				return expectedResult, nil
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		result, err := wrapper.InsertOne(ctx, map[string]any{"name": "test"})

		assert.NoError(t, err)
		assert.Equal(t, expectedResult, result)
	})

	t.Run("UpdateOne passes filter and update", func(t *testing.T) {
		var capturedFilter, capturedUpdate any
		mockColl := &mockCollection{
			updateOneFunc: func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongodriver.UpdateResult, error) {
				capturedFilter = filter
				capturedUpdate = update
				return &mongodriver.UpdateResult{ModifiedCount: 1}, nil
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		filter := map[string]any{"_id": "123"}
		update := map[string]any{"$set": map[string]any{"name": "updated"}}
		result, err := wrapper.UpdateOne(ctx, filter, update)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.ModifiedCount)
		assert.Equal(t, filter, capturedFilter)
		assert.Equal(t, update, capturedUpdate)
	})

	t.Run("CountDocuments returns count", func(t *testing.T) {
		mockColl := &mockCollection{
			countDocumentsFunc: func(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
				return 42, nil
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		count, err := wrapper.CountDocuments(ctx, map[string]any{})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
	})

	t.Run("BulkWrite passes models", func(t *testing.T) {
		var capturedModels []mongodriver.WriteModel
		mockColl := &mockCollection{
			bulkWriteFunc: func(ctx context.Context, models []mongodriver.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongodriver.BulkWriteResult, error) {
				capturedModels = models
				return &mongodriver.BulkWriteResult{InsertedCount: 1}, nil
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		models := []mongodriver.WriteModel{
			mongodriver.NewInsertOneModel().SetDocument(map[string]any{"name": "test"}),
		}
		result, err := wrapper.BulkWrite(ctx, models)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.InsertedCount)
		assert.Equal(t, models, capturedModels)
	})

	t.Run("Drop returns error from underlying collection", func(t *testing.T) {
		expectedErr := errors.New("drop error")
		mockColl := &mockCollection{
			dropFunc: func(ctx context.Context, opts ...options.Lister[options.DropCollectionOptions]) error {
				return expectedErr
			},
		}
		wrapper := newCollectionWrapper(mockColl)

		assert.Equal(t, expectedErr, wrapper.Drop(ctx))
	})

	t.Run("Name returns collection name", func(t *testing.T) {
		mockColl := &mockCollection{
			nameFunc: func() string { return "stock_items" },
		}
		wrapper := newCollectionWrapper(mockColl)

		assert.Equal(t, "stock_items", wrapper.Name())
	})
}

func TestMiddlewareIntegration(t *testing.T) {
	t.Run("middleware is called for each operation", func(t *testing.T) {
		mockColl := &mockCollection{}
		callCount := 0
		trackingMw := func(ctx context.Context, next func(context.Context)) {
			callCount++
			next(ctx)
		}

		wrapper := newCollectionWrapper(mockColl, WithMiddleware(trackingMw))

		ctx := context.Background()
		filter := map[string]any{"_id": "123"}

		wrapper.FindOne(ctx, filter)
		_, _ = wrapper.DeleteOne(ctx, filter)

		assert.Equal(t, 2, callCount)
	})

	t.Run("context is modified by middleware", func(t *testing.T) {
		type contextKey string
		key := contextKey("test-key")

		var capturedCtx context.Context
		mockColl := &mockCollection{
			findOneFunc: func(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
				capturedCtx = ctx
				return &mongodriver.SingleResult{}
			},
		}

		contextMw := func(ctx context.Context, next func(context.Context)) {
			next(context.WithValue(ctx, key, "test-value"))
		}

		wrapper := newCollectionWrapper(mockColl, WithMiddleware(contextMw))
		wrapper.FindOne(context.Background(), map[string]any{})

		assert.Equal(t, "test-value", capturedCtx.Value(key))
	})

	t.Run("multiple middlewares are chained correctly", func(t *testing.T) {
		order := []string{}
		mockColl := &mockCollection{
			findOneFunc: func(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
				order = append(order, "operation")
				return &mongodriver.SingleResult{}
			},
		}

		mw1 := func(ctx context.Context, next func(context.Context)) {
			order = append(order, "mw1-before")
			next(ctx)
			order = append(order, "mw1-after")
		}
		mw2 := func(ctx context.Context, next func(context.Context)) {
			order = append(order, "mw2-before")
			next(ctx)
			order = append(order, "mw2-after")
		}

		wrapper := newCollectionWrapper(mockColl, WithMiddleware(mw1), WithMiddleware(mw2))
		wrapper.FindOne(context.Background(), map[string]any{})

		assert.Equal(t, []string{"mw1-before", "mw2-before", "operation", "mw2-after", "mw1-after"}, order)
	})
}

func TestWithTimeoutOption(t *testing.T) {
	t.Run("applies timeout to operations", func(t *testing.T) {
		timeout := 5 * time.Second

		var capturedCtx context.Context
		mockColl := &mockCollection{
			findOneFunc: func(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
				capturedCtx = ctx
				return &mongodriver.SingleResult{}
			},
		}

		wrapper := newCollectionWrapper(mockColl, WithTimeout(timeout))
		wrapper.FindOne(context.Background(), map[string]any{})

		deadline, ok := capturedCtx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(timeout), deadline, 100*time.Millisecond)
	})
}
