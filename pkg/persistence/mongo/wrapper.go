package mongo

import (
	"context"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Middleware wraps a collection operation. It must call next exactly once,
// optionally with a derived context.
type Middleware func(ctx context.Context, next func(context.Context))

// chain composes middlewares so the first one is the outermost.
func chain(mws ...Middleware) Middleware {
	return func(ctx context.Context, next func(context.Context)) {
		run := next
		for i := len(mws) - 1; i >= 0; i-- {
			mw := mws[i]
			inner := run
			run = func(ctx context.Context) {
				mw(ctx, inner)
			}
		}
		run(ctx)
	}
}

func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(ctx context.Context, next func(context.Context)) {
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		next(timeoutCtx)
	}
}

type wrapperOptions struct {
	middlewares []Middleware
}

// WrapperOption configures a collection wrapper.
type WrapperOption func(*wrapperOptions)

// WithTimeout applies a per-operation timeout to every collection call.
func WithTimeout(timeout time.Duration) WrapperOption {
	return func(o *wrapperOptions) {
		o.middlewares = append(o.middlewares, timeoutMiddleware(timeout))
	}
}

// WithMiddleware appends a custom middleware, executed in registration order.
func WithMiddleware(mw Middleware) WrapperOption {
	return func(o *wrapperOptions) {
		o.middlewares = append(o.middlewares, mw)
	}
}

// collectionWrapper funnels every operation through the middleware chain.
type collectionWrapper struct {
	coll       Collection
	middleware Middleware
}

func newCollectionWrapper(coll Collection, opts ...WrapperOption) *collectionWrapper {
	if coll == nil {
		panic("collection must not be nil")
	}
	o := &wrapperOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &collectionWrapper{
		coll:       coll,
		middleware: chain(o.middlewares...),
	}
}

func (w *collectionWrapper) FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
	var result *mongodriver.SingleResult
	w.middleware(ctx, func(ctx context.Context) {
		result = w.coll.FindOne(ctx, filter, opts...)
	})
	return result
}

func (w *collectionWrapper) Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongodriver.Cursor, error) {
	var (
		cursor *mongodriver.Cursor
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		cursor, err = w.coll.Find(ctx, filter, opts...)
	})
	return cursor, err
}

func (w *collectionWrapper) InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
	var (
		result *mongodriver.InsertOneResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.InsertOne(ctx, document, opts...)
	})
	return result, err
}

func (w *collectionWrapper) InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongodriver.InsertManyResult, error) {
	var (
		result *mongodriver.InsertManyResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.InsertMany(ctx, documents, opts...)
	})
	return result, err
}

func (w *collectionWrapper) UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongodriver.UpdateResult, error) {
	var (
		result *mongodriver.UpdateResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.UpdateOne(ctx, filter, update, opts...)
	})
	return result, err
}

func (w *collectionWrapper) UpdateMany(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error) {
	var (
		result *mongodriver.UpdateResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.UpdateMany(ctx, filter, update, opts...)
	})
	return result, err
}

func (w *collectionWrapper) DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongodriver.DeleteResult, error) {
	var (
		result *mongodriver.DeleteResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.DeleteOne(ctx, filter, opts...)
	})
	return result, err
}

func (w *collectionWrapper) DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongodriver.DeleteResult, error) {
	var (
		result *mongodriver.DeleteResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.DeleteMany(ctx, filter, opts...)
	})
	return result, err
}

func (w *collectionWrapper) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
	var result *mongodriver.SingleResult
	w.middleware(ctx, func(ctx context.Context) {
		result = w.coll.FindOneAndUpdate(ctx, filter, update, opts...)
	})
	return result
}

func (w *collectionWrapper) FindOneAndReplace(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.FindOneAndReplaceOptions]) *mongodriver.SingleResult {
	var result *mongodriver.SingleResult
	w.middleware(ctx, func(ctx context.Context) {
		result = w.coll.FindOneAndReplace(ctx, filter, replacement, opts...)
	})
	return result
}

func (w *collectionWrapper) FindOneAndDelete(ctx context.Context, filter any, opts ...options.Lister[options.FindOneAndDeleteOptions]) *mongodriver.SingleResult {
	var result *mongodriver.SingleResult
	w.middleware(ctx, func(ctx context.Context) {
		result = w.coll.FindOneAndDelete(ctx, filter, opts...)
	})
	return result
}

func (w *collectionWrapper) Aggregate(ctx context.Context, pipeline any, opts ...options.Lister[options.AggregateOptions]) (*mongodriver.Cursor, error) {
	var (
		cursor *mongodriver.Cursor
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		cursor, err = w.coll.Aggregate(ctx, pipeline, opts...)
	})
	return cursor, err
}

func (w *collectionWrapper) CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
	var (
		count int64
		err   error
	)
	w.middleware(ctx, func(ctx context.Context) {
		count, err = w.coll.CountDocuments(ctx, filter, opts...)
	})
	return count, err
}

func (w *collectionWrapper) Distinct(ctx context.Context, fieldName string, filter any, opts ...options.Lister[options.DistinctOptions]) *mongodriver.DistinctResult {
	var result *mongodriver.DistinctResult
	w.middleware(ctx, func(ctx context.Context) {
		result = w.coll.Distinct(ctx, fieldName, filter, opts...)
	})
	return result
}

func (w *collectionWrapper) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error) {
	var (
		result *mongodriver.UpdateResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.ReplaceOne(ctx, filter, replacement, opts...)
	})
	return result, err
}

func (w *collectionWrapper) BulkWrite(ctx context.Context, models []mongodriver.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongodriver.BulkWriteResult, error) {
	var (
		result *mongodriver.BulkWriteResult
		err    error
	)
	w.middleware(ctx, func(ctx context.Context) {
		result, err = w.coll.BulkWrite(ctx, models, opts...)
	})
	return result, err
}

// Indexes returns the index view without middleware since it does not hit the server.
func (w *collectionWrapper) Indexes() mongodriver.IndexView {
	return w.coll.Indexes()
}

func (w *collectionWrapper) Drop(ctx context.Context, opts ...options.Lister[options.DropCollectionOptions]) error {
	var err error
	w.middleware(ctx, func(ctx context.Context) {
		err = w.coll.Drop(ctx, opts...)
	})
	return err
}

func (w *collectionWrapper) Name() string {
	return w.coll.Name()
}

func (w *collectionWrapper) Database() *mongodriver.Database {
	return w.coll.Database()
}
