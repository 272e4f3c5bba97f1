package mongo

import (
	"context"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mockCollection implements Collection with overridable functions. Methods
// without an override return zero values.
type mockCollection struct {
	findOneFunc           func(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult
	findFunc              func(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongodriver.Cursor, error)
	insertOneFunc         func(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error)
	insertManyFunc        func(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongodriver.InsertManyResult, error)
	updateOneFunc         func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongodriver.UpdateResult, error)
	updateManyFunc        func(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error)
	deleteOneFunc         func(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongodriver.DeleteResult, error)
	deleteManyFunc        func(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongodriver.DeleteResult, error)
	findOneAndUpdateFunc  func(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult
	findOneAndReplaceFunc func(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.FindOneAndReplaceOptions]) *mongodriver.SingleResult
	findOneAndDeleteFunc  func(ctx context.Context, filter any, opts ...options.Lister[options.FindOneAndDeleteOptions]) *mongodriver.SingleResult
	aggregateFunc         func(ctx context.Context, pipeline any, opts ...options.Lister[options.AggregateOptions]) (*mongodriver.Cursor, error)
	countDocumentsFunc    func(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
	distinctFunc          func(ctx context.Context, fieldName string, filter any, opts ...options.Lister[options.DistinctOptions]) *mongodriver.DistinctResult
	replaceOneFunc        func(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error)
	bulkWriteFunc         func(ctx context.Context, models []mongodriver.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongodriver.BulkWriteResult, error)
	indexesFunc           func() mongodriver.IndexView
	dropFunc              func(ctx context.Context, opts ...options.Lister[options.DropCollectionOptions]) error
	nameFunc              func() string
	databaseFunc          func() *mongodriver.Database
}

func (m *mockCollection) FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongodriver.SingleResult {
	if m.findOneFunc != nil {
		return m.findOneFunc(ctx, filter, opts...)
	}
	return &mongodriver.SingleResult{}
}

func (m *mockCollection) Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongodriver.Cursor, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, opts...)
	}
	return nil, nil
}

func (m *mockCollection) InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongodriver.InsertOneResult, error) {
	if m.insertOneFunc != nil {
		return m.insertOneFunc(ctx, document, opts...)
	}
	return nil, nil
}

func (m *mockCollection) InsertMany(ctx context.Context, documents any, opts ...options.Lister[options.InsertManyOptions]) (*mongodriver.InsertManyResult, error) {
	if m.insertManyFunc != nil {
		return m.insertManyFunc(ctx, documents, opts...)
	}
	return nil, nil
}

func (m *mockCollection) UpdateOne(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongodriver.UpdateResult, error) {
	if m.updateOneFunc != nil {
		return m.updateOneFunc(ctx, filter, update, opts...)
	}
	return nil, nil
}

func (m *mockCollection) UpdateMany(ctx context.Context, filter any, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongodriver.UpdateResult, error) {
	if m.updateManyFunc != nil {
		return m.updateManyFunc(ctx, filter, update, opts...)
	}
	return nil, nil
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongodriver.DeleteResult, error) {
	if m.deleteOneFunc != nil {
		return m.deleteOneFunc(ctx, filter, opts...)
	}
	return nil, nil
}

func (m *mockCollection) DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongodriver.DeleteResult, error) {
	if m.deleteManyFunc != nil {
		return m.deleteManyFunc(ctx, filter, opts...)
	}
	return nil, nil
}

func (m *mockCollection) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...options.Lister[options.FindOneAndUpdateOptions]) *mongodriver.SingleResult {
	if m.findOneAndUpdateFunc != nil {
		return m.findOneAndUpdateFunc(ctx, filter, update, opts...)
	}
	return &mongodriver.SingleResult{}
}

func (m *mockCollection) FindOneAndReplace(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.FindOneAndReplaceOptions]) *mongodriver.SingleResult {
	if m.findOneAndReplaceFunc != nil {
		return m.findOneAndReplaceFunc(ctx, filter, replacement, opts...)
	}
	return &mongodriver.SingleResult{}
}

func (m *mockCollection) FindOneAndDelete(ctx context.Context, filter any, opts ...options.Lister[options.FindOneAndDeleteOptions]) *mongodriver.SingleResult {
	if m.findOneAndDeleteFunc != nil {
		return m.findOneAndDeleteFunc(ctx, filter, opts...)
	}
	return &mongodriver.SingleResult{}
}

func (m *mockCollection) Aggregate(ctx context.Context, pipeline any, opts ...options.Lister[options.AggregateOptions]) (*mongodriver.Cursor, error) {
	if m.aggregateFunc != nil {
		return m.aggregateFunc(ctx, pipeline, opts...)
	}
	return nil, nil
}

func (m *mockCollection) CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
	if m.countDocumentsFunc != nil {
		return m.countDocumentsFunc(ctx, filter, opts...)
	}
	return 0, nil
}

func (m *mockCollection) Distinct(ctx context.Context, fieldName string, filter any, opts ...options.Lister[options.DistinctOptions]) *mongodriver.DistinctResult {
	if m.distinctFunc != nil {
		return m.distinctFunc(ctx, fieldName, filter, opts...)
	}
	return &mongodriver.DistinctResult{}
}

func (m *mockCollection) ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error) {
	if m.replaceOneFunc != nil {
		return m.replaceOneFunc(ctx, filter, replacement, opts...)
	}
	return nil, nil
}

func (m *mockCollection) BulkWrite(ctx context.Context, models []mongodriver.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongodriver.BulkWriteResult, error) {
	if m.bulkWriteFunc != nil {
		return m.bulkWriteFunc(ctx, models, opts...)
	}
	return nil, nil
}

func (m *mockCollection) Indexes() mongodriver.IndexView {
	if m.indexesFunc != nil {
		return m.indexesFunc()
	}
	return mongodriver.IndexView{}
}

func (m *mockCollection) Drop(ctx context.Context, opts ...options.Lister[options.DropCollectionOptions]) error {
	if m.dropFunc != nil {
		return m.dropFunc(ctx, opts...)
	}
	return nil
}

func (m *mockCollection) Name() string {
	if m.nameFunc != nil {
		return m.nameFunc()
	}
	return "mock"
}

func (m *mockCollection) Database() *mongodriver.Database {
	if m.databaseFunc != nil {
		return m.databaseFunc()
	}
	return nil
}

var _ Collection = (*mockCollection)(nil)
