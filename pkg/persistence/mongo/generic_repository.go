package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	"github.com/Sokol111/warehouse-commons/pkg/persistence"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// QueryOptions defines options for querying entities with filtering, pagination and sorting.
type QueryOptions struct {
	// Filter is the MongoDB filter criteria (BSON)
	Filter bson.D
	// Page is the page number (1-based)
	Page int
	// Size is the number of items per page
	Size int
	// Sort is the MongoDB sort criteria (BSON)
	// Example: bson.D{{"createdAt", -1}} for descending order
	Sort bson.D
}

// PageResult represents a paginated result.
type PageResult[Domain any] struct {
	// Items is the list of domain objects for the current page
	Items []*Domain
	// Total is the total number of items matching the filter
	Total int64
	// Page is the current page number (1-based)
	Page int
	// Size is the number of items per page
	Size int
	// TotalPages is the total number of pages
	TotalPages int
}

// EntityMapper defines the contract for converting between domain models and
// MongoDB entities. Each repository implementation must provide this mapper.
type EntityMapper[Domain any, Entity any] interface {
	// ToEntity converts domain model to MongoDB entity
	ToEntity(domain *Domain) *Entity

	// ToDomain converts MongoDB entity to domain model
	ToDomain(entity *Entity) *Domain

	// GetID extracts ID from entity (for queries)
	GetID(entity *Entity) string

	// GetTenantID extracts the owning tenant id from entity
	GetTenantID(entity *Entity) string

	// GetVersion extracts version from entity (for optimistic locking)
	GetVersion(entity *Entity) int

	// SetVersion sets version on entity (for optimistic locking)
	SetVersion(entity *Entity, version int)
}

// GenericRepository provides common CRUD operations on the calling tenant's
// partition. Every operation resolves the collection through Partitions, so
// the same repository value serves all tenants.
type GenericRepository[Domain any, Entity any] struct {
	partitions Partitions
	collection string
	mapper     EntityMapper[Domain, Entity]
}

// NewGenericRepository creates a new generic repository bound to a collection name.
func NewGenericRepository[Domain any, Entity any](
	partitions Partitions,
	collection string,
	mapper EntityMapper[Domain, Entity],
) (*GenericRepository[Domain, Entity], error) {
	if partitions == nil {
		return nil, fmt.Errorf("partitions is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if mapper == nil {
		return nil, fmt.Errorf("mapper is required")
	}
	return &GenericRepository[Domain, Entity]{
		partitions: partitions,
		collection: collection,
		mapper:     mapper,
	}, nil
}

func (r *GenericRepository[Domain, Entity]) coll(ctx context.Context) (Collection, error) {
	coll, err := r.partitions.Collection(ctx, r.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve collection %s: %w", r.collection, err)
	}
	return coll, nil
}

// Insert creates a new entity in the tenant's partition. A duplicate id maps
// to persistence.ErrAlreadyExists so replayed creation events can be
// acknowledged as already applied.
func (r *GenericRepository[Domain, Entity]) Insert(ctx context.Context, domain *Domain) error {
	entity := r.mapper.ToEntity(domain)
	if err := tenant.VerifyOwnership(ctx, r.mapper.GetTenantID(entity)); err != nil {
		return err
	}

	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}

	if _, err := coll.InsertOne(ctx, entity); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return persistence.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert entity: %w", err)
	}

	return nil
}

// FindByID retrieves an entity by ID.
func (r *GenericRepository[Domain, Entity]) FindByID(ctx context.Context, id string) (*Domain, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	result := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}})

	var entity Entity
	if err := result.Decode(&entity); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, persistence.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}

	if err := tenant.VerifyOwnership(ctx, r.mapper.GetTenantID(&entity)); err != nil {
		return nil, err
	}

	return r.mapper.ToDomain(&entity), nil
}

// FindAll retrieves all entities in the tenant's partition.
func (r *GenericRepository[Domain, Entity]) FindAll(ctx context.Context) ([]*Domain, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var entities []Entity
	if err = cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}

	domains := make([]*Domain, 0, len(entities))
	for i := range entities {
		domains = append(domains, r.mapper.ToDomain(&entities[i]))
	}

	return domains, nil
}

// FindWithOptions retrieves entities with filtering, pagination and sorting.
func (r *GenericRepository[Domain, Entity]) FindWithOptions(
	ctx context.Context,
	opts QueryOptions,
) (*PageResult[Domain], error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Size < 1 {
		opts.Size = 10
	}
	if opts.Filter == nil {
		opts.Filter = bson.D{}
	}

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	total, err := coll.CountDocuments(ctx, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}

	skip := int64((opts.Page - 1) * opts.Size)
	limit := int64(opts.Size)

	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(limit)

	if opts.Sort != nil {
		findOpts.SetSort(opts.Sort)
	}

	cursor, err := coll.Find(ctx, opts.Filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var entities []Entity
	if err = cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}

	domains := make([]*Domain, 0, len(entities))
	for i := range entities {
		domains = append(domains, r.mapper.ToDomain(&entities[i]))
	}

	totalPages := int(total) / opts.Size
	if int(total)%opts.Size != 0 {
		totalPages++
	}

	return &PageResult[Domain]{
		Items:      domains,
		Total:      total,
		Page:       opts.Page,
		Size:       opts.Size,
		TotalPages: totalPages,
	}, nil
}

// Update updates an existing entity with optimistic locking and returns the updated domain object.
func (r *GenericRepository[Domain, Entity]) Update(ctx context.Context, domain *Domain) (*Domain, error) {
	entity := r.mapper.ToEntity(domain)
	if err := tenant.VerifyOwnership(ctx, r.mapper.GetTenantID(entity)); err != nil {
		return nil, err
	}

	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	currentVersion := r.mapper.GetVersion(entity)
	r.mapper.SetVersion(entity, currentVersion+1)

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	result := coll.FindOneAndReplace(
		ctx,
		bson.D{
			{Key: "_id", Value: r.mapper.GetID(entity)},
			{Key: "version", Value: currentVersion},
		},
		entity,
		opts,
	)

	if result.Err() != nil {
		if errors.Is(result.Err(), mongodriver.ErrNoDocuments) {
			// Either not found or a concurrent writer bumped the version.
			return nil, persistence.ErrOptimisticLocking
		}
		return nil, fmt.Errorf("failed to update entity: %w", result.Err())
	}

	var updated Entity
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated entity: %w", err)
	}

	return r.mapper.ToDomain(&updated), nil
}

// Delete hard deletes an entity by ID.
func (r *GenericRepository[Domain, Entity]) Delete(ctx context.Context, id string) error {
	coll, err := r.coll(ctx)
	if err != nil {
		return err
	}

	if _, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	return nil
}

// Exists checks if an entity with the given ID exists.
func (r *GenericRepository[Domain, Entity]) Exists(ctx context.Context, id string) (bool, error) {
	return r.ExistsWithFilter(ctx, bson.D{{Key: "_id", Value: id}})
}

// ExistsWithFilter checks if any entity matching the filter exists.
func (r *GenericRepository[Domain, Entity]) ExistsWithFilter(ctx context.Context, filter bson.D) (bool, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return false, err
	}

	count, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check entity existence: %w", err)
	}
	return count > 0, nil
}

// UpsertIfNewer inserts or replaces an entity only if its version is greater
// than the existing one. This keeps projections correct when events arrive
// out of order. Returns true if the entity was written, false if skipped.
func (r *GenericRepository[Domain, Entity]) UpsertIfNewer(ctx context.Context, domain *Domain) (bool, error) {
	entity := r.mapper.ToEntity(domain)
	if err := tenant.VerifyOwnership(ctx, r.mapper.GetTenantID(entity)); err != nil {
		return false, err
	}

	coll, err := r.coll(ctx)
	if err != nil {
		return false, err
	}

	filter := bson.D{
		{Key: "_id", Value: r.mapper.GetID(entity)},
		{Key: "version", Value: bson.M{"$lt": r.mapper.GetVersion(entity)}},
	}

	opts := options.Replace().SetUpsert(true)
	result, err := coll.ReplaceOne(ctx, filter, entity, opts)
	if err != nil {
		// The filter missed because the stored version is not older, and the
		// upsert then collided with the existing id.
		if mongodriver.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert entity: %w", err)
	}

	updated := result.MatchedCount > 0 || result.UpsertedCount > 0
	return updated, nil
}
