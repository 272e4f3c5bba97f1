package mongo

import (
	"context"
	"fmt"

	"github.com/Sokol111/warehouse-commons/pkg/core/tenant"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/v2/mongo/otelmongo"
	"go.uber.org/zap"
)

// maxDatabaseNameLength is the MongoDB limit for database names.
const maxDatabaseNameLength = 63

// Partitions resolves database handles for the calling tenant. Domain data
// lives in one database per tenant; shared infrastructure such as the outbox
// lives in the base database.
type Partitions interface {
	// Database returns the calling tenant's database. It fails when the
	// context carries no tenant id.
	Database(ctx context.Context) (*mongodriver.Database, error)

	// Collection returns a wrapped collection in the calling tenant's database.
	Collection(ctx context.Context, name string, opts ...WrapperOption) (Collection, error)

	// BaseDatabase returns the shared database.
	BaseDatabase() *mongodriver.Database

	// BaseCollection returns a wrapped collection in the shared database.
	BaseCollection(name string, opts ...WrapperOption) Collection
}

// Admin extends Partitions with raw client access for infrastructure
// components such as the transaction manager.
type Admin interface {
	Partitions
	Client() *mongodriver.Client
}

type partitions struct {
	client *mongodriver.Client
	baseDB *mongodriver.Database
	conf   Config
	log    *zap.Logger
}

func newPartitions(log *zap.Logger, conf Config) (*partitions, error) {
	if err := validateConfig(conf); err != nil {
		return nil, err
	}

	clientOptions := options.Client().
		ApplyURI(conf.BuildURI()).
		SetMaxPoolSize(conf.MaxPoolSize).
		SetMinPoolSize(conf.MinPoolSize).
		SetMaxConnIdleTime(conf.MaxConnIdleTime).
		SetServerSelectionTimeout(conf.ServerSelectTimeout).
		SetMonitor(otelmongo.NewMonitor())

	// The client connects lazily. Actual connectivity is verified in
	// connect() via Ping.
	client, err := mongodriver.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return &partitions{
		client: client,
		baseDB: client.Database(conf.Database),
		conf:   conf,
		log:    log,
	}, nil
}

func (p *partitions) connect(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, p.conf.ConnectTimeout)
	defer cancel()

	if err := p.client.Ping(c, nil); err != nil {
		return fmt.Errorf("failed to ping mongo: %w", err)
	}

	p.log.Info("connected to mongo",
		zap.String("database", p.conf.Database),
		zap.Uint64("max-pool-size", p.conf.MaxPoolSize),
		zap.Uint64("min-pool-size", p.conf.MinPoolSize),
		zap.Duration("max-conn-idle-time", p.conf.MaxConnIdleTime),
		zap.Duration("query-timeout", p.conf.QueryTimeout),
	)
	return nil
}

func (p *partitions) disconnect(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, p.conf.ConnectTimeout)
	defer cancel()
	if err := p.client.Disconnect(c); err != nil {
		return fmt.Errorf("failed to disconnect from mongo: %w", err)
	}
	p.log.Info("disconnected from mongo")
	return nil
}

func (p *partitions) Database(ctx context.Context) (*mongodriver.Database, error) {
	tenantID, err := tenant.Require(ctx)
	if err != nil {
		return nil, err
	}
	name, err := tenantDatabaseName(p.conf.TenantDatabasePrefix, tenantID)
	if err != nil {
		return nil, err
	}
	return p.client.Database(name), nil
}

func (p *partitions) Collection(ctx context.Context, name string, opts ...WrapperOption) (Collection, error) {
	db, err := p.Database(ctx)
	if err != nil {
		return nil, err
	}
	return p.wrap(db.Collection(name), opts), nil
}

func (p *partitions) BaseDatabase() *mongodriver.Database {
	return p.baseDB
}

func (p *partitions) BaseCollection(name string, opts ...WrapperOption) Collection {
	return p.wrap(p.baseDB.Collection(name), opts)
}

func (p *partitions) Client() *mongodriver.Client {
	return p.client
}

func (p *partitions) wrap(coll *mongodriver.Collection, opts []WrapperOption) Collection {
	wrapperOpts := append([]WrapperOption{WithTimeout(p.conf.QueryTimeout)}, opts...)
	return newCollectionWrapper(coll, wrapperOpts...)
}

// tenantDatabaseName derives the database name for a tenant. The tenant id is
// restricted to a safe charset because it becomes part of the database name.
func tenantDatabaseName(prefix, tenantID string) (string, error) {
	if tenantID == "" {
		return "", fmt.Errorf("tenant id is empty")
	}
	for _, r := range tenantID {
		if !isTenantIDChar(r) {
			return "", fmt.Errorf("tenant id %q contains invalid character %q", tenantID, r)
		}
	}
	name := prefix + "_" + tenantID
	if len(name) > maxDatabaseNameLength {
		return "", fmt.Errorf("database name %q exceeds %d characters", name, maxDatabaseNameLength)
	}
	return name, nil
}

func isTenantIDChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}
