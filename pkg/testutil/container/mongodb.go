package container

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultMongoImage = "mongo:7"

// MongoDBContainer is a running MongoDB testcontainer with a connected
// driver client. It starts as a single-node replica set because the
// transaction manager needs sessions, which standalone mongod refuses.
type MongoDBContainer struct {
	Container        *mongodb.MongoDBContainer
	Client           *mongo.Client
	ConnectionString string
}

// MongoDBContainerOption configures the MongoDB container
type MongoDBContainerOption func(*mongoDBContainerOptions)

type mongoDBContainerOptions struct {
	image      string
	standalone bool
}

// WithImage overrides the MongoDB image
func WithImage(image string) MongoDBContainerOption {
	return func(o *mongoDBContainerOptions) {
		o.image = image
	}
}

// WithStandalone starts plain mongod without a replica set, for tests that
// never open a transaction.
func WithStandalone() MongoDBContainerOption {
	return func(o *mongoDBContainerOptions) {
		o.standalone = true
	}
}

// StartMongoDBContainer starts MongoDB and waits until the driver can ping it.
func StartMongoDBContainer(ctx context.Context, opts ...MongoDBContainerOption) (*MongoDBContainer, error) {
	options := &mongoDBContainerOptions{image: defaultMongoImage}
	for _, opt := range opts {
		opt(options)
	}

	var tcOpts []testcontainers.ContainerCustomizer
	if !options.standalone {
		tcOpts = append(tcOpts, mongodb.WithReplicaSet("rs0"))
	}

	mongoContainer, err := mongodb.Run(ctx, options.image, tcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start mongodb container: %w", err)
	}

	connectionString, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(mongoContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	client, err := mongo.Connect(mongooptions.Client().ApplyURI(connectionString))
	if err != nil {
		_ = testcontainers.TerminateContainer(mongoContainer)
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		_ = testcontainers.TerminateContainer(mongoContainer)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBContainer{
		Container:        mongoContainer,
		Client:           client,
		ConnectionString: connectionString,
	}, nil
}

// Database returns a database handle for the given name
func (m *MongoDBContainer) Database(name string) *mongo.Database {
	return m.Client.Database(name)
}

// Terminate disconnects the client and stops the container.
func (m *MongoDBContainer) Terminate(ctx context.Context) error {
	var disconnectErr, terminateErr error
	if m.Client != nil {
		disconnectErr = m.Client.Disconnect(ctx)
	}
	if m.Container != nil {
		terminateErr = testcontainers.TerminateContainer(m.Container)
	}
	return errors.Join(disconnectErr, terminateErr)
}
