package container

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer wraps the testcontainers Redis container with a client
type RedisContainer struct {
	Container        *tcredis.RedisContainer
	Client           *goredis.Client
	ConnectionString string
}

// RedisContainerOption configures the Redis container
type RedisContainerOption func(*redisContainerOptions)

type redisContainerOptions struct {
	image string
}

// WithRedisImage sets the Redis image to use
func WithRedisImage(image string) RedisContainerOption {
	return func(o *redisContainerOptions) {
		o.image = image
	}
}

// StartRedisContainer starts a Redis container and returns a wrapper with a connected client
func StartRedisContainer(ctx context.Context, opts ...RedisContainerOption) (*RedisContainer, error) {
	options := &redisContainerOptions{
		image: "redis:7",
	}
	for _, opt := range opts {
		opt(options)
	}

	redisContainer, err := tcredis.Run(ctx, options.image)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	connectionString, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(redisContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	clientOpts, err := goredis.ParseURL(connectionString)
	if err != nil {
		_ = testcontainers.TerminateContainer(redisContainer)
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	client := goredis.NewClient(clientOpts)

	// Ping to verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		_ = testcontainers.TerminateContainer(redisContainer)
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisContainer{
		Container:        redisContainer,
		Client:           client,
		ConnectionString: connectionString,
	}, nil
}

// Terminate closes the client and terminates the container
func (r *RedisContainer) Terminate(ctx context.Context) error {
	var errs []error

	if r.Client != nil {
		if err := r.Client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if r.Container != nil {
		if err := testcontainers.TerminateContainer(r.Container); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate redis container: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during termination: %v", errs)
	}
	return nil
}
