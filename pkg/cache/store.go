package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON when the key is absent. Callers fall
// through to the authoritative store and repopulate with SetJSON.
var ErrCacheMiss = errors.New("cache miss")

// scanCount is the batch size hint for SCAN during prefix eviction.
const scanCount = 100

// Store is a JSON cache-aside store over Redis.
type Store interface {
	// GetJSON reads the key into dest. An absent key yields ErrCacheMiss.
	GetJSON(ctx context.Context, key string, dest any) error
	// SetJSON stores value as JSON. A non-positive ttl falls back to the
	// configured default.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPrefix removes every key under the prefix with SCAN+DEL loops.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type redisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
}

func newStore(client *redis.Client, conf *Config) Store {
	return &redisStore{
		client:     client,
		defaultTTL: conf.TTL,
	}
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("key %s: %w", key, ErrCacheMiss)
		}
		return fmt.Errorf("failed to read key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode cached value for key %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", scanCount).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys with prefix %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys with prefix %s: %w", prefix, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
