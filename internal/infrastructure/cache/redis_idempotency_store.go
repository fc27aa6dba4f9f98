package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/infrastructure/config"
)

const idempotencyKeyPrefix = "pricing:idempotency:"

// RedisIdempotencyStore implements IdempotencyStore using Redis, for
// deployments where multiple instances share dedup state
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a new Redis-based idempotency store
func NewRedisIdempotencyStore(cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: idempotencyKeyPrefix,
	}, nil
}

// NewRedisIdempotencyStoreWithClient creates a store with an existing
// Redis client (useful for tests or shared clients)
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = idempotencyKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed records the key with a TTL using SETNX, so concurrent
// retries race to a single winner
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark request as processed: %w", err)
	}
	return result, nil
}

// IsProcessed checks whether the key has already been recorded
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return exists > 0, nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ IdempotencyStore = (*RedisIdempotencyStore)(nil)
