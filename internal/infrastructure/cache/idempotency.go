package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
)

// IdempotencyStore deduplicates retried price-update requests keyed by
// the Idempotency-Key header. A gateway retry of a SYSTEM_SYNC or
// IMPORT batch must not append duplicate ledger entries.
type IdempotencyStore interface {
	// MarkProcessed atomically records the key with a TTL. Returns
	// true if the key was newly recorded, false if already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether the key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases store resources
	Close() error
}

// NewIdempotencyStore builds the store selected by configuration
func NewIdempotencyStore(cfg config.IdempotencyConfig, redisCfg config.RedisConfig) (IdempotencyStore, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisIdempotencyStore(redisCfg)
	case "memory":
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
