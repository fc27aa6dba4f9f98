package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the request header carrying the client's
// deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// IdempotencyConfig holds idempotency middleware configuration
type IdempotencyConfig struct {
	Store  cache.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects replays of unsafe requests that carry an
// Idempotency-Key header already seen within the TTL. Requests without
// the header pass through; gateways retrying sync batches send the key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// Scope the key to method and path so the same key can be
		// reused against different endpoints
		scopedKey := c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		fresh, err := cfg.Store.MarkProcessed(c.Request.Context(), scopedKey, cfg.TTL)
		if err != nil {
			// Store failure must not block writes; log and continue
			if cfg.Logger != nil {
				cfg.Logger.Error("Idempotency store unavailable",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.Next()
			return
		}

		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(dto.ErrCodeDuplicateRequest, "Request with this idempotency key was already processed"))
			return
		}

		c.Next()
	}
}
