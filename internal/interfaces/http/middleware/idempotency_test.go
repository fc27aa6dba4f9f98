package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/infrastructure/cache"
)

func newIdempotencyTestRouter(store cache.IdempotencyStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Idempotency(IdempotencyConfig{Store: store, TTL: time.Minute}))
	r.POST("/updates", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/updates", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestIdempotency(t *testing.T) {
	t.Run("request without key passes", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		r := newIdempotencyTestRouter(store)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/updates", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("first request with key passes, replay is rejected", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		r := newIdempotencyTestRouter(store)

		req := httptest.NewRequest(http.MethodPost, "/updates", nil)
		req.Header.Set(IdempotencyKeyHeader, "batch-42")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		replay := httptest.NewRequest(http.MethodPost, "/updates", nil)
		replay.Header.Set(IdempotencyKeyHeader, "batch-42")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, replay)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_DUPLICATE_REQUEST")
	})

	t.Run("GET requests are never deduplicated", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		r := newIdempotencyTestRouter(store)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/updates", nil)
			req.Header.Set(IdempotencyKeyHeader, "read-key")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}
