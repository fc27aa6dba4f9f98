package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/backend/internal/interfaces/http/handler"
)

func TestRouter_MountsUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(&SystemRoutes{Handler: handler.NewSystemHandler()})
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_DefaultVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	r := NewRouter(engine)
	r.Register(&SystemRoutes{Handler: handler.NewSystemHandler()})
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(&SystemRoutes{Handler: handler.NewSystemHandler()})
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v2/system/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
