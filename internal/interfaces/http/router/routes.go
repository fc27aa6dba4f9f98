package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// PriceHistoryRoutes mounts the price change ledger endpoints. Reads
// are open to any authenticated caller; writes and audit operations
// require the admin role and go through idempotency deduplication.
type PriceHistoryRoutes struct {
	Handler     *handler.PriceHistoryHandler
	AdminOnly   gin.HandlerFunc
	Idempotency gin.HandlerFunc
}

func (r *PriceHistoryRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/price-history")

	group.GET("/product/:id", r.Handler.GetProductHistory)
	group.GET("/variant/:id", r.Handler.GetVariantHistory)

	group.POST("/product/:id/update", r.AdminOnly, r.Idempotency, r.Handler.UpdateProductPrice)
	group.POST("/variant/:id/update", r.AdminOnly, r.Idempotency, r.Handler.UpdateVariantPrice)

	group.POST("/recalculate", r.AdminOnly, r.Handler.Recalculate)
	group.GET("/audit/mismatches", r.AdminOnly, r.Handler.GetMismatches)
}

// CatalogRoutes mounts product and variant endpoints
type CatalogRoutes struct {
	Handler   *handler.CatalogHandler
	AdminOnly gin.HandlerFunc
}

func (r *CatalogRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/catalog")

	group.POST("/products", r.AdminOnly, r.Handler.CreateProduct)
	group.GET("/products", r.Handler.ListProducts)
	group.GET("/products/:id", r.Handler.GetProduct)
	group.PUT("/products/:id", r.AdminOnly, r.Handler.UpdateProduct)
	group.POST("/products/:id/deactivate", r.AdminOnly, r.Handler.DeactivateProduct)

	group.POST("/products/:id/variants", r.AdminOnly, r.Handler.CreateVariant)
	group.GET("/products/:id/variants", r.Handler.ListVariants)
	group.GET("/variants/:id", r.Handler.GetVariant)
	group.PUT("/variants/:id", r.AdminOnly, r.Handler.UpdateVariant)
}

// SyncRoutes mounts the bulk price feed endpoint
type SyncRoutes struct {
	Handler     *handler.SyncHandler
	AdminOnly   gin.HandlerFunc
	Idempotency gin.HandlerFunc
}

func (r *SyncRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sync")
	group.POST("/price-updates", r.AdminOnly, r.Idempotency, r.Handler.ApplyBatch)
}

// SystemRoutes mounts liveness and version endpoints
type SystemRoutes struct {
	Handler *handler.SystemHandler
}

func (r *SystemRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/system")
	group.GET("/ping", r.Handler.Ping)
	group.GET("/info", r.Handler.GetSystemInfo)
}
