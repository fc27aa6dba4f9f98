package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting pricing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database with GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	historyRepo := persistence.NewGormPriceChangeRepository(db.DB)
	priceLedger := persistence.NewGormPriceLedger(db.DB)

	// Application services
	catalogService := catalogapp.NewService(productRepo, variantRepo, priceLedger, log)
	recorder := pricingapp.NewRecorder(productRepo, variantRepo, historyRepo, priceLedger, log)
	queryService := pricingapp.NewQueryService(productRepo, variantRepo, historyRepo)
	auditService := pricingapp.NewAuditService(productRepo, variantRepo, historyRepo, priceLedger, log, cfg.Audit.BatchSize)
	syncService := pricingapp.NewSyncService(recorder, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Idempotency dedup for the write endpoints
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Idempotency, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// HTTP handlers
	priceHistoryHandler := handler.NewPriceHistoryHandler(recorder, queryService, auditService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	syncHandler := handler.NewSyncHandler(syncService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	adminOnly := middleware.RequireAdmin()
	idempotency := passthrough()
	if cfg.Idempotency.Enabled {
		idempotency = middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		})
		log.Info("Idempotency dedup enabled",
			zap.String("backend", cfg.Idempotency.Backend),
			zap.Duration("ttl", cfg.Idempotency.TTL),
		)
	}

	r.Register(&router.PriceHistoryRoutes{
		Handler:     priceHistoryHandler,
		AdminOnly:   adminOnly,
		Idempotency: idempotency,
	})
	r.Register(&router.CatalogRoutes{
		Handler:   catalogHandler,
		AdminOnly: adminOnly,
	})
	r.Register(&router.SyncRoutes{
		Handler:     syncHandler,
		AdminOnly:   adminOnly,
		Idempotency: idempotency,
	})
	r.Register(&router.SystemRoutes{Handler: systemHandler})

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func passthrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// healthHandler reports liveness including a database ping
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
