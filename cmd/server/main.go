// Command server runs the storefront HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	cartapp "github.com/erp/storefront/internal/application/cart"
	catalogapp "github.com/erp/storefront/internal/application/catalog"
	customerapp "github.com/erp/storefront/internal/application/customer"
	identityapp "github.com/erp/storefront/internal/application/identity"
	orderingapp "github.com/erp/storefront/internal/application/ordering"
	"github.com/erp/storefront/internal/domain/shared"
	"github.com/erp/storefront/internal/infrastructure/auth"
	"github.com/erp/storefront/internal/infrastructure/cache"
	"github.com/erp/storefront/internal/infrastructure/config"
	"github.com/erp/storefront/internal/infrastructure/event"
	"github.com/erp/storefront/internal/infrastructure/logger"
	"github.com/erp/storefront/internal/infrastructure/persistence"
	"github.com/erp/storefront/internal/infrastructure/telemetry"
	"github.com/erp/storefront/internal/interfaces/http/handler"
	"github.com/erp/storefront/internal/interfaces/http/middleware"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const meterName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter(meterName)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	dbTracing.LogFullSQL = cfg.App.Env == "development"
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register pool metrics", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Notification hooks
	bus := event.NewInMemoryEventBus(log)
	idempotencyStore := cache.NewIdempotencyStore(ctx, cfg.Event, cfg.Redis, log)
	defer func() { _ = idempotencyStore.Close() }()

	orderMetrics, err := telemetry.NewOrderMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to create order metrics", zap.Error(err))
	}
	subscribe(bus, idempotencyStore, cfg.Event, log,
		orderingapp.NewOrderCreatedAuditHandler(log),
		orderingapp.NewOrderMetricsHandler(orderMetrics),
		catalogapp.NewPriceChangeAuditHandler(log),
		customerapp.NewProfileProvisioningHandler(customerRepo, log),
	)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, bus, log)
	productService := catalogapp.NewProductService(productRepo, collectionRepo, cfg.Catalog.TaxRate, bus, log)
	collectionService := catalogapp.NewCollectionService(collectionRepo)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo)
	cartService := cartapp.NewCartService(cartRepo, log)
	customerService := customerapp.NewCustomerService(customerRepo, userRepo, orderRepo, log)
	orderService := orderingapp.NewOrderService(
		persistence.NewGormPlacementUnitOfWork(db.DB, cfg.Database.TxMaxAttempts),
		orderRepo, customerRepo, bus, log,
	)

	var authLimiter *middleware.RateLimiter
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()),
		middleware.SpanEnricher(),
		middleware.HTTPMetrics(meter),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Authenticate(jwtService, log),
	)

	handler.NewHealthHandler(db).Register(engine)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	handler.Mount(r,
		handler.NewProductHandler(productService),
		handler.NewCollectionHandler(collectionService),
		handler.NewReviewHandler(reviewService),
		handler.NewCartHandler(cartService),
		handler.NewCustomerHandler(customerService, cfg.Security.OpenCustomerDirectory),
		handler.NewOrderHandler(orderService),
		handler.NewAuthHandler(authService, authLimiter),
	)
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
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down server", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// In-flight requests have finished publishing; let the handlers drain.
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited")
}

// subscribe registers the notification handlers, wrapping each one so it
// sees an event at most once when idempotency is enabled.
func subscribe(
	bus *event.InMemoryEventBus,
	store shared.IdempotencyStore,
	cfg config.EventConfig,
	log *zap.Logger,
	handlers ...shared.EventHandler,
) {
	idempotency := shared.IdempotencyConfig{Enabled: cfg.IdempotencyEnabled, TTL: cfg.IdempotencyTTL}
	if idempotency.TTL <= 0 {
		idempotency.TTL = shared.DefaultIdempotencyConfig().TTL
	}
	stats := &event.IdempotencyStats{}

	for _, h := range handlers {
		if idempotency.Enabled {
			h = event.NewIdempotentHandler(h, store, idempotency, log, stats)
		}
		bus.Subscribe(h)
	}
	log.Info("Notification handlers subscribed",
		zap.Int("count", len(handlers)),
		zap.Bool("idempotent", idempotency.Enabled),
		zap.Duration("idempotency_ttl", idempotency.TTL),
	)
}
