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

	inventoryapp "github.com/resto/backend/internal/application/inventory"
	kitchenapp "github.com/resto/backend/internal/application/kitchen"
	orderapp "github.com/resto/backend/internal/application/ordering"
	paymentapp "github.com/resto/backend/internal/application/payment"
	"github.com/resto/backend/internal/domain/inventory"
	"github.com/resto/backend/internal/domain/ordering"
	"github.com/resto/backend/internal/domain/payment"
	"github.com/resto/backend/internal/domain/shared"
	"github.com/resto/backend/internal/infrastructure/auth"
	"github.com/resto/backend/internal/infrastructure/broadcast"
	"github.com/resto/backend/internal/infrastructure/cache"
	"github.com/resto/backend/internal/infrastructure/config"
	"github.com/resto/backend/internal/infrastructure/event"
	"github.com/resto/backend/internal/infrastructure/logger"
	"github.com/resto/backend/internal/infrastructure/persistence"
	"github.com/resto/backend/internal/interfaces/http/handler"
	"github.com/resto/backend/internal/interfaces/http/middleware"
	"github.com/resto/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Run schema migrations
	if err := db.DB.AutoMigrate(
		&ordering.Order{},
		&ordering.OrderItem{},
		&ordering.Person{},
		&ordering.CancellationRecord{},
		&payment.Payment{},
		&payment.SplitPayment{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&persistence.StationAssignment{},
		&shared.OutboxEntry{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Event plumbing: serializer + transactional outbox + in-process bus
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	eventBus := event.NewInMemoryEventBus(log)

	// Table status and idempotency stores: Redis when reachable, in-memory
	// fallback for local development
	redisCfg := cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	var tableStore ordering.TableStatusStore
	if redisTableStore, err := cache.NewRedisTableStatusStore(redisCfg); err != nil {
		log.Warn("Redis unavailable, using in-memory table status store", zap.Error(err))
		tableStore = cache.NewInMemoryTableStatusStore()
	} else {
		tableStore = redisTableStore
	}
	var idempotencyStore shared.IdempotencyStore
	if redisIdemStore, err := cache.NewRedisIdempotencyStore(redisCfg); err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		idempotencyStore = redisIdemStore
	}

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepositoryWithOutbox(db.DB, outboxPublisher)
	cancellationRepo := persistence.NewGormCancellationRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepositoryWithOutbox(db.DB, outboxPublisher)
	stationResolver := persistence.NewGormStationResolver(db.DB)

	// Stock ledger runs item lock + movement + outbox in one transaction
	txScope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)
	ledgerService := inventoryapp.NewStockLedgerService(txScope)

	// Initialize application services
	orderService := orderapp.NewOrderService(orderRepo, cancellationRepo, tableStore, ledgerService)
	personService := orderapp.NewPersonService(orderRepo)
	kitchenService := kitchenapp.NewKitchenService(orderRepo, stationResolver, ledgerService)
	settlementScope := persistence.NewGormSettlementScope(db.DB, outboxPublisher)
	paymentService := paymentapp.NewPaymentService(paymentRepo, orderRepo, tableStore, settlementScope)

	// JWT service for actor identity and the supervisor gate
	jwtService := auth.NewJWTService(cfg.JWT)

	// NATS broadcaster pushes order, kitchen, table and stock updates to
	// terminals. Broadcast is best effort; the server runs without it.
	var natsClient *broadcast.NATSClient
	if natsClient, err = broadcast.NewNATSClient(&cfg.NATS, log); err != nil {
		log.Warn("NATS unavailable, realtime broadcast disabled", zap.Error(err))
	} else {
		defer func() {
			if err := natsClient.Close(); err != nil {
				log.Error("Error closing NATS connection", zap.Error(err))
			}
		}()

		broadcaster := broadcast.NewBroadcaster(natsClient, cfg.NATS.SubjectPrefix, log)
		idempotentBroadcaster := event.NewIdempotentHandler(broadcaster, idempotencyStore, log)
		eventBus.Subscribe(idempotentBroadcaster, broadcaster.EventTypes()...)
	}

	// Outbox processor relays stored events to the bus
	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor = event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderService)
	kitchenHandler := handler.NewKitchenHandler(kitchenService, orderService)
	personHandler := handler.NewPersonHandler(personService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	stockHandler := handler.NewStockHandler(ledgerService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/health",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Order lifecycle routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.GET("/:id/cancellations", orderHandler.ListCancellations)
	// Item editing (pending items only)
	orderRoutes.POST("/:id/items", orderHandler.AddItems)
	orderRoutes.PUT("/:id/items/:itemId", orderHandler.UpdateItem)
	orderRoutes.PUT("/:id/items/:itemId/quantity", orderHandler.UpdateItemQuantity)
	orderRoutes.DELETE("/:id/items/:itemId", orderHandler.RemoveItem)
	// Kitchen coordination
	orderRoutes.POST("/:id/send", kitchenHandler.Send)
	orderRoutes.POST("/:id/items/:itemId/preparing", kitchenHandler.MarkPreparing)
	orderRoutes.POST("/:id/items/:itemId/ready", kitchenHandler.MarkReady)
	orderRoutes.POST("/:id/items/:itemId/served", kitchenHandler.MarkServed)
	orderRoutes.POST("/:id/items/:itemId/cancel", kitchenHandler.CancelItem)
	// Payments
	orderRoutes.POST("/:id/payments", paymentHandler.Record)
	orderRoutes.GET("/:id/payments", paymentHandler.ListByOrder)
	orderRoutes.GET("/:id/balance", paymentHandler.Balance)
	// Bill splitting by diner
	orderRoutes.POST("/:id/persons", personHandler.Create)
	orderRoutes.DELETE("/:id/persons/:personId", personHandler.Delete)
	orderRoutes.GET("/:id/persons/totals", personHandler.Totals)
	orderRoutes.POST("/:id/items/:itemId/assign", personHandler.AssignItem)
	orderRoutes.POST("/:id/items/:itemId/shared", personHandler.MarkShared)

	// Table routes
	tableRoutes := router.NewDomainGroup("tables", "/tables")
	tableRoutes.GET("/:tableId/order", orderHandler.GetByTable)

	// Payment routes not scoped to an order
	paymentRoutes := router.NewDomainGroup("payments", "/payments")
	paymentRoutes.POST("/:id/void", paymentHandler.Void)

	// Stock routes
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("", stockHandler.Ensure)
	stockRoutes.GET("/:productId", stockHandler.Get)
	stockRoutes.GET("/:productId/movements", stockHandler.Movements)
	stockRoutes.POST("/adjust", middleware.RequireSupervisor(), stockHandler.Adjust)

	r.Register(orderRoutes)
	r.Register(tableRoutes)
	r.Register(paymentRoutes)
	r.Register(stockRoutes)
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(ctx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
