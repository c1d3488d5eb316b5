package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	checkoutapp "github.com/tradelink/backend/internal/application/checkout"
	partnerapp "github.com/tradelink/backend/internal/application/partner"
	payoutapp "github.com/tradelink/backend/internal/application/payout"
	settlementapp "github.com/tradelink/backend/internal/application/settlement"
	"github.com/tradelink/backend/internal/domain/settlement"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/infrastructure/cache"
	"github.com/tradelink/backend/internal/infrastructure/config"
	"github.com/tradelink/backend/internal/infrastructure/event"
	"github.com/tradelink/backend/internal/infrastructure/logger"
	"github.com/tradelink/backend/internal/infrastructure/payment"
	"github.com/tradelink/backend/internal/infrastructure/persistence"
	"github.com/tradelink/backend/internal/interfaces/http/handler"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
	"github.com/tradelink/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.NewFromAppConfig(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	log.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with a GORM logger that routes SQL logs through zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
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

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)

	// Initialize payment processor
	processor, err := payment.NewStripeProcessor(&payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		IsTestMode:    cfg.App.Env != "production",
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize payment processor", zap.Error(err))
	}

	// Idempotency store and cart store: Redis when enabled, in-memory
	// otherwise. The in-memory fallback is single-instance only.
	var idempotencyStore shared.IdempotencyStore
	var cartStore settlement.CartRemover
	if cfg.Redis.Enabled {
		redisCfg := cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		redisStore, err := cache.NewRedisIdempotencyStore(redisCfg)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisStore.Close()
		redisCart, err := cache.NewRedisCartStore(redisCfg)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisCart.Close()
		idempotencyStore = redisStore
		cartStore = redisCart
		log.Info("Redis idempotency and cart stores initialized",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		memStore := cache.NewInMemoryIdempotencyStore()
		defer memStore.Close()
		idempotencyStore = memStore
		cartStore = cache.NewInMemoryCartStore()
		log.Info("In-memory idempotency and cart stores initialized")
	}

	idempotencyCfg := shared.IdempotencyConfig{
		TTL:     cfg.Event.DedupTTL,
		Enabled: true,
	}
	if idempotencyCfg.TTL == 0 {
		idempotencyCfg = shared.DefaultIdempotencyConfig()
	}

	// Initialize event bus and subscribe handlers. Handlers are wrapped with
	// duplicate-delivery protection so a redelivered payment event cannot
	// run side effects twice.
	eventBus := event.NewInMemoryEventBus(log)
	orderPaidHandler := checkoutapp.NewOrderPaidHandler(cartStore, log)
	wrapped := event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{orderPaidHandler},
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(idempotencyCfg),
	)
	for _, h := range wrapped {
		eventBus.Subscribe(h, h.EventTypes()...)
	}
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Error("Failed to stop event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	feePercent := decimal.NewFromFloat(cfg.Fees.PlatformFeePercent)

	checkoutService := checkoutapp.NewCheckoutService(checkoutapp.CheckoutServiceConfig{
		OrderRepo:      orderRepo,
		PaymentRepo:    paymentRepo,
		CompanyRepo:    companyRepo,
		Processor:      processor,
		EventPublisher: eventBus,
		Logger:         log,
		FeePercent:     feePercent,
	})
	orderService := checkoutapp.NewOrderService(checkoutapp.OrderServiceConfig{
		OrderRepo:      orderRepo,
		PaymentRepo:    paymentRepo,
		EventPublisher: eventBus,
		Logger:         log,
	})
	payoutService := payoutapp.NewPayoutService(payoutapp.PayoutServiceConfig{
		PayoutRepo:     payoutRepo,
		OrderRepo:      orderRepo,
		CompanyRepo:    companyRepo,
		Processor:      processor,
		EventPublisher: eventBus,
		Logger:         log,
		FeePercent:     feePercent,
	})
	companyService := partnerapp.NewCompanyService(partnerapp.CompanyServiceConfig{
		CompanyRepo:    companyRepo,
		EventPublisher: eventBus,
		Logger:         log,
	})
	coordinator := settlementapp.NewCoordinator(checkoutService, payoutService, log)
	webhookService := checkoutapp.NewWebhookService(checkoutapp.WebhookServiceConfig{
		Processor:        processor,
		CheckoutService:  checkoutService,
		IdempotencyStore: idempotencyStore,
		Idempotency:      idempotencyCfg,
		Logger:           log,
	})

	// Initialize handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, coordinator)
	orderHandler := handler.NewOrderHandler(orderService)
	payoutHandler := handler.NewPayoutHandler(payoutService, coordinator)
	companyHandler := handler.NewCompanyHandler(companyService)
	systemHandler := handler.NewSystemHandler()
	webhookHandler := handler.NewStripeWebhookHandler(webhookService, log)

	// Setup Gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	// Health check
	engine.GET("/health", healthHandler(db))

	// Stripe callbacks are verified by signature and mounted outside the
	// versioned API
	engine.POST("/webhooks/stripe", webhookHandler.HandleWebhook)

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(
		checkoutHandler,
		orderHandler,
		payoutHandler,
		companyHandler,
		systemHandler,
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// healthHandler reports liveness and database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().UTC().Format(time.RFC3339),
				"database": "down",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": "up",
		})
	}
}
