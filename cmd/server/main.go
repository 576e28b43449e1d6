package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	notifapp "github.com/erp-mx/backend/internal/application/notification"
	partnerapp "github.com/erp-mx/backend/internal/application/partner"
	quoteapp "github.com/erp-mx/backend/internal/application/quote"
	tradeapp "github.com/erp-mx/backend/internal/application/trade"
	"github.com/erp-mx/backend/internal/domain/shared/valueobject"
	"github.com/erp-mx/backend/internal/infrastructure/auth"
	"github.com/erp-mx/backend/internal/infrastructure/cache"
	"github.com/erp-mx/backend/internal/infrastructure/config"
	"github.com/erp-mx/backend/internal/infrastructure/logger"
	"github.com/erp-mx/backend/internal/infrastructure/persistence"
	"github.com/erp-mx/backend/internal/interfaces/http/handler"
	"github.com/erp-mx/backend/internal/interfaces/http/middleware"
	"github.com/erp-mx/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	quoteService := quoteapp.NewService(quoteRepo, clientRepo, supplierRepo, quoteapp.Defaults{
		Margin:        cfg.Business.DefaultMargin,
		MinimumMargin: cfg.Business.MinimumMargin,
		TaxRate:       cfg.Business.TaxRate,
		ExchangeRate:  cfg.Business.ExchangeRate,
		Currency:      valueobject.Currency(cfg.Business.DefaultCurrency),
	}, log)

	// The list cache is optional; an unreachable Redis downgrades list reads
	// to the database instead of blocking startup.
	if listCache, err := cache.NewRedisQuoteListCache(cfg.Redis, cfg.Business.QuoteCacheTTL, log); err != nil {
		log.Warn("Quote list cache disabled", zap.Error(err))
	} else {
		quoteService.SetListCache(listCache)
		log.Info("Quote list cache enabled",
			zap.String("addr", cfg.Redis.RedisAddr()),
			zap.Duration("ttl", cfg.Business.QuoteCacheTTL),
		)
	}

	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, purchaseOrderRepo, quoteRepo, notificationRepo, txScope, log)
	receivingService := tradeapp.NewReceivingService(purchaseOrderRepo, salesOrderRepo, notificationRepo, log)
	clientService := partnerapp.NewClientService(clientRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	notificationService := notifapp.NewService(notificationRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	salesOrderHandler := handler.NewSalesOrderHandler(salesOrderService, receivingService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(receivingService)
	clientHandler := handler.NewClientHandler(clientService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Env)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

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

	salesOrAdmin := middleware.RequireAnyRole(auth.RoleSales, auth.RoleAdmin)
	warehouseOrAdmin := middleware.RequireAnyRole(auth.RoleWarehouse, auth.RoleAdmin)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	// Quotes
	quoteRoutes := router.NewDomainGroup("quote", "/quotes")
	quoteRoutes.POST("", salesOrAdmin, quoteHandler.Create)
	quoteRoutes.GET("", quoteHandler.List)
	quoteRoutes.GET("/folio/:folio", quoteHandler.GetByFolio)
	quoteRoutes.GET("/:id", quoteHandler.GetByID)
	quoteRoutes.PUT("/:id", salesOrAdmin, quoteHandler.Update)
	quoteRoutes.POST("/:id/items", salesOrAdmin, quoteHandler.AddItem)
	quoteRoutes.PUT("/:id/items/:item_id", salesOrAdmin, quoteHandler.UpdateItem)
	quoteRoutes.DELETE("/:id/items/:item_id", salesOrAdmin, quoteHandler.RemoveItem)
	quoteRoutes.POST("/:id/finalize", salesOrAdmin, quoteHandler.Finalize)
	quoteRoutes.POST("/:id/accept", salesOrAdmin, quoteHandler.Accept)
	quoteRoutes.POST("/:id/cancel", salesOrAdmin, quoteHandler.Cancel)
	quoteRoutes.POST("/:id/recalculate", salesOrAdmin, quoteHandler.Recalculate)

	// Sales orders
	orderRoutes := router.NewDomainGroup("sales-order", "/sales-orders")
	orderRoutes.POST("", salesOrAdmin, salesOrderHandler.Create)
	orderRoutes.GET("", salesOrderHandler.List)
	orderRoutes.GET("/number/:order_number", salesOrderHandler.GetByOrderNumber)
	orderRoutes.GET("/:id", salesOrderHandler.GetByID)
	orderRoutes.POST("/:id/approve", adminOnly, salesOrderHandler.Approve)
	orderRoutes.GET("/:id/purchase-orders", salesOrderHandler.ListPurchaseOrders)
	orderRoutes.POST("/:id/purchase-orders/retry", adminOnly, salesOrderHandler.RetryPurchaseOrders)
	orderRoutes.POST("/:id/cancel", salesOrAdmin, salesOrderHandler.Cancel)
	orderRoutes.POST("/:id/complete", salesOrAdmin, salesOrderHandler.Complete)
	orderRoutes.POST("/:id/override-status", adminOnly, salesOrderHandler.OverrideStatus)

	// Purchase orders
	poRoutes := router.NewDomainGroup("purchase-order", "/purchase-orders")
	poRoutes.GET("", purchaseOrderHandler.List)
	poRoutes.GET("/:id", purchaseOrderHandler.GetByID)
	poRoutes.POST("/:id/send", warehouseOrAdmin, purchaseOrderHandler.MarkSent)
	poRoutes.POST("/:id/receive", warehouseOrAdmin, purchaseOrderHandler.MarkReceived)
	poRoutes.POST("/:id/document", warehouseOrAdmin, purchaseOrderHandler.AttachDocument)
	poRoutes.PUT("/:id/estimated-delivery", warehouseOrAdmin, purchaseOrderHandler.SetEstimatedDelivery)

	// Partners
	clientRoutes := router.NewDomainGroup("client", "/clients")
	clientRoutes.POST("", salesOrAdmin, clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", salesOrAdmin, clientHandler.Update)
	clientRoutes.DELETE("/:id", adminOnly, clientHandler.Delete)

	supplierRoutes := router.NewDomainGroup("supplier", "/suppliers")
	supplierRoutes.POST("", salesOrAdmin, supplierHandler.Create)
	supplierRoutes.GET("", supplierHandler.List)
	supplierRoutes.GET("/:id", supplierHandler.GetByID)
	supplierRoutes.PUT("/:id", salesOrAdmin, supplierHandler.Update)
	supplierRoutes.DELETE("/:id", adminOnly, supplierHandler.Delete)

	// Notifications
	notificationRoutes := router.NewDomainGroup("notification", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.CountUnread)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.Info)

	r.Register(quoteRoutes, orderRoutes, poRoutes, clientRoutes, supplierRoutes, notificationRoutes, systemRoutes)
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

// healthHandler reports process and database liveness
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
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
