package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcontract "github.com/buildcore/backend/internal/application/contract"
	appcostplan "github.com/buildcore/backend/internal/application/costplan"
	appproject "github.com/buildcore/backend/internal/application/project"
	apptreasury "github.com/buildcore/backend/internal/application/treasury"
	"github.com/buildcore/backend/internal/domain/shared"
	"github.com/buildcore/backend/internal/domain/treasury"
	"github.com/buildcore/backend/internal/infrastructure/auth"
	"github.com/buildcore/backend/internal/infrastructure/cache"
	"github.com/buildcore/backend/internal/infrastructure/config"
	"github.com/buildcore/backend/internal/infrastructure/event"
	"github.com/buildcore/backend/internal/infrastructure/logger"
	"github.com/buildcore/backend/internal/infrastructure/persistence"
	"github.com/buildcore/backend/internal/interfaces/http/handler"
	"github.com/buildcore/backend/internal/interfaces/http/middleware"
	"github.com/buildcore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

	log.Info("Starting BuildCore Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize repositories
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	accountRepo := persistence.NewGormCashAccountRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	costTargetRepo := persistence.NewGormCostTargetRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)

	// Initialize idempotency store (Redis with in-memory fallback)
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idemStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize event bus with audit logging
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize application services
	idemCfg := shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: cfg.Idempotency.Enabled,
	}
	txService := apptreasury.NewTransactionService(apptreasury.TransactionServiceConfig{
		TxRepo:      txRepo,
		AccountRepo: accountRepo,
		Publisher:   eventBus,
		Idempotency: idemStore,
		IdemConfig:  &idemCfg,
		Logger:      log,
	})
	accountService := apptreasury.NewAccountService(accountRepo, txRepo)
	contractService := appcontract.NewContractService(contractRepo, txRepo, eventBus, log)
	planService := appcostplan.NewPlanService(costTargetRepo, txRepo, contractRepo, log)
	projectService := appproject.NewProjectService(projectRepo, partnerRepo)

	// Initialize handlers
	txHandler := handler.NewTransactionHandler(txService)
	accountHandler := handler.NewAccountHandler(accountService)
	contractHandler := handler.NewContractHandler(contractService)
	costPlanHandler := handler.NewCostPlanHandler(planService)
	projectHandler := handler.NewProjectHandler(projectService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name)

	// Configure gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Middleware order: request ID first so recovery and logging can
	// attach it to everything they emit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	// Treasury domain (transactions, cash accounts)
	treasuryRoutes := router.NewDomainGroup("treasury", "/treasury")
	treasuryRoutes.POST("/transactions", txHandler.Create)
	treasuryRoutes.GET("/transactions", txHandler.List)
	treasuryRoutes.GET("/transactions/:id", txHandler.GetByID)
	treasuryRoutes.PUT("/transactions/:id", txHandler.Update)
	treasuryRoutes.DELETE("/transactions/:id", txHandler.Delete)
	treasuryRoutes.POST("/transactions/:id/submit", txHandler.Submit)
	treasuryRoutes.POST("/transactions/:id/approve",
		middleware.RequirePermission(string(treasury.PermApprove)), txHandler.Approve)
	treasuryRoutes.POST("/transactions/:id/reject",
		middleware.RequirePermission(string(treasury.PermApprove)), txHandler.Reject)
	treasuryRoutes.POST("/transactions/:id/pay",
		middleware.RequirePermission(string(treasury.PermPay)), txHandler.Pay)
	treasuryRoutes.POST("/transactions/:id/confirm",
		middleware.RequirePermission(string(treasury.PermPay)), txHandler.Confirm)
	treasuryRoutes.POST("/accounts", accountHandler.Create)
	treasuryRoutes.GET("/accounts", accountHandler.List)
	treasuryRoutes.GET("/accounts/:id", accountHandler.GetByID)
	treasuryRoutes.PUT("/accounts/:id", accountHandler.Update)
	treasuryRoutes.POST("/accounts/:id/close", accountHandler.Close)
	r.Register(treasuryRoutes)

	// Contract domain
	contractRoutes := router.NewDomainGroup("contract", "/contracts")
	contractRoutes.POST("", contractHandler.Create)
	contractRoutes.GET("", contractHandler.List)
	contractRoutes.GET("/:id", contractHandler.GetByID)
	contractRoutes.PUT("/:id", contractHandler.Update)
	contractRoutes.DELETE("/:id", contractHandler.Delete)
	contractRoutes.POST("/:id/sign", contractHandler.Sign)
	contractRoutes.POST("/:id/complete", contractHandler.Complete)
	contractRoutes.GET("/:id/reconciliation", contractHandler.Reconcile)
	r.Register(contractRoutes)

	// Cost plan domain (targets, tax-balance estimates)
	costPlanRoutes := router.NewDomainGroup("costplan", "/costplan")
	costPlanRoutes.POST("/targets", costPlanHandler.CreateTarget)
	costPlanRoutes.GET("/targets", costPlanHandler.ListTargets)
	costPlanRoutes.PUT("/targets/:id", costPlanHandler.UpdateTarget)
	costPlanRoutes.DELETE("/targets/:id", costPlanHandler.DeleteTarget)
	costPlanRoutes.POST("/estimate", costPlanHandler.Estimate)
	r.Register(costPlanRoutes)

	// Project domain (projects, partners)
	projectRoutes := router.NewDomainGroup("project", "/projects")
	projectRoutes.POST("", projectHandler.CreateProject)
	projectRoutes.GET("", projectHandler.ListProjects)
	projectRoutes.GET("/:id", projectHandler.GetProjectByID)
	projectRoutes.PUT("/:id", projectHandler.UpdateProject)
	projectRoutes.PUT("/:id/contract-value", projectHandler.SetContractValue)
	projectRoutes.POST("/:id/start", projectHandler.StartProject)
	projectRoutes.POST("/:id/complete", projectHandler.CompleteProject)
	r.Register(projectRoutes)

	partnerRoutes := router.NewDomainGroup("partner", "/partners")
	partnerRoutes.POST("", projectHandler.CreatePartner)
	partnerRoutes.GET("", projectHandler.ListPartners)
	partnerRoutes.GET("/:id", projectHandler.GetPartnerByID)
	partnerRoutes.PUT("/:id", projectHandler.UpdatePartner)
	partnerRoutes.DELETE("/:id", projectHandler.DeletePartner)
	r.Register(partnerRoutes)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

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

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
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
