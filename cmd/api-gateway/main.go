package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/library-purchase-api/api/swagger"
	"github.com/noah-isme/library-purchase-api/internal/handler"
	"github.com/noah-isme/library-purchase-api/internal/middleware"
	"github.com/noah-isme/library-purchase-api/internal/models"
	"github.com/noah-isme/library-purchase-api/internal/repository"
	"github.com/noah-isme/library-purchase-api/internal/service"
	"github.com/noah-isme/library-purchase-api/pkg/cache"
	"github.com/noah-isme/library-purchase-api/pkg/config"
	"github.com/noah-isme/library-purchase-api/pkg/database"
	"github.com/noah-isme/library-purchase-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/library-purchase-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/library-purchase-api/pkg/middleware/requestid"
)

// @title Library Purchase API
// @version 1.0.0
// @description Book purchase workflow service for the academic library
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, history cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	sheetRepo := repository.NewSheetRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	comparisonRepo := repository.NewComparisonRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "library-purchase-api",
	})
	userService := service.NewUserService(userRepo, logr)
	requestService := service.NewRequestService(requestRepo, logr)
	sheetService := service.NewSheetService(sheetRepo, requestRepo, userRepo, userRepo, logr)
	comparisonService := service.NewComparisonService(comparisonRepo, sheetRepo, requestRepo, userRepo, logr)
	consolidationService := service.NewConsolidationService(requestRepo, sheetRepo, userRepo, userRepo, logr)
	finalizeService := service.NewFinalizeService(purchaseRepo, sheetRepo, requestRepo, comparisonRepo, userRepo, logr)
	cycleService := service.NewCycleService(historyRepo, purchaseRepo, requestRepo, sheetRepo, cacheRepo, metricsService, userRepo, service.CycleConfig{
		CacheEnabled: cfg.History.CacheEnabled,
		CacheTTL:     cfg.History.CacheTTL,
	}, logr)

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		exportService = service.NewExportService(purchaseRepo, historyRepo, logr, nil, nil)
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService)
	comparisonHandler := handler.NewComparisonHandler(comparisonService)
	sheetHandler := handler.NewSheetHandler(sheetService, consolidationService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	var finalizeHandler *handler.FinalizeHandler
	var historyHandler *handler.HistoryHandler
	if exportService != nil {
		finalizeHandler = handler.NewFinalizeHandler(finalizeService, exportService)
		historyHandler = handler.NewHistoryHandler(cycleService, exportService)
	} else {
		finalizeHandler = handler.NewFinalizeHandler(finalizeService, nil)
		historyHandler = handler.NewHistoryHandler(cycleService, nil)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	users := protected.Group("/users")
	{
		users.GET("/teachers", adminOnly, userHandler.ListTeachers)
	}

	sheets := protected.Group("/sheets")
	{
		sheets.GET("", sheetHandler.List)
		sheets.POST("", adminOnly, sheetHandler.Create)
		sheets.POST("/consolidate", adminOnly, sheetHandler.Consolidate)
		sheets.GET("/:id", sheetHandler.Get)
		sheets.GET("/:id/requests", requestHandler.ListBySheet)
		sheets.POST("/:id/compare", adminOnly, sheetHandler.MoveToComparing)
	}

	requests := protected.Group("/requests")
	{
		requests.POST("", requestHandler.Create)
		requests.GET("/mine", requestHandler.ListMine)
		requests.PUT("/:id", requestHandler.Update)
		requests.DELETE("/:id", requestHandler.Delete)
	}

	comparisons := protected.Group("/comparisons")
	comparisons.Use(adminOnly)
	{
		comparisons.GET("/board", comparisonHandler.Board)
		comparisons.PUT("/prices", comparisonHandler.SavePrices)
	}

	purchases := protected.Group("/purchases")
	purchases.Use(adminOnly)
	{
		purchases.GET("", finalizeHandler.List)
		purchases.GET("/export", finalizeHandler.Export)
		purchases.POST("/finalize", finalizeHandler.FinalizeSelected)
		purchases.POST("/finalize-all", finalizeHandler.FinalizeAll)
		purchases.POST("/:id/move-back", finalizeHandler.MoveBack)
	}

	history := protected.Group("/history")
	history.Use(adminOnly)
	{
		history.POST("/close", historyHandler.CloseCycle)
		history.GET("/cycles", historyHandler.ListCycles)
		history.GET("/cycles/:id", historyHandler.CyclePurchases)
		history.GET("/cycles/:id/export", historyHandler.ExportCycle)
		history.DELETE("/cycles/:id", middleware.RequireRoles(models.RoleSuperAdmin), historyHandler.DeleteCycle)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		admin.GET("/metrics/snapshot", metricsHandler.Snapshot)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
