package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nosvasedis/ilios/internal/catalog/entity"
	"github.com/nosvasedis/ilios/internal/catalog/handler"
	"github.com/nosvasedis/ilios/internal/catalog/repository"
	"github.com/nosvasedis/ilios/internal/catalog/service"
	"github.com/nosvasedis/ilios/internal/config"
	"github.com/nosvasedis/ilios/internal/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting ilios catalog service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Product{},
		&entity.RecipeItem{},
		&entity.ProductVariant{},
		&entity.Material{},
		&entity.GlobalSettings{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db, rdb)

	// First boot: seed the rates row from configuration so the engine
	// never runs without a settings snapshot.
	if err := repos.Settings.Seed(context.Background(), entity.GlobalSettings{
		SilverPriceGram: cfg.Costing.SilverPriceGram,
		CastingRateGram: cfg.Costing.CastingRateGram,
		PlatingRateGram: cfg.Costing.PlatingRateGram,
	}); err != nil {
		zapLogger.Warn("Failed to seed settings", zap.Error(err))
	}

	services := service.NewServices(repos, service.OptionsFromConfig(cfg.Costing), zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1/catalog")

	// SSE supports query param token for EventSource clients
	sseGroup := v1.Group("/sse")
	sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		sseGroup.GET("/events", h.SSE.Stream)
	}

	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		products := authorized.Group("/products")
		{
			products.GET("", h.Product.List)
			products.POST("", h.Product.Create)
			products.POST("/recompute", h.Product.RecomputeAll)
			products.GET("/:sku", h.Product.Get)
			products.PUT("/:sku", h.Product.Update)
			products.DELETE("/:sku", h.Product.Delete)
			products.PUT("/:sku/recipe", h.Product.SaveRecipe)
			products.GET("/:sku/cost", h.Product.Cost)
			products.POST("/:sku/variants", h.Product.AddVariant)
			products.POST("/:sku/reconcile", h.Product.Reconcile)
		}
		authorized.DELETE("/variants/:id", h.Product.RemoveVariant)

		materials := authorized.Group("/materials")
		{
			materials.GET("", h.Material.List)
			materials.POST("", h.Material.Create)
			materials.GET("/:id", h.Material.Get)
			materials.PUT("/:id", h.Material.Update)
			materials.DELETE("/:id", h.Material.Delete)
		}

		settings := authorized.Group("/settings")
		{
			settings.GET("", h.Settings.Get)
			settings.PUT("", middleware.RequireRole("registry_admin"), h.Settings.Update)
		}

		pricing := authorized.Group("/pricing")
		{
			pricing.GET("/resolve", h.Pricing.Resolve)
			pricing.GET("/analyze", h.Pricing.Analyze)
			pricing.GET("/estimate/:sku", h.Pricing.EstimateVariant)
			pricing.POST("/supplier/:sku", h.Pricing.AnalyzeSupplier)
			pricing.GET("/reprice/:sku", h.Pricing.Reprice)
		}

		authorized.GET("/pricelist/export", h.PriceList.Export)
	}
}
