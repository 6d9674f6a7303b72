package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garage-works/garage-orders-api/config"
	"github.com/garage-works/garage-orders-api/controllers"
	"github.com/garage-works/garage-orders-api/middleware"
	"github.com/garage-works/garage-orders-api/repository"
	"github.com/garage-works/garage-orders-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Garage Orders API server...", zap.String("env", cfg.GoEnv))

	db, err := config.ConnectDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	app, err := buildApp(context.Background(), cfg, db, logger)
	if err != nil {
		logger.Fatal("Failed to initialise services", zap.Error(err))
	}
	defer app.Close()

	auth, err := middleware.EnsureValidToken(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up authentication", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, db, app.controller, auth, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Server is running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// application holds the wired services and the resources to release
type application struct {
	controller *controllers.OrderController
	closers    []func() error
	log        *zap.Logger
}

// buildApp wires repositories and services. Kafka, Redis and S3 are
// only connected when configured.
func buildApp(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*application, error) {
	app := &application{log: logger}
	repos := repository.NewRepositories(db)

	var events services.EventPublisher
	if cfg.EventsEnabled() {
		publisher, err := services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		events = publisher
		app.closers = append(app.closers, publisher.Close)
		logger.Info("Order events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	var cache services.ViewCache
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cache = services.NewRedisViewCache(rdb, cfg.OrderCacheTTL, logger)
		app.closers = append(app.closers, rdb.Close)
		logger.Info("Order lookup cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	var photos *services.PhotoService
	if cfg.PhotosEnabled() {
		s3Service, err := services.NewS3Service(ctx, cfg, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		photos = services.NewPhotoService(repos.Orders, repos.Photos, s3Service, logger)
		logger.Info("Order photos enabled", zap.String("bucket", cfg.AWSS3Bucket))
	}

	orders := services.NewOrderService(repos.Orders, repos.Catalog, events, cache, photos, logger)
	app.controller = controllers.NewOrderController(orders, photos, logger)
	return app, nil
}

// Close releases broker and cache connections
func (a *application) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Warn("Failed to close resource", zap.Error(err))
		}
	}
}

// setupRouter builds the gin engine. auth guards every non-public route.
func setupRouter(cfg *config.Config, db *gorm.DB, ctl *controllers.OrderController, auth gin.HandlerFunc, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus(db))
	}
	controllers.RegisterOrderRoutes(v1, auth, ctl)

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	return c
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Garage Orders API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the underlying SQL database to check connection
		sqlDB, err := db.DB()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to get database instance",
				},
			})
			return
		}

		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}

		tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_QUERY_ERROR",
					"message": "Failed to query tables",
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Database connected",
			"tables":  tables,
		})
	}
}
