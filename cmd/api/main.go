package main

// @title Annotation Microservice API
// @version 1.0.0
// @description Microservice for spatial annotations on geolocated resources and their media. Annotations carry a WKT geometry target plus template-driven metadata bodies, and can be searched with point-radius, bounding-box or WKT spatial filters backed by PostGIS.
// @description
// @description Main capabilities:
// @description - Listing annotation geometries of a resource, optionally scoped to one media part
// @description - Creating and fully replacing annotations with schema-driven metadata
// @description - Spatial search over the geometry index with normalized query groups
// @description - Short resource-template schemas for the describe and locate contexts
// @description - Autocomplete proxy for valuesuggest properties

// @contact.name API Support
// @contact.email support@annotation-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/annotation-microservice/docs/swagger"
	"github.com/annotation-microservice/internal/config"
	httpDelivery "github.com/annotation-microservice/internal/delivery/http"
	"github.com/annotation-microservice/internal/delivery/http/handler"
	"github.com/annotation-microservice/internal/infrastructure/suggest"
	"github.com/annotation-microservice/internal/pkg/logger"
	"github.com/annotation-microservice/internal/repository/cache"
	"github.com/annotation-microservice/internal/repository/postgres"
	"github.com/annotation-microservice/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Annotation Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	annotationRepo := postgres.NewAnnotationRepository(db)
	propertyRepo := postgres.NewPropertyRepository(db)
	resourceRepo := postgres.NewResourceRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	suggestRepo := suggest.NewSuggestClient(&cfg.Suggest, log)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	normalizer := usecase.NewQueryNormalizer(
		propertyRepo,
		cacheRepo,
		cfg.Cache.PropertyCacheTTL,
		log,
	)

	schemaUC := usecase.NewSchemaUseCase(
		templateRepo,
		propertyRepo,
		cacheRepo,
		cfg.Cache.SchemaCacheTTL,
		log,
	)

	annotationUC := usecase.NewAnnotationUseCase(
		annotationRepo,
		resourceRepo,
		schemaUC,
		normalizer,
		cfg.Annotate,
		log,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	annotationHandler := handler.NewAnnotationHandler(annotationUC, log)
	templateHandler := handler.NewTemplateHandler(annotationUC, log)
	suggestHandler := handler.NewSuggestHandler(suggestRepo, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		annotationHandler,
		templateHandler,
		suggestHandler,
		db,
		redisClient,
	)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
