package http

import (
	"context"
	"time"

	"github.com/annotation-microservice/internal/config"
	"github.com/annotation-microservice/internal/delivery/http/handler"
	"github.com/annotation-microservice/internal/delivery/http/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// HealthChecker reports readiness of a backing service.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server is the Fiber HTTP front of the annotation service.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	annotationHandler *handler.AnnotationHandler
	templateHandler   *handler.TemplateHandler
	suggestHandler    *handler.SuggestHandler

	// Health checks
	db    HealthChecker
	cache HealthChecker
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	annotationHandler *handler.AnnotationHandler,
	templateHandler *handler.TemplateHandler,
	suggestHandler *handler.SuggestHandler,
	db HealthChecker,
	cache HealthChecker,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Annotation Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:               app,
		config:            cfg,
		logger:            logger,
		annotationHandler: annotationHandler,
		templateHandler:   templateHandler,
		suggestHandler:    suggestHandler,
		db:                db,
		cache:             cache,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(middleware.Actor())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Annotation routes
	api.Get("/geometries", s.annotationHandler.GetGeometries)
	api.Post("/annotate", s.annotationHandler.Annotate)
	api.Post("/delete-annotation", s.annotationHandler.DeleteAnnotation)
	api.Post("/search", s.annotationHandler.Search)

	// Template routes
	api.Get("/resource-templates", s.templateHandler.GetResourceTemplates)

	// Suggest proxy
	api.Get("/suggest", s.suggestHandler.Suggest)
}

// health godoc
// @Summary Service health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	status := fiber.StatusOK
	checks := fiber.Map{
		"database": "healthy",
		"cache":    "healthy",
	}

	if err := s.db.Health(c.Context()); err != nil {
		status = fiber.StatusServiceUnavailable
		checks["database"] = "unhealthy"
	}
	if err := s.cache.Health(c.Context()); err != nil {
		status = fiber.StatusServiceUnavailable
		checks["cache"] = "unhealthy"
	}

	overall := "healthy"
	if status != fiber.StatusOK {
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": checks,
		"time":   time.Now(),
	})
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
