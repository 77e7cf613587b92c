package hosting

import (
	"fmt"
	"log/slog"

	"github.com/cleriovision/musicdb/src/features/config"
	"github.com/cleriovision/musicdb/src/features/importing"
	"github.com/cleriovision/musicdb/src/features/jobs"
	"github.com/cleriovision/musicdb/src/features/library"
	"github.com/cleriovision/musicdb/src/features/metrics"
	"github.com/cleriovision/musicdb/src/features/reports"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server with every feature's routes registered.
func NewServer(cfg *config.Manager, importingService *importing.Service, libraryService *library.Service, reportsService *reports.Service, jobService *jobs.Service, registry *prometheus.Registry) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				fiberErr = e
				code = e.Code
			}
			if fiberErr == nil || code >= 500 {
				slog.Error("Internal Server Error", "error", err, "path", c.Path())
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "MusicDB",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := libraryService.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	importing.RegisterRoutes(app, importingService, jobService)
	library.RegisterRoutes(app, libraryService)
	reports.RegisterRoutes(app, reportsService)
	config.RegisterRoutes(app, cfg)
	jobs.RegisterRoutes(app, jobService)
	metrics.RegisterRoutes(app, registry)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
