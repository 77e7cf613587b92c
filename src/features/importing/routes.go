package importing

import (
	"github.com/cleriovision/musicdb/src/features/jobs"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the importing feature.
func RegisterRoutes(app *fiber.App, service *Service, jobService *jobs.Service) {
	handler := NewHandler(service, jobService)

	imp := app.Group("/import")
	imp.Post("/directory", handler.ImportDirectory)
	imp.Post("/watcher/toggle", handler.ToggleWatcher)
	imp.Get("/watcher/status", handler.GetWatcherStatus)
}
