package reports

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the reports feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	reports := app.Group("/reports")
	reports.Get("/library", handler.GetFullReport)
	reports.Get("/artist", handler.GetArtistReport)
}
