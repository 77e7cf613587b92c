package reports

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the reports feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the reports feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetFullReport returns a report over the whole catalog. Use fmt=text for a
// plain-text rendering.
func (h *Handler) GetFullReport(c *fiber.Ctx) error {
	report, err := h.service.FullReport(c.Context())
	if err != nil {
		slog.Error("Error building full report", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build report"})
	}

	if c.Query("fmt") == "text" {
		c.Set("Content-Type", "text/plain")
		return c.SendString(report.RenderText())
	}
	return c.JSON(report)
}

// GetArtistReport returns a report for one artist by name.
func (h *Handler) GetArtistReport(c *fiber.Ctx) error {
	artistName := c.Query("artist")
	if artistName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "artist parameter required"})
	}

	report, err := h.service.ArtistReport(c.Context(), artistName)
	if err != nil {
		slog.Error("Error building artist report", "artist", artistName, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build report"})
	}

	if c.Query("fmt") == "text" {
		c.Set("Content-Type", "text/plain")
		return c.SendString(report.RenderText())
	}
	return c.JSON(report)
}
