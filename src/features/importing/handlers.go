package importing

import (
	"log/slog"

	"github.com/cleriovision/musicdb/src/features/jobs"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the importing feature.
type Handler struct {
	service    *Service
	jobService *jobs.Service
}

// NewHandler creates a new handler for the importing feature.
func NewHandler(service *Service, jobService *jobs.Service) *Handler {
	return &Handler{service: service, jobService: jobService}
}

// ImportDirectory is the handler for importing a directory.
func (h *Handler) ImportDirectory(c *fiber.Ctx) error {
	type ImportPathRequest struct {
		DirectoryPath string `json:"directoryPath"`
	}
	var req ImportPathRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot parse request body",
		})
	}
	if req.DirectoryPath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "directoryPath is required",
		})
	}
	jobID, err := h.service.ImportDirectory(c.Context(), req.DirectoryPath)
	if err != nil {
		slog.Error("Error importing directory", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start directory import job",
		})
	}
	slog.Info("ImportDirectory: directory import started", "jobID", jobID)
	return c.JSON(fiber.Map{"job_id": jobID})
}

// ToggleWatcher toggles the file system watcher on/off
func (h *Handler) ToggleWatcher(c *fiber.Ctx) error {
	type WatcherRequest struct {
		Action string `json:"action"`
	}
	var req WatcherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot parse request body",
		})
	}

	switch req.Action {
	case "start":
		if err := h.service.StartWatcher(c.Context()); err != nil {
			slog.Error("Failed to start watcher", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start file watcher",
			})
		}
		return c.JSON(fiber.Map{"message": "File watcher started successfully"})
	case "stop":
		h.service.StopWatcher()
		return c.JSON(fiber.Map{"message": "File watcher stopped successfully"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid action, use 'start' or 'stop'",
		})
	}
}

// GetWatcherStatus returns the current status of the watcher
func (h *Handler) GetWatcherStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"running": h.service.WatcherRunning()})
}
