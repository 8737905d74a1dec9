package inventory

import (
	"errors"
	"net/url"

	inv "bitbackup/core/inventory"
	"bitbackup/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Get("/", h.HandleSummary)
	group.Get("/integrity", h.HandleIntegrity)
	group.Get("/files", h.HandleListFiles)
	group.Get("/files/*", h.HandleGetFile)
}

// HandleSummary returns record counts, the latest check date and the version marker.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	summary, err := h.service.Summary(c.Context())
	if err != nil {
		l.Error("Inventory summary failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleListFiles lists records, filtered by ?result=OK|KO when given.
func (h *Handler) HandleListFiles(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	files, err := h.service.Files(c.Context(), c.Query("result"))
	if errors.Is(err, ErrInvalidResult) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		l.Error("Inventory listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"count": len(files),
		"files": files,
	})
}

// HandleGetFile returns the record of one root-relative path.
func (h *Handler) HandleGetFile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	path, err := url.PathUnescape(c.Params("*"))
	if err != nil || path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid path",
		})
	}

	file, err := h.service.File(c.Context(), path)
	if errors.Is(err, inv.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not tracked",
			"path":  path,
		})
	}
	if err != nil {
		l.Error("Inventory lookup failed", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(file)
}

// HandleIntegrity verifies the store digest. A failed verification answers 409.
func (h *Handler) HandleIntegrity(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report := h.service.Integrity()
	switch report.Status {
	case StatusCorrupted:
		l.Warn("Inventory digest mismatch", zap.String("error", report.Error))
		return c.Status(fiber.StatusConflict).JSON(report)
	case StatusError:
		l.Error("Inventory verification failed", zap.String("error", report.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(report)
	}
	return c.JSON(report)
}
