package safebrowsing

import (
	"sb-verify/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for verification reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the safebrowsing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/safebrowsing")
	group.Get("/verify", h.HandleVerify)
	group.Get("/verify/:list", h.HandleVerifyList)
}

// HandleVerify returns the full verification report. The report may come
// from the TTL cache; decoding both profiles can take a while on first hit.
func (h *Handler) HandleVerify(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Verification report requested")

	report, err := h.service.Report(c.Context())
	if err != nil {
		l.Error("Verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Verification report ready",
		zap.String("run_id", report.RunID),
		zap.Int("total_lists", report.Summary.TotalLists),
		zap.Int("consistent_lists", report.Summary.ConsistentLists),
		zap.Bool("failed", report.Failed()),
	)
	return c.JSON(report)
}

// HandleVerifyList returns the report entry for a single list.
func (h *Handler) HandleVerifyList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := c.Params("list")

	list, err := h.service.ListReport(c.Context(), name)
	if err != nil {
		l.Error("Verification failed", zap.Error(err), zap.String("list", name))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if list == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown list", "list": name})
	}

	return c.JSON(list)
}
