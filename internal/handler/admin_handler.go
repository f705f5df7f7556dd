package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/service"
	"github.com/addisware/procure-api/internal/utils"
)

// AdminHandler exposes the admin dashboard endpoints.
type AdminHandler struct {
	stats  service.StatsService
	logger zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(stats service.StatsService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		stats:  stats,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires admin routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/stats", h.getStats)
}

func (h *AdminHandler) getStats(c *fiber.Ctx) error {
	stats, err := h.stats.GetStats(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to aggregate stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load stats")
	}

	return utils.SendSuccess(c, "stats", stats)
}
