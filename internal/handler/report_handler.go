package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/service"
	"github.com/addisware/procure-api/internal/utils"
)

// ReportHandler exposes the admin reporting endpoints: a JSON summary and
// three CSV exports, each accepting an optional ?range=N[dwm] window.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires report routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
	router.Get("/tenders.csv", h.tendersCSV)
	router.Get("/bids.csv", h.bidsCSV)
	router.Get("/evaluations.csv", h.evaluationsCSV)
}

func (h *ReportHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext(), c.Query("range"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build report summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build summary")
	}

	return utils.SendSuccess(c, "summary", summary)
}

func (h *ReportHandler) tendersCSV(c *fiber.Ctx) error {
	csv, err := h.service.TendersCSV(c.UserContext(), c.Query("range"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export tenders")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export tenders")
	}

	return sendCSV(c, "tenders.csv", csv)
}

func (h *ReportHandler) bidsCSV(c *fiber.Ctx) error {
	csv, err := h.service.BidsCSV(c.UserContext(), c.Query("range"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export bids")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export bids")
	}

	return sendCSV(c, "bids.csv", csv)
}

func (h *ReportHandler) evaluationsCSV(c *fiber.Ctx) error {
	csv, err := h.service.EvaluationsCSV(c.UserContext(), c.Query("range"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export evaluations")
	}

	return sendCSV(c, "evaluations.csv", csv)
}

func sendCSV(c *fiber.Ctx, filename, body string) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.SendString(body)
}
