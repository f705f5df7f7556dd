package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/service"
	"github.com/addisware/procure-api/internal/utils"
)

// TenderHandler exposes the tender lifecycle endpoints.
type TenderHandler struct {
	service service.TenderService
	logger  zerolog.Logger
}

// NewTenderHandler constructs a tender handler.
func NewTenderHandler(service service.TenderService, logger zerolog.Logger) *TenderHandler {
	return &TenderHandler{
		service: service,
		logger:  logger.With().Str("component", "tender_handler").Logger(),
	}
}

// Register wires tender routes. Listings, detail and results are public;
// lifecycle mutations require an authenticated admin.
func (h *TenderHandler) Register(router fiber.Router, protect, adminOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.detail)
	router.Get("/:id/results", h.results)
	router.Post("", protect, adminOnly, h.create)
	router.Patch("/:id", protect, adminOnly, h.update)
	router.Post("/:id/cancel", protect, adminOnly, h.cancel)
	router.Post("/:id/close", protect, adminOnly, h.close)
	router.Post("/:id/award", protect, adminOnly, h.award)
}

func (h *TenderHandler) list(c *fiber.Ctx) error {
	var filter dto.TenderFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}

	tenders, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tenders")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list tenders")
	}

	return utils.SendSuccess(c, "tenders", tenders)
}

func (h *TenderHandler) detail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	tender, err := h.service.Detail(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "failed to load tender")
	}

	return utils.SendSuccess(c, "tender", tender)
}

func (h *TenderHandler) results(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	results, err := h.service.Results(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "failed to load results")
	}

	return utils.SendSuccess(c, "results", results)
}

func (h *TenderHandler) create(c *fiber.Ctx) error {
	var payload dto.TenderCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	tender, err := h.service.Create(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to create tender")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tender published", tender)
}

func (h *TenderHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	var payload dto.TenderUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	tender, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update tender")
	}

	return utils.SendSuccess(c, "tender updated", tender)
}

func (h *TenderHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	tender, err := h.service.Cancel(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "failed to cancel tender")
	}

	return utils.SendSuccess(c, "tender cancelled", tender)
}

func (h *TenderHandler) close(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	tender, err := h.service.Close(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err, "failed to close tender")
	}

	return utils.SendSuccess(c, "tender closed", tender)
}

func (h *TenderHandler) award(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	var payload dto.AwardRequest
	if err := c.BodyParser(&payload); err != nil || payload.BidID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	award, err := h.service.Award(c.UserContext(), id, payload.BidID)
	if err != nil {
		return h.handleError(c, err, "failed to award tender")
	}

	return utils.SendSuccess(c, "tender awarded", award)
}

func (h *TenderHandler) handleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	// Bad arguments are 400; lifecycle-state refusals are 409.
	case errors.Is(err, apperr.ErrInvalidDeadline),
		errors.Is(err, apperr.ErrDeadlineTooSoon),
		errors.Is(err, apperr.ErrBidNotEvaluated):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrTenderNotFound), errors.Is(err, apperr.ErrBidNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrTenderNotOpen),
		errors.Is(err, apperr.ErrDeadlinePassed),
		errors.Is(err, apperr.ErrTenderNotAwardable),
		errors.Is(err, apperr.ErrTenderCancelled),
		errors.Is(err, apperr.ErrAlreadyAwarded):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
