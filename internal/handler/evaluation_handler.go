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

// EvaluationHandler exposes bid scoring endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires evaluation routes. Recording a score is admin only.
func (h *EvaluationHandler) Register(router fiber.Router, protect, adminOnly fiber.Handler) {
	router.Get("", protect, h.list)
	router.Post("", protect, adminOnly, h.evaluate)
}

func (h *EvaluationHandler) list(c *fiber.Ctx) error {
	evaluations, err := h.service.List(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list evaluations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list evaluations")
	}

	return utils.SendSuccess(c, "evaluations", evaluations)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	evaluation, err := h.service.Evaluate(c.UserContext(), payload)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrScoreOutOfRange):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, apperr.ErrBidNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record evaluation")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record evaluation")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation recorded", evaluation)
}
