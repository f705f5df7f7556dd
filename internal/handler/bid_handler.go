package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/service"
	"github.com/addisware/procure-api/internal/utils"
)

// BidHandler exposes bid submission, listing and document download endpoints.
type BidHandler struct {
	service service.BidService
	logger  zerolog.Logger
}

// NewBidHandler constructs a bid handler.
func NewBidHandler(service service.BidService, logger zerolog.Logger) *BidHandler {
	return &BidHandler{
		service: service,
		logger:  logger.With().Str("component", "bid_handler").Logger(),
	}
}

// Register wires bid routes. Submission hangs off the tender resource;
// vendor-facing listing and download live under /bids.
func (h *BidHandler) Register(tenders, bids fiber.Router, protect, vendorOnly, adminOnly fiber.Handler) {
	tenders.Post("/:id/bids", protect, vendorOnly, h.submit)
	tenders.Get("/:id/bids", protect, adminOnly, h.listByTender)
	bids.Get("/mine", protect, h.listMine)
	bids.Get("/:id/download", protect, h.download)
}

func (h *BidHandler) submit(c *fiber.Ctx) error {
	tenderID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, apperr.ErrFileRequired.Error())
	}

	bid, err := h.service.Submit(c.UserContext(), tenderID, userIDFromContext(c), file)
	if err != nil {
		return h.handleError(c, err, "failed to submit bid")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "bid submitted", bid)
}

func (h *BidHandler) listMine(c *fiber.Ctx) error {
	bids, err := h.service.ListMine(c.UserContext(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list bids")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list bids")
	}

	return utils.SendSuccess(c, "bids", bids)
}

func (h *BidHandler) listByTender(c *fiber.Ctx) error {
	tenderID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid tender id")
	}

	bids, err := h.service.ListByTender(c.UserContext(), tenderID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list tender bids")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list bids")
	}

	return utils.SendSuccess(c, "bids", bids)
}

func (h *BidHandler) download(c *fiber.Ctx) error {
	bidID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid bid id")
	}

	reader, filename, err := h.service.Download(c.UserContext(), bidID, userIDFromContext(c), userRoleFromContext(c))
	if err != nil {
		return h.handleError(c, err, "failed to download bid document")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	// The body stream is consumed after the handler returns; fasthttp
	// closes it once fully read.
	return c.SendStream(reader)
}

func (h *BidHandler) handleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, apperr.ErrTenderNotFound),
		errors.Is(err, apperr.ErrBidNotFound),
		errors.Is(err, apperr.ErrBidFileMissing):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrBidExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrBiddingClosed), errors.Is(err, apperr.ErrBidDeadlinePast):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotBidOwner):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrFileRequired):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrFileTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, apperr.ErrFileTypeDenied):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
