package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/observability"
	"github.com/addisware/procure-api/internal/repository"
)

// Regulatory minimum between publication and bidding deadline.
const minDeadlineLead = 30 * 24 * time.Hour

// TenderService owns the tender lifecycle: creation, updates, the passive
// expiry sweep, cancellation, closing, award and public results.
type TenderService interface {
	List(ctx context.Context, filter dto.TenderFilter) ([]dto.TenderResponse, error)
	Detail(ctx context.Context, id uint) (dto.TenderResponse, error)
	Create(ctx context.Context, payload dto.TenderCreateRequest) (dto.TenderResponse, error)
	Update(ctx context.Context, id uint, payload dto.TenderUpdateRequest) (dto.TenderResponse, error)
	Cancel(ctx context.Context, id uint) (dto.TenderResponse, error)
	Close(ctx context.Context, id uint) (dto.TenderResponse, error)
	Award(ctx context.Context, tenderID, bidID uint) (dto.AwardResponse, error)
	Results(ctx context.Context, tenderID uint) ([]dto.TenderResultEntry, error)
}

type tenderService struct {
	tenders     repository.TenderRepository
	bids        repository.BidRepository
	evaluations repository.EvaluationRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewTenderService constructs a TenderService instance.
func NewTenderService(tenders repository.TenderRepository, bids repository.BidRepository, evaluations repository.EvaluationRepository, validate *validator.Validate, logger zerolog.Logger) TenderService {
	return &tenderService{
		tenders:     tenders,
		bids:        bids,
		evaluations: evaluations,
		validator:   validate,
		logger:      logger.With().Str("component", "tender_service").Logger(),
		tracer:      otel.Tracer("github.com/addisware/procure-api/internal/service/tender"),
		now:         time.Now,
	}
}

func (s *tenderService) List(ctx context.Context, filter dto.TenderFilter) ([]dto.TenderResponse, error) {
	// Sweep first so no OPEN tender past its deadline is ever returned.
	if err := s.tenders.CloseExpired(ctx, s.now()); err != nil {
		return nil, fmt.Errorf("failed to close expired tenders: %w", err)
	}

	tenders, err := s.tenders.List(ctx, repository.TenderFilter{
		Search:   filter.Search,
		OpenOnly: filter.OpenOnly,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewTenderResponseSlice(tenders), nil
}

func (s *tenderService) Detail(ctx context.Context, id uint) (dto.TenderResponse, error) {
	tender, err := s.getTender(ctx, id)
	if err != nil {
		return dto.TenderResponse{}, err
	}

	// Lazy expiry applies on single reads as well as listings. The
	// transition writes only the status column and re-reads the row, so a
	// concurrently committed award is never overwritten.
	if tender.IsOpen() && tender.IsExpired(s.now()) {
		if _, err := s.tenders.CloseIfOpen(ctx, id); err != nil {
			return dto.TenderResponse{}, err
		}
		if tender, err = s.getTender(ctx, id); err != nil {
			return dto.TenderResponse{}, err
		}
	}

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Create(ctx context.Context, payload dto.TenderCreateRequest) (dto.TenderResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TenderResponse{}, err
	}

	deadline, err := parseDeadline(payload.Deadline)
	if err != nil {
		return dto.TenderResponse{}, err
	}

	if err := s.validateDeadline(deadline); err != nil {
		return dto.TenderResponse{}, err
	}

	tender := models.Tender{
		Title:       payload.Title,
		Description: payload.Description,
		Deadline:    deadline,
		Status:      models.TenderStatusOpen,
	}

	if err := s.tenders.Create(ctx, &tender); err != nil {
		return dto.TenderResponse{}, err
	}

	s.logger.Info().Uint("tender_id", tender.ID).Time("deadline", tender.Deadline).Msg("tender published")

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Update(ctx context.Context, id uint, payload dto.TenderUpdateRequest) (dto.TenderResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TenderResponse{}, err
	}

	tender, err := s.getTender(ctx, id)
	if err != nil {
		return dto.TenderResponse{}, err
	}

	if !tender.IsOpen() {
		return dto.TenderResponse{}, apperr.ErrTenderNotOpen
	}
	if tender.IsExpired(s.now()) {
		return dto.TenderResponse{}, apperr.ErrDeadlinePassed
	}

	if payload.Title != nil {
		tender.Title = *payload.Title
	}
	if payload.Description != nil {
		tender.Description = *payload.Description
	}
	if payload.Deadline != nil {
		deadline, err := parseDeadline(*payload.Deadline)
		if err != nil {
			return dto.TenderResponse{}, err
		}
		if err := s.validateDeadline(deadline); err != nil {
			return dto.TenderResponse{}, err
		}
		tender.Deadline = deadline
	}

	if err := s.tenders.Update(ctx, &tender); err != nil {
		return dto.TenderResponse{}, err
	}

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Cancel(ctx context.Context, id uint) (dto.TenderResponse, error) {
	tender, err := s.getTender(ctx, id)
	if err != nil {
		return dto.TenderResponse{}, err
	}

	if !tender.IsOpen() {
		return dto.TenderResponse{}, apperr.ErrTenderNotOpen
	}
	if tender.IsExpired(s.now()) {
		return dto.TenderResponse{}, apperr.ErrDeadlinePassed
	}

	tender.Status = models.TenderStatusCancelled
	if err := s.tenders.Update(ctx, &tender); err != nil {
		return dto.TenderResponse{}, err
	}

	s.logger.Info().Uint("tender_id", tender.ID).Msg("tender cancelled")

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Close(ctx context.Context, id uint) (dto.TenderResponse, error) {
	tender, err := s.getTender(ctx, id)
	if err != nil {
		return dto.TenderResponse{}, err
	}

	if !tender.IsOpen() {
		return dto.TenderResponse{}, apperr.ErrTenderNotOpen
	}

	closed, err := s.tenders.CloseIfOpen(ctx, id)
	if err != nil {
		return dto.TenderResponse{}, err
	}
	if !closed {
		return dto.TenderResponse{}, apperr.ErrTenderNotOpen
	}

	if tender, err = s.getTender(ctx, id); err != nil {
		return dto.TenderResponse{}, err
	}

	s.logger.Info().Uint("tender_id", tender.ID).Msg("tender closed")

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Award(ctx context.Context, tenderID, bidID uint) (dto.AwardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "tender.award")
	defer span.End()
	span.SetAttributes(
		attribute.Int("tender.id", int(tenderID)),
		attribute.Int("bid.id", int(bidID)),
	)

	tender, err := s.getTender(ctx, tenderID)
	if err != nil {
		span.SetStatus(codes.Error, "tender lookup failed")
		return dto.AwardResponse{}, err
	}

	if tender.Status == models.TenderStatusCancelled {
		return dto.AwardResponse{}, apperr.ErrTenderCancelled
	}
	if tender.WinningBidID != nil {
		return dto.AwardResponse{}, apperr.ErrAlreadyAwarded
	}
	if tender.Status != models.TenderStatusClosed && !tender.IsExpired(s.now()) {
		return dto.AwardResponse{}, apperr.ErrTenderNotAwardable
	}

	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AwardResponse{}, apperr.ErrBidNotFound
		}
		return dto.AwardResponse{}, err
	}
	if bid.TenderID != tenderID {
		return dto.AwardResponse{}, apperr.ErrBidNotFound
	}

	if _, err := s.evaluations.GetByBidID(ctx, bidID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AwardResponse{}, apperr.ErrBidNotEvaluated
		}
		return dto.AwardResponse{}, err
	}

	// Both writes commit together or neither does.
	if err := s.tenders.Award(ctx, tenderID, bidID, s.now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent award landed between the guard and the commit.
			return dto.AwardResponse{}, apperr.ErrAlreadyAwarded
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "award transaction failed")
		return dto.AwardResponse{}, err
	}

	observability.TendersAwarded().Inc()
	span.SetStatus(codes.Ok, "awarded")
	s.logger.Info().Uint("tender_id", tenderID).Uint("bid_id", bidID).Msg("tender awarded")

	return dto.AwardResponse{TenderID: tenderID, WinningBidID: bidID}, nil
}

func (s *tenderService) Results(ctx context.Context, tenderID uint) ([]dto.TenderResultEntry, error) {
	tender, err := s.getTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	bids, err := s.bids.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.TenderResultEntry, 0, len(bids))
	for _, bid := range bids {
		if bid.Evaluation == nil {
			continue
		}
		results = append(results, dto.TenderResultEntry{
			BidID:    bid.ID,
			Score:    bid.Evaluation.TotalScore,
			Remarks:  bid.Evaluation.Remarks,
			IsWinner: tender.WinningBidID != nil && bid.ID == *tender.WinningBidID,
		})
	}

	return results, nil
}

func (s *tenderService) getTender(ctx context.Context, id uint) (models.Tender, error) {
	tender, err := s.tenders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tender{}, apperr.ErrTenderNotFound
		}
		return models.Tender{}, err
	}

	return tender, nil
}

func (s *tenderService) validateDeadline(deadline time.Time) error {
	if deadline.Before(s.now().Add(minDeadlineLead)) {
		return apperr.ErrDeadlineTooSoon
	}
	return nil
}

func parseDeadline(value string) (time.Time, error) {
	deadline, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.ErrInvalidDeadline
	}
	return deadline, nil
}
