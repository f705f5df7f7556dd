package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/observability"
	"github.com/addisware/procure-api/internal/repository"
)

// EvaluationService records admin scores for bids with upsert-by-bid semantics.
type EvaluationService interface {
	List(ctx context.Context) ([]dto.EvaluationResponse, error)
	Evaluate(ctx context.Context, payload dto.EvaluationCreateRequest) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	bids        repository.BidRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEvaluationService constructs an EvaluationService instance.
func NewEvaluationService(evaluations repository.EvaluationRepository, bids repository.BidRepository, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		bids:        bids,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		now:         time.Now,
	}
}

func (s *evaluationService) List(ctx context.Context) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.evaluations.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}

func (s *evaluationService) Evaluate(ctx context.Context, payload dto.EvaluationCreateRequest) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	if payload.TechnicalScore < 0 || payload.TechnicalScore > models.MaxTechnicalScore ||
		payload.FinancialScore < 0 || payload.FinancialScore > models.MaxFinancialScore {
		return dto.EvaluationResponse{}, apperr.ErrScoreOutOfRange
	}

	if _, err := s.bids.GetByID(ctx, payload.BidID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, apperr.ErrBidNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.Evaluation{
		BidID:          payload.BidID,
		TechnicalScore: payload.TechnicalScore,
		FinancialScore: payload.FinancialScore,
		TotalScore:     int(math.Round(payload.TechnicalScore + payload.FinancialScore)),
		Remarks:        payload.Remarks,
	}

	// Create-or-replace keyed by bid; the bid flips to EVALUATED in the
	// same transaction, also on re-evaluation.
	if err := s.evaluations.Upsert(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	stored, err := s.evaluations.GetByBidID(ctx, payload.BidID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	observability.EvaluationsRecorded().Inc()
	s.logger.Info().Uint("bid_id", payload.BidID).Int("total_score", stored.TotalScore).Msg("bid evaluated")

	return dto.NewEvaluationResponse(stored), nil
}
