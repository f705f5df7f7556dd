package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/repository"
)

func newEvaluationService(t *testing.T, db *gorm.DB) EvaluationService {
	t.Helper()
	return NewEvaluationService(
		repository.NewEvaluationRepository(db),
		repository.NewBidRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
}

func seedBid(t *testing.T, db *gorm.DB) models.Bid {
	t.Helper()
	tender := models.Tender{Title: "Closed", Deadline: time.Now().Add(-time.Hour), Status: models.TenderStatusClosed}
	require.NoError(t, db.Create(&tender).Error)
	bid := models.Bid{TenderID: tender.ID, VendorID: 1, FilePath: "bids/a.pdf", Status: models.BidStatusSubmitted}
	require.NoError(t, db.Create(&bid).Error)
	return bid
}

func TestEvaluateRoundsTotal(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(t, db)
	bid := seedBid(t, db)

	evaluation, err := svc.Evaluate(context.Background(), dto.EvaluationCreateRequest{
		BidID:          bid.ID,
		TechnicalScore: 55.5,
		FinancialScore: 20.2,
	})
	require.NoError(t, err)
	require.Equal(t, 76, evaluation.TotalScore, "75.7 rounds to 76")

	evaluation, err = svc.Evaluate(context.Background(), dto.EvaluationCreateRequest{
		BidID:          bid.ID,
		TechnicalScore: 50.2,
		FinancialScore: 20.2,
	})
	require.NoError(t, err)
	require.Equal(t, 70, evaluation.TotalScore, "70.4 rounds to 70")
}

func TestEvaluateRejectsOutOfRangeScores(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(t, db)
	bid := seedBid(t, db)
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, dto.EvaluationCreateRequest{BidID: bid.ID, TechnicalScore: 70.5, FinancialScore: 10})
	require.Error(t, err)

	_, err = svc.Evaluate(ctx, dto.EvaluationCreateRequest{BidID: bid.ID, TechnicalScore: 50, FinancialScore: 30.1})
	require.Error(t, err)

	_, err = svc.Evaluate(ctx, dto.EvaluationCreateRequest{BidID: bid.ID, TechnicalScore: -1, FinancialScore: 10})
	require.Error(t, err)

	// Boundary values are valid.
	evaluation, err := svc.Evaluate(ctx, dto.EvaluationCreateRequest{BidID: bid.ID, TechnicalScore: 70, FinancialScore: 30})
	require.NoError(t, err)
	require.Equal(t, 100, evaluation.TotalScore)
}

func TestEvaluateUpsertsByBid(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(t, db)
	bid := seedBid(t, db)
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, dto.EvaluationCreateRequest{BidID: bid.ID, TechnicalScore: 40, FinancialScore: 10, Remarks: "first pass"})
	require.NoError(t, err)

	revised, err := svc.Evaluate(ctx, dto.EvaluationCreateRequest{BidID: bid.ID, TechnicalScore: 60, FinancialScore: 25, Remarks: "revised"})
	require.NoError(t, err)
	require.Equal(t, 85, revised.TotalScore)
	require.Equal(t, "revised", revised.Remarks)

	var count int64
	require.NoError(t, db.Model(&models.Evaluation{}).Where("bid_id = ?", bid.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	var storedBid models.Bid
	require.NoError(t, db.First(&storedBid, bid.ID).Error)
	require.Equal(t, models.BidStatusEvaluated, storedBid.Status)
}

func TestEvaluateUnknownBid(t *testing.T) {
	db := setupTestDB(t)
	svc := newEvaluationService(t, db)

	_, err := svc.Evaluate(context.Background(), dto.EvaluationCreateRequest{BidID: 9999, TechnicalScore: 50, FinancialScore: 20})
	require.ErrorIs(t, err, apperr.ErrBidNotFound)
}
