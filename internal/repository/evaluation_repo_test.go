package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/addisware/procure-api/internal/models"
)

func TestEvaluationRepositoryUpsertReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()

	tender := models.Tender{Title: "IT Services", Deadline: time.Now().Add(40 * 24 * time.Hour), Status: models.TenderStatusClosed}
	require.NoError(t, db.Create(&tender).Error)
	bid := models.Bid{TenderID: tender.ID, VendorID: 1, FilePath: "bids/a.pdf", Status: models.BidStatusSubmitted}
	require.NoError(t, db.Create(&bid).Error)

	first := models.Evaluation{BidID: bid.ID, TechnicalScore: 50, FinancialScore: 20, TotalScore: 70, Remarks: "initial"}
	require.NoError(t, repo.Upsert(ctx, &first))

	var storedBid models.Bid
	require.NoError(t, db.First(&storedBid, bid.ID).Error)
	require.Equal(t, models.BidStatusEvaluated, storedBid.Status)

	second := models.Evaluation{BidID: bid.ID, TechnicalScore: 65, FinancialScore: 25, TotalScore: 90, Remarks: "revised"}
	require.NoError(t, repo.Upsert(ctx, &second))

	var count int64
	require.NoError(t, db.Model(&models.Evaluation{}).Where("bid_id = ?", bid.ID).Count(&count).Error)
	require.Equal(t, int64(1), count, "re-evaluation must replace, not add")

	stored, err := repo.GetByBidID(ctx, bid.ID)
	require.NoError(t, err)
	require.Equal(t, 90, stored.TotalScore)
	require.Equal(t, "revised", stored.Remarks)
	require.Equal(t, float64(65), stored.TechnicalScore)
}

func TestEvaluationRepositoryListSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEvaluationRepository(db)
	ctx := context.Background()
	now := time.Now()

	tender := models.Tender{Title: "Security", Deadline: now.Add(40 * 24 * time.Hour), Status: models.TenderStatusClosed}
	require.NoError(t, db.Create(&tender).Error)
	first := models.Bid{TenderID: tender.ID, VendorID: 1, FilePath: "bids/a.pdf", Status: models.BidStatusSubmitted}
	second := models.Bid{TenderID: tender.ID, VendorID: 2, FilePath: "bids/b.pdf", Status: models.BidStatusSubmitted}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	old := models.Evaluation{BidID: first.ID, TechnicalScore: 40, FinancialScore: 10, TotalScore: 50, CreatedAt: now.Add(-72 * time.Hour)}
	recent := models.Evaluation{BidID: second.ID, TechnicalScore: 60, FinancialScore: 20, TotalScore: 80, CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&recent).Error)

	since := now.Add(-24 * time.Hour)
	evaluations, err := repo.ListSince(ctx, &since)
	require.NoError(t, err)
	require.Len(t, evaluations, 1)
	require.Equal(t, second.ID, evaluations[0].BidID)

	evaluations, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, evaluations, 2)
	require.Equal(t, second.ID, evaluations[0].BidID, "expected newest record first")
}
