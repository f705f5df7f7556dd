package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/repository"
	"github.com/addisware/procure-api/pkg/blobstore"
)

func newBidService(t *testing.T, db *gorm.DB, now time.Time) (BidService, *blobstore.Store) {
	t.Helper()
	store, err := blobstore.New(t.TempDir(), testLogger())
	require.NoError(t, err)

	svc := NewBidService(
		repository.NewBidRepository(db),
		repository.NewTenderRepository(db),
		store,
		10,
		testLogger(),
	)
	svc.(*bidService).now = func() time.Time { return now }
	return svc, store
}

func TestBidSubmit(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	svc, _ := newBidService(t, db, now)
	ctx := context.Background()

	tender := models.Tender{Title: "Open", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&tender).Error)

	bid, err := svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.NoError(t, err)
	require.Equal(t, models.BidStatusSubmitted, bid.Status)
	require.Equal(t, tender.ID, bid.TenderID)

	var stored models.Bid
	require.NoError(t, db.First(&stored, bid.ID).Error)
	require.NotEmpty(t, stored.FilePath)
}

func TestBidSubmitRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	svc, _ := newBidService(t, db, now)
	ctx := context.Background()

	tender := models.Tender{Title: "Open", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&tender).Error)

	_, err := svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "revised.pdf", pdfBytes))
	require.ErrorIs(t, err, apperr.ErrBidExists)

	// Another vendor still gets through.
	_, err = svc.Submit(ctx, tender.ID, 11, makeFileHeader(t, "other.pdf", pdfBytes))
	require.NoError(t, err)
}

func TestBidSubmitGuards(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	svc, _ := newBidService(t, db, now)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 9999, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.ErrorIs(t, err, apperr.ErrTenderNotFound)

	closed := models.Tender{Title: "Closed", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusClosed}
	require.NoError(t, db.Create(&closed).Error)
	_, err = svc.Submit(ctx, closed.ID, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.ErrorIs(t, err, apperr.ErrBiddingClosed)

	// OPEN in the store but already past deadline: the sweep simply has not
	// run yet, and submission must still refuse.
	stale := models.Tender{Title: "Stale", Deadline: now.Add(-time.Minute), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&stale).Error)
	_, err = svc.Submit(ctx, stale.ID, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.ErrorIs(t, err, apperr.ErrBidDeadlinePast)
}

func TestBidSubmitRejectsNonPDF(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	svc, _ := newBidService(t, db, now)
	ctx := context.Background()

	tender := models.Tender{Title: "Open", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&tender).Error)

	_, err := svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "notes.txt", []byte("plain text, not a proposal")))
	require.ErrorIs(t, err, apperr.ErrFileTypeDenied)

	// Extension does not matter, content sniffing does.
	_, err = svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "fake.pdf", []byte("still plain text")))
	require.ErrorIs(t, err, apperr.ErrFileTypeDenied)
}

func TestBidSubmitRejectsOversizedFile(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	store, err := blobstore.New(t.TempDir(), testLogger())
	require.NoError(t, err)
	svc := NewBidService(repository.NewBidRepository(db), repository.NewTenderRepository(db), store, 1, testLogger())
	svc.(*bidService).now = func() time.Time { return now }

	tender := models.Tender{Title: "Open", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&tender).Error)

	oversized := append([]byte{}, pdfBytes...)
	oversized = append(oversized, bytes.Repeat([]byte("A"), 1<<20+1024)...)
	_, err = svc.Submit(context.Background(), tender.ID, 10, makeFileHeader(t, "huge.pdf", oversized))
	require.ErrorIs(t, err, apperr.ErrFileTooLarge)
}

func TestBidDownloadAuthorization(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	svc, _ := newBidService(t, db, now)
	ctx := context.Background()

	tender := models.Tender{Title: "Open", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&tender).Error)

	bid, err := svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.NoError(t, err)

	reader, filename, err := svc.Download(ctx, bid.ID, 10, models.RoleVendor)
	require.NoError(t, err)
	payload, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	require.Equal(t, pdfBytes, payload)
	require.Contains(t, filename, ".pdf")

	reader, _, err = svc.Download(ctx, bid.ID, 99, models.RoleAdmin)
	require.NoError(t, err, "admins may download any bid")
	require.NoError(t, reader.Close())

	_, _, err = svc.Download(ctx, bid.ID, 99, models.RoleVendor)
	require.ErrorIs(t, err, apperr.ErrNotBidOwner)

	_, _, err = svc.Download(ctx, 9999, 10, models.RoleVendor)
	require.ErrorIs(t, err, apperr.ErrBidNotFound)
}

func TestBidDownloadMissingFile(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	svc, store := newBidService(t, db, now)
	ctx := context.Background()

	tender := models.Tender{Title: "Open", Deadline: now.Add(45 * 24 * time.Hour), Status: models.TenderStatusOpen}
	require.NoError(t, db.Create(&tender).Error)
	bid, err := svc.Submit(ctx, tender.ID, 10, makeFileHeader(t, "proposal.pdf", pdfBytes))
	require.NoError(t, err)

	var stored models.Bid
	require.NoError(t, db.First(&stored, bid.ID).Error)
	reader, err := store.Open(ctx, stored.FilePath)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	// Simulate the backing file disappearing out from under the record.
	require.NoError(t, db.Model(&models.Bid{}).Where("id = ?", bid.ID).Update("file_path", filepath.Join("bids", "gone.pdf")).Error)

	_, _, err = svc.Download(ctx, bid.ID, 10, models.RoleVendor)
	require.ErrorIs(t, err, apperr.ErrBidFileMissing)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
