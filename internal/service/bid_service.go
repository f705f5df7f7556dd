package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"time"

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
	"github.com/addisware/procure-api/pkg/blobstore"
)

// BidService accepts vendor bids and serves bid documents back out.
type BidService interface {
	Submit(ctx context.Context, tenderID, vendorID uint, file *multipart.FileHeader) (dto.BidResponse, error)
	ListMine(ctx context.Context, vendorID uint) ([]dto.BidResponse, error)
	ListByTender(ctx context.Context, tenderID uint) ([]dto.BidResponse, error)
	Download(ctx context.Context, bidID, requesterID uint, requesterRole string) (io.ReadCloser, string, error)
}

type bidService struct {
	bids      repository.BidRepository
	tenders   repository.TenderRepository
	store     FileStore
	logger    zerolog.Logger
	tracer    trace.Tracer
	maxUpload int64
	now       func() time.Time
}

// NewBidService constructs a BidService instance.
func NewBidService(bids repository.BidRepository, tenders repository.TenderRepository, store FileStore, maxUploadMB int, logger zerolog.Logger) BidService {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &bidService{
		bids:      bids,
		tenders:   tenders,
		store:     store,
		logger:    logger.With().Str("component", "bid_service").Logger(),
		tracer:    otel.Tracer("github.com/addisware/procure-api/internal/service/bid"),
		maxUpload: int64(maxUploadMB) * 1024 * 1024,
		now:       time.Now,
	}
}

func (s *bidService) Submit(ctx context.Context, tenderID, vendorID uint, file *multipart.FileHeader) (dto.BidResponse, error) {
	ctx, span := s.tracer.Start(ctx, "bid.submit")
	defer span.End()
	span.SetAttributes(
		attribute.Int("tender.id", int(tenderID)),
		attribute.Int("vendor.id", int(vendorID)),
	)

	if _, err := s.bids.GetByTenderAndVendor(ctx, tenderID, vendorID); err == nil {
		return dto.BidResponse{}, apperr.ErrBidExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.BidResponse{}, err
	}

	tender, err := s.tenders.GetByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BidResponse{}, apperr.ErrTenderNotFound
		}
		return dto.BidResponse{}, err
	}

	if !tender.IsOpen() {
		return dto.BidResponse{}, apperr.ErrBiddingClosed
	}
	// The deadline check is stricter than status: the expiry sweep may not
	// have run yet, so an OPEN row can already be past its deadline.
	if tender.IsExpired(s.now()) {
		return dto.BidResponse{}, apperr.ErrBidDeadlinePast
	}

	payload, err := readUpload(file, s.maxUpload, []string{"application/pdf"})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload rejected")
		return dto.BidResponse{}, err
	}

	path, err := s.store.Save(ctx, blobstore.PurposeBids, file.Filename, bytesReader(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.BidResponse{}, fmt.Errorf("failed to store bid document: %w", err)
	}

	bid := models.Bid{
		TenderID: tenderID,
		VendorID: vendorID,
		FilePath: path,
		Status:   models.BidStatusSubmitted,
	}

	if err := s.bids.Create(ctx, &bid); err != nil {
		// The composite unique index settles the race between two concurrent
		// submissions: exactly one create succeeds.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.BidResponse{}, apperr.ErrBidExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.BidResponse{}, err
	}

	observability.BidsSubmitted().Inc()
	span.SetStatus(codes.Ok, "submitted")
	s.logger.Info().Uint("bid_id", bid.ID).Uint("tender_id", tenderID).Uint("vendor_id", vendorID).Msg("bid submitted")

	return dto.NewBidResponse(bid), nil
}

func (s *bidService) ListMine(ctx context.Context, vendorID uint) ([]dto.BidResponse, error) {
	bids, err := s.bids.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	return dto.NewBidResponseSlice(bids), nil
}

func (s *bidService) ListByTender(ctx context.Context, tenderID uint) ([]dto.BidResponse, error) {
	bids, err := s.bids.ListByTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	return dto.NewBidResponseSlice(bids), nil
}

// Download streams the bid document to its owning vendor or any admin.
// The second return value is the suggested attachment filename.
func (s *bidService) Download(ctx context.Context, bidID, requesterID uint, requesterRole string) (io.ReadCloser, string, error) {
	bid, err := s.bids.GetByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.ErrBidNotFound
		}
		return nil, "", err
	}

	if requesterRole != models.RoleAdmin && bid.VendorID != requesterID {
		return nil, "", apperr.ErrNotBidOwner
	}

	reader, err := s.store.Open(ctx, bid.FilePath)
	if err != nil {
		// A missing backing file is a not-found result, not an internal error.
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", apperr.ErrBidFileMissing
		}
		return nil, "", err
	}

	return reader, fmt.Sprintf("bid-%d.pdf", bid.ID), nil
}
