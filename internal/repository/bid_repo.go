package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/models"
)

// BidRepository defines data operations for bids.
type BidRepository interface {
	GetByID(ctx context.Context, id uint) (models.Bid, error)
	GetByTenderAndVendor(ctx context.Context, tenderID, vendorID uint) (models.Bid, error)
	ListByVendor(ctx context.Context, vendorID uint) ([]models.Bid, error)
	ListByTender(ctx context.Context, tenderID uint) ([]models.Bid, error)
	ListSince(ctx context.Context, since *time.Time) ([]models.Bid, error)
	Create(ctx context.Context, bid *models.Bid) error
}

type bidRepository struct {
	db *gorm.DB
}

// NewBidRepository instantiates the repository.
func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Bid{}).Preload("Evaluation")
}

func (r *bidRepository) GetByID(ctx context.Context, id uint) (models.Bid, error) {
	var bid models.Bid
	if err := r.baseQuery(ctx).First(&bid, id).Error; err != nil {
		return models.Bid{}, err
	}

	return bid, nil
}

func (r *bidRepository) GetByTenderAndVendor(ctx context.Context, tenderID, vendorID uint) (models.Bid, error) {
	var bid models.Bid
	if err := r.baseQuery(ctx).
		Where("tender_id = ?", tenderID).
		Where("vendor_id = ?", vendorID).
		First(&bid).Error; err != nil {
		return models.Bid{}, err
	}

	return bid, nil
}

func (r *bidRepository) ListByVendor(ctx context.Context, vendorID uint) ([]models.Bid, error) {
	var bids []models.Bid
	if err := r.baseQuery(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}

	return bids, nil
}

func (r *bidRepository) ListByTender(ctx context.Context, tenderID uint) ([]models.Bid, error) {
	var bids []models.Bid
	if err := r.baseQuery(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return nil, err
	}

	return bids, nil
}

func (r *bidRepository) ListSince(ctx context.Context, since *time.Time) ([]models.Bid, error) {
	query := r.baseQuery(ctx)
	if since != nil {
		query = query.Where("bids.created_at >= ?", *since)
	}

	var bids []models.Bid
	if err := query.Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, err
	}

	return bids, nil
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}
