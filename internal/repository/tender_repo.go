package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/models"
)

// TenderFilter allows narrowing tender queries.
type TenderFilter struct {
	Search   string
	OpenOnly bool
}

// TenderRepository defines data operations for tenders.
type TenderRepository interface {
	List(ctx context.Context, filter TenderFilter) ([]models.Tender, error)
	ListSince(ctx context.Context, since *time.Time) ([]models.Tender, error)
	GetByID(ctx context.Context, id uint) (models.Tender, error)
	Create(ctx context.Context, tender *models.Tender) error
	Update(ctx context.Context, tender *models.Tender) error
	CloseIfOpen(ctx context.Context, id uint) (bool, error)
	CloseExpired(ctx context.Context, now time.Time) error
	Award(ctx context.Context, tenderID, bidID uint, awardedAt time.Time) error
}

type tenderRepository struct {
	db *gorm.DB
}

// NewTenderRepository instantiates the repository.
func NewTenderRepository(db *gorm.DB) TenderRepository {
	return &tenderRepository{db: db}
}

func (r *tenderRepository) List(ctx context.Context, filter TenderFilter) ([]models.Tender, error) {
	query := r.db.WithContext(ctx).Model(&models.Tender{})

	if filter.OpenOnly {
		query = query.Where("status = ?", models.TenderStatusOpen)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var tenders []models.Tender
	if err := query.Order("created_at DESC").Find(&tenders).Error; err != nil {
		return nil, err
	}

	return tenders, nil
}

func (r *tenderRepository) ListSince(ctx context.Context, since *time.Time) ([]models.Tender, error) {
	query := r.db.WithContext(ctx).Model(&models.Tender{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var tenders []models.Tender
	if err := query.Order("created_at DESC").Find(&tenders).Error; err != nil {
		return nil, err
	}

	return tenders, nil
}

func (r *tenderRepository) GetByID(ctx context.Context, id uint) (models.Tender, error) {
	var tender models.Tender
	if err := r.db.WithContext(ctx).First(&tender, id).Error; err != nil {
		return models.Tender{}, err
	}

	return tender, nil
}

func (r *tenderRepository) Create(ctx context.Context, tender *models.Tender) error {
	return r.db.WithContext(ctx).Create(tender).Error
}

func (r *tenderRepository) Update(ctx context.Context, tender *models.Tender) error {
	return r.db.WithContext(ctx).Save(tender).Error
}

// CloseIfOpen transitions a single tender OPEN→CLOSED. Only the status
// column is written, so an award committed between the caller's read and
// this update keeps its winning_bid_id and awarded_at. Returns false when
// the tender was no longer OPEN.
func (r *tenderRepository) CloseIfOpen(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Tender{}).
		Where("id = ? AND status = ?", id, models.TenderStatusOpen).
		Update("status", models.TenderStatusClosed)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CloseExpired bulk-transitions every OPEN tender whose deadline has passed.
// Listing calls this first, which is what makes expiry observable without a
// background scheduler.
func (r *tenderRepository) CloseExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Tender{}).
		Where("status = ? AND deadline < ?", models.TenderStatusOpen, now).
		Update("status", models.TenderStatusClosed).Error
}

// Award records the winning bid and flips the bid to AWARDED in a single
// transaction; a failure of either write rolls back both. The winning_bid_id
// guard makes a concurrent double-award lose cleanly.
func (r *tenderRepository) Award(ctx context.Context, tenderID, bidID uint, awardedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Tender{}).
			Where("id = ? AND winning_bid_id IS NULL", tenderID).
			Updates(map[string]interface{}{
				"winning_bid_id": bidID,
				"awarded_at":     awardedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Bid{}).
			Where("id = ?", bidID).
			Update("status", models.BidStatusAwarded).Error
	})
}
