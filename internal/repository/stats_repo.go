package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/addisware/procure-api/internal/models"
)

// StatsRepository aggregates counts for the admin dashboard and reports.
type StatsRepository interface {
	CountTenders(ctx context.Context, status string, since *time.Time) (int64, error)
	CountBids(ctx context.Context, since *time.Time) (int64, error)
	CountEvaluations(ctx context.Context, since *time.Time) (int64, error)
	CountUnevaluatedBids(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository instantiates the repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountTenders(ctx context.Context, status string, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Tender{}).Where("status = ?", status)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *statsRepository) CountBids(ctx context.Context, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Bid{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *statsRepository) CountEvaluations(ctx context.Context, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Evaluation{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *statsRepository) CountUnevaluatedBids(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bid{}).
		Where("NOT EXISTS (SELECT 1 FROM evaluations WHERE evaluations.bid_id = bids.id)").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
