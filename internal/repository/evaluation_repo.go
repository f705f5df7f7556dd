package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/addisware/procure-api/internal/models"
)

// EvaluationRepository defines data operations for evaluations.
type EvaluationRepository interface {
	List(ctx context.Context) ([]models.Evaluation, error)
	ListSince(ctx context.Context, since *time.Time) ([]models.Evaluation, error)
	GetByBidID(ctx context.Context, bidID uint) (models.Evaluation, error)
	Upsert(ctx context.Context, evaluation *models.Evaluation) error
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) List(ctx context.Context) ([]models.Evaluation, error) {
	return r.ListSince(ctx, nil)
}

func (r *evaluationRepository) ListSince(ctx context.Context, since *time.Time) ([]models.Evaluation, error) {
	query := r.db.WithContext(ctx).Model(&models.Evaluation{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var evaluations []models.Evaluation
	if err := query.Order("created_at DESC").Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}

func (r *evaluationRepository) GetByBidID(ctx context.Context, bidID uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.db.WithContext(ctx).Where("bid_id = ?", bidID).First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

// Upsert replaces the evaluation keyed by bid_id (create if absent,
// last-write-wins if present) and flips the bid to EVALUATED. Both writes
// commit in one transaction so a concurrent re-evaluation cannot partially win.
func (r *evaluationRepository) Upsert(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bid_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"technical_score", "financial_score", "total_score", "remarks", "updated_at",
			}),
		}).Create(evaluation).Error; err != nil {
			return err
		}

		return tx.Model(&models.Bid{}).
			Where("id = ?", evaluation.BidID).
			Update("status", models.BidStatusEvaluated).Error
	})
}
