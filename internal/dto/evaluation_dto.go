package dto

import (
	"time"

	"github.com/addisware/procure-api/internal/models"
)

// EvaluationCreateRequest scores a bid on the two fixed sub-scales.
type EvaluationCreateRequest struct {
	BidID          uint    `json:"bid_id" validate:"required,gt=0"`
	TechnicalScore float64 `json:"technical_score" validate:"gte=0,lte=70"`
	FinancialScore float64 `json:"financial_score" validate:"gte=0,lte=30"`
	Remarks        string  `json:"remarks"`
}

// EvaluationResponse is returned to API clients when viewing evaluations.
type EvaluationResponse struct {
	ID             uint      `json:"id"`
	BidID          uint      `json:"bid_id"`
	TechnicalScore float64   `json:"technical_score"`
	FinancialScore float64   `json:"financial_score"`
	TotalScore     int       `json:"total_score"`
	Remarks        string    `json:"remarks,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:             model.ID,
		BidID:          model.BidID,
		TechnicalScore: model.TechnicalScore,
		FinancialScore: model.FinancialScore,
		TotalScore:     model.TotalScore,
		Remarks:        model.Remarks,
		CreatedAt:      model.CreatedAt,
	}
}

// NewEvaluationResponseSlice converts evaluation models into DTOs.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation))
	}

	return responses
}
