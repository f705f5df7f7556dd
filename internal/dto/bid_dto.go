package dto

import (
	"time"

	"github.com/addisware/procure-api/internal/models"
)

// BidResponse is returned to API clients when viewing bids.
type BidResponse struct {
	ID         uint                `json:"id"`
	TenderID   uint                `json:"tender_id"`
	VendorID   uint                `json:"vendor_id"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	Evaluation *EvaluationResponse `json:"evaluation,omitempty"`
}

// NewBidResponse converts a Bid model into a DTO, including its evaluation when loaded.
func NewBidResponse(model models.Bid) BidResponse {
	response := BidResponse{
		ID:        model.ID,
		TenderID:  model.TenderID,
		VendorID:  model.VendorID,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}

	if model.Evaluation != nil {
		evaluation := NewEvaluationResponse(*model.Evaluation)
		response.Evaluation = &evaluation
	}

	return response
}

// NewBidResponseSlice converts bid models into DTOs.
func NewBidResponseSlice(bids []models.Bid) []BidResponse {
	responses := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		responses = append(responses, NewBidResponse(bid))
	}

	return responses
}
