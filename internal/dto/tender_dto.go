package dto

import (
	"time"

	"github.com/addisware/procure-api/internal/models"
)

// TenderCreateRequest is the admin payload for publishing a tender.
type TenderCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" validate:"required"`
}

// TenderUpdateRequest applies partial changes to an open tender.
type TenderUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
}

// TenderFilter narrows tender listings.
type TenderFilter struct {
	Search   string `query:"search"`
	OpenOnly bool   `query:"openOnly"`
}

// TenderResponse is returned to API clients when viewing tenders.
type TenderResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Deadline     time.Time  `json:"deadline"`
	Status       string     `json:"status"`
	WinningBidID *uint      `json:"winning_bid_id,omitempty"`
	AwardedAt    *time.Time `json:"awarded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AwardRequest selects the winning bid for a tender.
type AwardRequest struct {
	BidID uint `json:"bid_id" validate:"required,gt=0"`
}

// AwardResponse confirms a completed award.
type AwardResponse struct {
	TenderID     uint `json:"tender_id"`
	WinningBidID uint `json:"winning_bid_id"`
}

// TenderResultEntry is one row of the public results view. Only evaluated
// bids appear; IsWinner is true solely for the tender's winning bid.
type TenderResultEntry struct {
	BidID    uint   `json:"bid_id"`
	Score    int    `json:"score"`
	Remarks  string `json:"remarks,omitempty"`
	IsWinner bool   `json:"is_winner"`
}

// NewTenderResponse converts a Tender model into a DTO.
func NewTenderResponse(model models.Tender) TenderResponse {
	return TenderResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		Deadline:     model.Deadline,
		Status:       model.Status,
		WinningBidID: model.WinningBidID,
		AwardedAt:    model.AwardedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewTenderResponseSlice converts tender models into DTOs.
func NewTenderResponseSlice(tenders []models.Tender) []TenderResponse {
	responses := make([]TenderResponse, 0, len(tenders))
	for _, tender := range tenders {
		responses = append(responses, NewTenderResponse(tender))
	}

	return responses
}
