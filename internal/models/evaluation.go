package models

import "time"

// Evaluation holds the admin-assigned scores for a single bid. The unique
// index on BidID gives upsert-by-bid semantics: re-evaluating replaces.
type Evaluation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BidID          uint      `gorm:"not null;uniqueIndex" json:"bid_id"`
	TechnicalScore float64   `gorm:"not null" json:"technical_score"`
	FinancialScore float64   `gorm:"not null" json:"financial_score"`
	TotalScore     int       `gorm:"not null" json:"total_score"`
	Remarks        string    `gorm:"type:text" json:"remarks"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Score bounds for the two evaluation sub-scales.
const (
	MaxTechnicalScore = 70.0
	MaxFinancialScore = 30.0
)
