package models

import "time"

// Tender lifecycle states. OPEN is the initial state; CLOSED and CANCELLED are terminal.
const (
	TenderStatusOpen      = "OPEN"
	TenderStatusClosed    = "CLOSED"
	TenderStatusCancelled = "CANCELLED"
)

// Tender is a published procurement opportunity with a bidding deadline.
// WinningBidID, once set, is never changed again.
type Tender struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Deadline     time.Time  `gorm:"not null" json:"deadline"`
	Status       string     `gorm:"size:16;not null;default:OPEN" json:"status"`
	WinningBidID *uint      `json:"winning_bid_id"`
	AwardedAt    *time.Time `json:"awarded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsOpen reports whether the tender still accepts lifecycle mutations.
func (t Tender) IsOpen() bool {
	return t.Status == TenderStatusOpen
}

// IsExpired reports whether the bidding deadline has passed at the given instant.
func (t Tender) IsExpired(now time.Time) bool {
	return !now.Before(t.Deadline)
}
