package models

import "time"

// Bid states. A bid moves SUBMITTED -> EVALUATED -> AWARDED and is never deleted.
const (
	BidStatusSubmitted = "SUBMITTED"
	BidStatusEvaluated = "EVALUATED"
	BidStatusAwarded   = "AWARDED"
)

// Bid is a vendor's proposal document submitted against a tender.
// The composite unique index makes the store the authority for the
// one-bid-per-(tender, vendor) rule under concurrent submissions.
type Bid struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	TenderID   uint        `gorm:"not null;uniqueIndex:idx_bids_tender_vendor" json:"tender_id"`
	VendorID   uint        `gorm:"not null;uniqueIndex:idx_bids_tender_vendor" json:"vendor_id"`
	FilePath   string      `gorm:"size:512;not null" json:"-"`
	Status     string      `gorm:"size:16;not null;default:SUBMITTED" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Tender     Tender      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Vendor     User        `gorm:"foreignKey:VendorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Evaluation *Evaluation `gorm:"foreignKey:BidID" json:"evaluation,omitempty"`
}
