package dto

import "time"

// AdminStatsResponse summarizes platform activity for the admin dashboard.
type AdminStatsResponse struct {
	ActiveTenders        int64     `json:"active_tenders"`
	ClosedTenders        int64     `json:"closed_tenders"`
	CancelledTenders     int64     `json:"cancelled_tenders"`
	TotalBids            int64     `json:"total_bids"`
	PendingEvaluations   int64     `json:"pending_evaluations"`
	CompletedEvaluations int64     `json:"completed_evaluations"`
	GeneratedAt          time.Time `json:"generated_at"`
	CacheHit             bool      `json:"cache_hit"`
}
