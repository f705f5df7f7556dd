package dto

import "time"

// ReportSummaryResponse aggregates counts over an optional trailing window.
type ReportSummaryResponse struct {
	Open        int64      `json:"open"`
	Closed      int64      `json:"closed"`
	Cancelled   int64      `json:"cancelled"`
	Bids        int64      `json:"bids"`
	Evaluations int64      `json:"evaluations"`
	From        *time.Time `json:"from,omitempty"`
}
