package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	bidsSubmittedTotal   prometheus.Counter
	tendersAwardedTotal  prometheus.Counter
	evaluationsRecorded  prometheus.Counter
	uploadsRejectedTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "procure_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "procure_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "procure_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		bidsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procure_bids_submitted_total",
			Help: "Total number of bids accepted for storage.",
		})

		tendersAwardedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procure_tenders_awarded_total",
			Help: "Total number of tenders awarded to a winning bid.",
		})

		evaluationsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "procure_evaluations_recorded_total",
			Help: "Total number of evaluation upserts committed.",
		})

		uploadsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "procure_uploads_rejected_total",
			Help: "Total number of uploads rejected before storage.",
		}, []string{"reason"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			bidsSubmittedTotal,
			tendersAwardedTotal,
			evaluationsRecorded,
			uploadsRejectedTotal,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// BidsSubmitted exposes the counter for accepted bids.
func BidsSubmitted() prometheus.Counter {
	RegisterMetrics()
	return bidsSubmittedTotal
}

// TendersAwarded exposes the counter for completed awards.
func TendersAwarded() prometheus.Counter {
	RegisterMetrics()
	return tendersAwardedTotal
}

// EvaluationsRecorded exposes the counter for evaluation upserts.
func EvaluationsRecorded() prometheus.Counter {
	RegisterMetrics()
	return evaluationsRecorded
}

// UploadsRejected exposes the counter for rejected uploads.
func UploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsRejectedTotal
}
