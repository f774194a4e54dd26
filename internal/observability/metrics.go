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
	lessonsFinishedTotal *prometheus.CounterVec
	awardsUpsertedTotal  prometheus.Counter
	lessonsProvisioned   prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors exposed on /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		lessonsFinishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessons_finished_total",
			Help: "Scored lessons finished, by comment category.",
		}, []string{"comment"})

		awardsUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "awards_upserted_total",
			Help: "Monthly award writes.",
		})

		lessonsProvisioned = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scorecard_lessons_provisioned_total",
			Help: "Placeholder scorecard lessons created on first view.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			lessonsFinishedTotal,
			awardsUpsertedTotal,
			lessonsProvisioned,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// LessonsFinished counts finished lessons labelled by comment category.
func LessonsFinished() *prometheus.CounterVec {
	RegisterMetrics()
	return lessonsFinishedTotal
}

// AwardsUpserted counts award writes.
func AwardsUpserted() prometheus.Counter {
	RegisterMetrics()
	return awardsUpsertedTotal
}

// LessonsProvisioned counts auto-created scorecard lessons.
func LessonsProvisioned() prometheus.Counter {
	RegisterMetrics()
	return lessonsProvisioned
}
