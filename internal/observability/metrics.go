package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	apiRequestsTotal   *prometheus.CounterVec
	apiLatencySeconds  *prometheus.HistogramVec
	apiErrorsTotal     *prometheus.CounterVec
	emailsSentTotal    *prometheus.CounterVec
	emailsFailedTotal  *prometheus.CounterVec
	reminderScansTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimanage_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "unimanage_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimanage_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		emailsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimanage_emails_sent_total",
			Help: "Total number of emails successfully dispatched, by kind.",
		}, []string{"kind"})

		emailsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "unimanage_emails_failed_total",
			Help: "Total number of emails dropped after exhausting retries, by kind.",
		}, []string{"kind"})

		reminderScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unimanage_reminder_scans_total",
			Help: "Total number of inactivity reminder scans executed.",
		})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			emailsSentTotal, emailsFailedTotal, reminderScansTotal)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// EmailsSentTotal exposes the counter for dispatched emails.
func EmailsSentTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return emailsSentTotal
}

// EmailsFailedTotal exposes the counter for dropped emails.
func EmailsFailedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return emailsFailedTotal
}

// ReminderScans exposes the counter for reminder scans.
func ReminderScans() prometheus.Counter {
	RegisterMetrics()
	return reminderScansTotal
}
