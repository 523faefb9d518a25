package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the tenant directory.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec
}

// NewMetrics creates and registers Prometheus metrics. Registration
// uses the default registry, so this is called once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_requests_total",
				Help: "Total number of directory operations processed",
			},
			[]string{"operation"},
		),

		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "directory_request_duration_seconds",
				Help:    "Duration of directory operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		RequestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_request_errors_total",
				Help: "Total number of failed directory operations",
			},
			[]string{"operation", "error_type"},
		),
	}
}

// RecordRequest records one completed operation and its duration.
func (m *Metrics) RecordRequest(operation string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records one failed operation by error type.
func (m *Metrics) RecordError(operation, errorType string) {
	m.RequestErrors.WithLabelValues(operation, errorType).Inc()
}
