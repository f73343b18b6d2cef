// Package metrics exposes Prometheus instruments for the company service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks adhesion registrations and report latencies.
type Metrics struct {
	AdhesionsRegistered    prometheus.Counter
	AdhesionDecisions      *prometheus.CounterVec
	TransferReportDuration prometheus.Histogram
	AdhesionReportDuration prometheus.Histogram
	ReportCacheHits        prometheus.Counter
}

// New registers all company service metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		AdhesionsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "interbanking_adhesions_registered_total",
			Help: "Total number of company adhesions registered",
		}),
		AdhesionDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "interbanking_adhesion_decisions_total",
			Help: "Total number of adhesion approvals and rejections",
		}, []string{"decision"}),
		TransferReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "interbanking_transfer_report_duration_seconds",
			Help:    "Duration of companies-with-transfers-last-month reports",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		AdhesionReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "interbanking_adhesion_report_duration_seconds",
			Help:    "Duration of companies-adhered-last-month reports",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ReportCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "interbanking_report_cache_hits_total",
			Help: "Total number of report responses served from cache",
		}),
	}
}

// IncrementAdhesionsRegistered records a successful adhesion registration.
func (m *Metrics) IncrementAdhesionsRegistered() {
	m.AdhesionsRegistered.Inc()
}

// IncrementAdhesionDecision records an approval or rejection.
func (m *Metrics) IncrementAdhesionDecision(decision string) {
	m.AdhesionDecisions.WithLabelValues(decision).Inc()
}

// ObserveTransferReport records the duration of a transfer report.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTransferReport(start time.Time) {
	m.TransferReportDuration.Observe(time.Since(start).Seconds())
}

// ObserveAdhesionReport records the duration of an adhesion report.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveAdhesionReport(start time.Time) {
	m.AdhesionReportDuration.Observe(time.Since(start).Seconds())
}

// IncrementReportCacheHit records a report answered without touching storage.
func (m *Metrics) IncrementReportCacheHit() {
	m.ReportCacheHits.Inc()
}
