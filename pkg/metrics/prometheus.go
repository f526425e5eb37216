package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal       *prometheus.CounterVec
	editsTotal       *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	sequenceDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trenchscan_scans_total",
				Help: "Total number of token scans by outcome",
			},
			[]string{"outcome"},
		),
		editsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trenchscan_message_edits_total",
				Help: "Total number of message edits by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trenchscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trenchscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		sequenceDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trenchscan_reveal_sequence_seconds",
				Help:    "Wall time of a full progressive reveal sequence",
				Buckets: []float64{5, 10, 20, 30, 45, 60, 90, 120},
			},
		),
	}
}

// RecordScan records a finished scan by outcome.
func (r *Recorder) RecordScan(outcome string) {
	r.scansTotal.WithLabelValues(outcome).Inc()
}

// RecordEdit records a message edit by outcome (ok, noop, error).
func (r *Recorder) RecordEdit(outcome string) {
	r.editsTotal.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordSequenceDuration records the wall time of one reveal sequence.
func (r *Recorder) RecordSequenceDuration(seconds float64) {
	r.sequenceDuration.Observe(seconds)
}
