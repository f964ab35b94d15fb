package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records transaction pipeline activity. One registry per
// process, lazily initialised.
type PipelineMetrics struct {
	submissions      *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	commitLatency    prometheus.Histogram
	snapshotFailures prometheus.Counter
}

var (
	metricsOnceRegistry sync.Once
	metricsRegistry     *PipelineMetrics
)

// Metrics returns the lazily-initialised pipeline metrics registry.
func Metrics() *PipelineMetrics {
	metricsOnceRegistry.Do(func() {
		metricsRegistry = &PipelineMetrics{
			submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "signet",
				Subsystem: "tx",
				Name:      "submissions_total",
				Help:      "Total submitted transactions segmented by outcome.",
			}, []string{"outcome"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "signet",
				Subsystem: "tx",
				Name:      "rejections_total",
				Help:      "Total rejected transactions segmented by rejection code.",
			}, []string{"code"}),
			commitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "signet",
				Subsystem: "tx",
				Name:      "commit_duration_seconds",
				Help:      "Latency distribution for validate-then-commit sequences.",
				Buckets:   prometheus.DefBuckets,
			}),
			snapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "signet",
				Subsystem: "snapshot",
				Name:      "failures_total",
				Help:      "Total failed ledger snapshot saves.",
			}),
		}
		prometheus.MustRegister(
			metricsRegistry.submissions,
			metricsRegistry.rejections,
			metricsRegistry.commitLatency,
			metricsRegistry.snapshotFailures,
		)
	})
	return metricsRegistry
}

// RecordCommitted counts a successful commit and observes its latency.
func (m *PipelineMetrics) RecordCommitted(d time.Duration) {
	m.submissions.WithLabelValues("committed").Inc()
	m.commitLatency.Observe(d.Seconds())
}

// RecordRejected counts a rejected submission by taxonomy code.
func (m *PipelineMetrics) RecordRejected(code string) {
	m.submissions.WithLabelValues("rejected").Inc()
	m.rejections.WithLabelValues(code).Inc()
}

// RecordSnapshotFailure counts a failed background snapshot save.
func (m *PipelineMetrics) RecordSnapshotFailure() {
	m.snapshotFailures.Inc()
}
