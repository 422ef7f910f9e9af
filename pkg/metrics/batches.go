package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BatchMetrics records outcomes for lead import and order reconciliation batches.
type BatchMetrics struct {
	duration *prometheus.HistogramVec
	items    *prometheus.CounterVec
}

// NewBatchMetrics registers the batch metrics on the provided registerer.
func NewBatchMetrics(reg prometheus.Registerer) *BatchMetrics {
	if reg == nil {
		return &BatchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "batch_duration_seconds",
		Help:    "Duration of ingestion batches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"batch"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batch_items_total",
		Help: "Processed batch items by outcome.",
	}, []string{"batch", "outcome"})
	reg.MustRegister(duration, items)
	return &BatchMetrics{
		duration: duration,
		items:    items,
	}
}

// ObserveDuration records the duration for the named batch kind.
func (b *BatchMetrics) ObserveDuration(batch string, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(batch)).Observe(duration.Seconds())
}

// IncOutcome increments the per-outcome item counter for the named batch kind.
func (b *BatchMetrics) IncOutcome(batch, outcome string) {
	if b == nil || b.items == nil {
		return
	}
	b.items.WithLabelValues(normalizeLabel(batch), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
