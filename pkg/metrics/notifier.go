package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Email delivery outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeParked  = "parked"
	OutcomeSkipped = "skipped"
)

// NotifierMetrics records outbox dispatch batches and email outcomes.
type NotifierMetrics struct {
	batchDuration prometheus.Histogram
	deliveries    *prometheus.CounterVec
}

// NewNotifierMetrics registers the notifier metrics on the provided registerer.
func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	if reg == nil {
		return &NotifierMetrics{}
	}
	factory := promauto.With(reg)
	return &NotifierMetrics{
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notifier_batch_duration_seconds",
			Help:    "Duration of outbox dispatch batches in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "email_deliveries_total",
			Help: "Transactional email outcomes by event type.",
		}, []string{"event_type", "outcome"}),
	}
}

// ObserveBatch records how long a dispatch batch took.
func (m *NotifierMetrics) ObserveBatch(duration time.Duration) {
	if m == nil || m.batchDuration == nil {
		return
	}
	m.batchDuration.Observe(duration.Seconds())
}

// IncDelivery counts one email outcome.
func (m *NotifierMetrics) IncDelivery(eventType, outcome string) {
	if m == nil || m.deliveries == nil {
		return
	}
	m.deliveries.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}
