package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ad payment confirmation sources.
const (
	SourceVerify  = "verify"
	SourceWebhook = "webhook"
	SourceAdmin   = "admin"
)

// PaymentMetrics counts ad payment confirmations and revenue.
type PaymentMetrics struct {
	confirmed *prometheus.CounterVec
	revenue   *prometheus.CounterVec
}

// NewPaymentMetrics registers the ad payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	factory := promauto.With(reg)
	return &PaymentMetrics{
		confirmed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ad_payments_confirmed_total",
			Help: "Ads flipped to paid, by confirmation source.",
		}, []string{"source"}),
		revenue: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ad_revenue_cents_total",
			Help: "Confirmed ad revenue in minor currency units.",
		}, []string{"currency"}),
	}
}

// IncConfirmed records a newly paid ad and its amount.
func (m *PaymentMetrics) IncConfirmed(source, currency string, amountCents int64) {
	if m == nil || m.confirmed == nil {
		return
	}
	m.confirmed.WithLabelValues(normalizeLabel(source)).Inc()
	if amountCents > 0 {
		m.revenue.WithLabelValues(normalizeLabel(currency)).Add(float64(amountCents))
	}
}
