package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records counter activity for the checkout engine.
type POSMetrics struct {
	sales    *prometheus.CounterVec
	revenue  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewPOSMetrics registers the checkout metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	sales := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_total",
		Help: "Completed sales by voucher type and payment method.",
	}, []string{"voucher_type", "payment_method"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_revenue_soles",
		Help: "Accumulated sale totals in soles.",
	}, []string{"voucher_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_checkout_duration_seconds",
		Help:    "Duration of sale confirmation in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_failures",
		Help: "Failed sale confirmations by reason.",
	}, []string{"reason"})
	reg.MustRegister(sales, revenue, duration, failures)
	return &POSMetrics{
		sales:    sales,
		revenue:  revenue,
		duration: duration,
		failures: failures,
	}
}

// IncSale increments the completed sale counter.
func (p *POSMetrics) IncSale(voucherType, paymentMethod string) {
	if p == nil || p.sales == nil {
		return
	}
	p.sales.WithLabelValues(normalizeLabel(voucherType), normalizeLabel(paymentMethod)).Inc()
}

// AddRevenue accumulates the confirmed sale total.
func (p *POSMetrics) AddRevenue(voucherType string, amount float64) {
	if p == nil || p.revenue == nil {
		return
	}
	p.revenue.WithLabelValues(normalizeLabel(voucherType)).Add(amount)
}

// ObserveCheckout records how long a sale confirmation took.
func (p *POSMetrics) ObserveCheckout(paymentMethod string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(paymentMethod)).Observe(duration.Seconds())
}

// IncFailure increments the failed confirmation counter for the given reason.
func (p *POSMetrics) IncFailure(reason string) {
	if p == nil || p.failures == nil {
		return
	}
	p.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
