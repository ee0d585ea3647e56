package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// CouponMetrics records discount evaluation activity. A nil receiver or one
// built without a registerer is a no-op.
type CouponMetrics struct {
	evaluations *prometheus.CounterVec
	discount    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCouponMetrics registers the coupon metrics on the provided registerer.
func NewCouponMetrics(reg prometheus.Registerer) *CouponMetrics {
	if reg == nil {
		return &CouponMetrics{}
	}
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_evaluations_total",
		Help: "Coupon evaluations against a cart, by coupon type and outcome.",
	}, []string{"coupon_type", "outcome"})
	discount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_discount_amount_total",
		Help: "Sum of discounts granted by applied coupons.",
	}, []string{"coupon_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coupon_operation_duration_seconds",
		Help:    "Duration of evaluation operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(evaluations, discount, duration)
	return &CouponMetrics{
		evaluations: evaluations,
		discount:    discount,
		duration:    duration,
	}
}

// IncEvaluation counts one coupon evaluated with the given outcome.
func (m *CouponMetrics) IncEvaluation(couponType, outcome string) {
	if m == nil || m.evaluations == nil {
		return
	}
	m.evaluations.WithLabelValues(normalizeLabel(couponType), normalizeLabel(outcome)).Inc()
}

// AddDiscount accumulates a granted discount.
func (m *CouponMetrics) AddDiscount(couponType string, amount decimal.Decimal) {
	if m == nil || m.discount == nil || !amount.IsPositive() {
		return
	}
	m.discount.WithLabelValues(normalizeLabel(couponType)).Add(amount.InexactFloat64())
}

// ObserveDuration records how long an operation took.
func (m *CouponMetrics) ObserveDuration(operation string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
