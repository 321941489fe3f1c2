package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records the outcomes of order placement attempts.
type OrderMetrics struct {
	duration          *prometheus.HistogramVec
	placed            *prometheus.CounterVec
	conflicts         prometheus.Counter
	compensations     prometheus.Counter
	cartClearFailures prometheus.Counter
}

// NewOrderMetrics registers the order placement metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully placed.",
	}, []string{"payment_method"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_stock_conflicts_total",
		Help: "Order placements rejected because stock ran out at commit.",
	})
	compensations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_compensations_total",
		Help: "Orders deleted to compensate a failed stock decrement.",
	})
	cartClearFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_cart_clear_failures_total",
		Help: "Placed orders whose cart could not be cleared.",
	})
	reg.MustRegister(duration, placed, conflicts, compensations, cartClearFailures)
	return &OrderMetrics{
		duration:          duration,
		placed:            placed,
		conflicts:         conflicts,
		compensations:     compensations,
		cartClearFailures: cartClearFailures,
	}
}

// ObserveDuration records how long a placement attempt took.
func (m *OrderMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncPlaced increments the placed counter for the payment method.
func (m *OrderMetrics) IncPlaced(paymentMethod string) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncConflict increments the stock conflict counter.
func (m *OrderMetrics) IncConflict() {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.Inc()
}

// IncCompensation increments the compensation counter.
func (m *OrderMetrics) IncCompensation() {
	if m == nil || m.compensations == nil {
		return
	}
	m.compensations.Inc()
}

// IncCartClearFailure increments the cart clear failure counter.
func (m *OrderMetrics) IncCartClearFailure() {
	if m == nil || m.cartClearFailures == nil {
		return
	}
	m.cartClearFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
