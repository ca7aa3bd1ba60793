package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records storefront order activity.
type OrderMetrics struct {
	submitted        *prometheus.CounterVec
	submitFailures   prometheus.Counter
	checkoutDuration prometheus.Histogram
	statusChanges    *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_submitted_total",
		Help: "Orders accepted at checkout, by payment method.",
	}, []string{"payment_method"})
	submitFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_submit_failures_total",
		Help: "Checkout attempts rejected or failed.",
	})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of the checkout transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Status ledger appends, by resulting status.",
	}, []string{"status"})
	reg.MustRegister(submitted, submitFailures, checkoutDuration, statusChanges)
	return &OrderMetrics{
		submitted:        submitted,
		submitFailures:   submitFailures,
		checkoutDuration: checkoutDuration,
		statusChanges:    statusChanges,
	}
}

// IncSubmitted counts an accepted order.
func (o *OrderMetrics) IncSubmitted(paymentMethod string) {
	if o == nil || o.submitted == nil {
		return
	}
	o.submitted.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncSubmitFailure counts a rejected or failed checkout.
func (o *OrderMetrics) IncSubmitFailure() {
	if o == nil || o.submitFailures == nil {
		return
	}
	o.submitFailures.Inc()
}

// ObserveCheckout records how long the checkout transaction took.
func (o *OrderMetrics) ObserveCheckout(duration time.Duration) {
	if o == nil || o.checkoutDuration == nil {
		return
	}
	o.checkoutDuration.Observe(duration.Seconds())
}

// IncStatusChange counts a ledger append resulting in the given status.
func (o *OrderMetrics) IncStatusChange(status string) {
	if o == nil || o.statusChanges == nil {
		return
	}
	o.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
