package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records HTTP and cart activity. All methods are safe on a
// nil receiver so callers can skip wiring in tests.
type StorefrontMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	ordersCompleted prometheus.Counter
	couponsRejected prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of HTTP requests by status class.",
	}, []string{"method", "path", "status"})
	ordersCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_completed_total",
		Help: "Orders completed through the storefront.",
	})
	couponsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coupons_rejected_total",
		Help: "Coupon applications rejected as not applicable.",
	})
	reg.MustRegister(requestDuration, requestTotal, ordersCompleted, couponsRejected)
	return &StorefrontMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		ordersCompleted: ordersCompleted,
		couponsRejected: couponsRejected,
	}
}

// ObserveRequest records the duration and outcome for a handled request.
func (m *StorefrontMetrics) ObserveRequest(method, path, status string, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

// IncOrdersCompleted increments the completed-orders counter.
func (m *StorefrontMetrics) IncOrdersCompleted() {
	if m == nil || m.ordersCompleted == nil {
		return
	}
	m.ordersCompleted.Inc()
}

// IncCouponsRejected increments the rejected-coupons counter.
func (m *StorefrontMetrics) IncCouponsRejected() {
	if m == nil || m.couponsRejected == nil {
		return
	}
	m.couponsRejected.Inc()
}
