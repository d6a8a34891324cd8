// Package metrics exposes Prometheus collectors for the storefront.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShopMetrics records checkout and order ledger activity.
type ShopMetrics struct {
	ordersCreated    prometheus.Counter
	orderValue       prometheus.Histogram
	checkoutFailures *prometheus.CounterVec
	statusChanges    *prometheus.CounterVec
}

// NewShopMetrics registers the shop metrics on the provided registerer.
// A nil registerer yields a ShopMetrics whose methods do nothing.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_created_total",
		Help: "Orders persisted by checkout.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_order_total_amount",
		Help:    "Total amount of created orders.",
		Buckets: prometheus.ExponentialBuckets(10000, 4, 8),
	})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_checkout_failures_total",
		Help: "Rejected or failed checkouts by reason.",
	}, []string{"reason"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_order_status_changes_total",
		Help: "Order status transitions applied by admins.",
	}, []string{"status"})
	reg.MustRegister(ordersCreated, orderValue, checkoutFailures, statusChanges)
	return &ShopMetrics{
		ordersCreated:    ordersCreated,
		orderValue:       orderValue,
		checkoutFailures: checkoutFailures,
		statusChanges:    statusChanges,
	}
}

// ObserveOrder counts a created order and records its value.
func (m *ShopMetrics) ObserveOrder(totalAmount float64) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderValue.Observe(totalAmount)
}

// IncCheckoutFailure counts a checkout that did not produce an order.
func (m *ShopMetrics) IncCheckoutFailure(reason string) {
	if m == nil || m.checkoutFailures == nil {
		return
	}
	m.checkoutFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncStatusChange counts an applied order status transition.
func (m *ShopMetrics) IncStatusChange(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// HTTPMetrics records request counts and latencies.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Observe records one finished request.
func (m *HTTPMetrics) Observe(method, route, status string, seconds float64) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(seconds)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
