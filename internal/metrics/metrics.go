// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics
	"github.com/shopspring/decimal"                  // Revenue amounts
)

// Metrics groups every collector. A nil *Metrics records nothing.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	OrdersPlaced     prometheus.Counter
	OrderRevenue     prometheus.Counter
	OrderTransitions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cafe_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cafe_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cafe_orders_placed_total",
			Help: "Orders committed.",
		}),
		OrderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cafe_order_revenue_total",
			Help: "Sum of committed order totals.",
		}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cafe_order_status_transitions_total",
			Help: "Order status changes by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.OrdersPlaced, m.OrderRevenue, m.OrderTransitions)
	return m
}

// OrderPlaced records a committed order
func (m *Metrics) OrderPlaced(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.OrdersPlaced.Inc()
	m.OrderRevenue.Add(total.InexactFloat64())
}

// OrderTransitioned records a status change
func (m *Metrics) OrderTransitioned(status string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(status).Inc()
}
