// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

type OrderMetrics struct {
	Transitions  *prometheus.CounterVec
	PaymentPolls *prometheus.CounterVec
}

// Registry bundles every collector registered for one service instance.
type Registry struct {
	Server *ServerMetrics
	Orders *OrderMetrics

	gatherer prometheus.Gatherer
}

// NewRegistry registers the collectors on a dedicated registry so that
// several instances can coexist in one process.
func NewRegistry(service string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	labels := prometheus.Labels{"service": service}
	server := &ServerMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by handler and status",
			ConstLabels: labels,
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_latency_ms",
			Help:        "HTTP request latency in ms",
			ConstLabels: labels,
			Buckets:     []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3200},
		}, []string{"handler"}),
	}
	orders := &OrderMetrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "order_status_transitions_total",
			Help:        "Committed order status changes",
			ConstLabels: labels,
		}, []string{"from", "to", "fulfillment"}),
		PaymentPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "order_payment_polls_total",
			Help:        "Payment status polls by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}
	reg.MustRegister(server.Requests, server.LatencyMS, orders.Transitions, orders.PaymentPolls)

	return &Registry{Server: server, Orders: orders, gatherer: reg}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

func (m *OrderMetrics) StatusChanged(from, to string, pickup bool) {
	fulfillment := "delivery"
	if pickup {
		fulfillment = "pickup"
	}
	m.Transitions.WithLabelValues(from, to, fulfillment).Inc()
}

func (m *OrderMetrics) PaymentPolled(outcome string) {
	m.PaymentPolls.WithLabelValues(outcome).Inc()
}
