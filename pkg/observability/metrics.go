package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics
	AuthOperationsTotal *prometheus.CounterVec

	// Tenant routing metrics
	TenantRedirectsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tikezone_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tikezone_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tikezone_auth_operations_total",
				Help: "Total number of authentication operations by outcome",
			},
			[]string{"operation", "result"},
		),
		TenantRedirectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tikezone_tenant_redirects_total",
				Help: "Total number of tenant subdomain resolutions by outcome",
			},
			[]string{"outcome"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthOperationsTotal,
		m.TenantRedirectsTotal,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordAuthOperation increments the auth operation counter
func (m *Metrics) RecordAuthOperation(operation, result string) {
	m.AuthOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordTenantRedirect increments the tenant resolution counter
func (m *Metrics) RecordTenantRedirect(outcome string) {
	m.TenantRedirectsTotal.WithLabelValues(outcome).Inc()
}
