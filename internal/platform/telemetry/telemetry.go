// Package telemetry exposes Prometheus metrics for the dashboard server:
// HTTP request durations, state mutation counts, assistant call outcomes,
// and entity-count gauges refreshed from the current snapshot.
package telemetry

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultDurationBuckets = []float64{
	0.010, 0.025, 0.050, 0.100, 0.250, 0.500, 1.0, 2.5, 5.0, 10.0,
}

// Provider owns the metric registry and all instruments.
type Provider struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	mutations       *prometheus.CounterVec
	assistantCalls  *prometheus.CounterVec
	entities        *prometheus.GaugeVec
	notices         *prometheus.CounterVec
}

// NewProvider creates a Provider with its own registry, so tests can run
// several providers in one process.
func NewProvider(serviceName string) *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	constLabels := prometheus.Labels{"service": serviceName}

	p := &Provider{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_server_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds.",
			Buckets:     defaultDurationBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status_code"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_server_active_requests",
			Help:        "Number of in-flight HTTP requests.",
			ConstLabels: constLabels,
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "state_mutations_total",
			Help:        "Total snapshot mutations by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		assistantCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "assistant_calls_total",
			Help:        "Total generative assistant calls by operation and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "snapshot_entities",
			Help:        "Entity counts in the current snapshot.",
			ConstLabels: constLabels,
		}, []string{"entity"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notices_published_total",
			Help:        "Total notices published by severity.",
			ConstLabels: constLabels,
		}, []string{"severity"}),
	}

	reg.MustRegister(p.requestDuration, p.activeRequests, p.mutations,
		p.assistantCalls, p.entities, p.notices)
	return p
}

// Registry exposes the underlying registry for test assertions.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveMutation increments the mutation counter for one reducer operation.
func (p *Provider) ObserveMutation(operation string) {
	p.mutations.WithLabelValues(operation).Inc()
}

// ObserveAssistantCall records an assistant call outcome ("ok" or "failed").
func (p *Provider) ObserveAssistantCall(operation, outcome string) {
	p.assistantCalls.WithLabelValues(operation, outcome).Inc()
}

// ObserveNotice counts a published notice by severity.
func (p *Provider) ObserveNotice(severity string) {
	p.notices.WithLabelValues(severity).Inc()
}

// SetEntityCount records the size of one snapshot collection.
func (p *Provider) SetEntityCount(entity string, n int) {
	p.entities.WithLabelValues(entity).Set(float64(n))
}

// MetricsMiddleware returns an Echo middleware recording request durations
// keyed by route pattern, not raw path, to keep cardinality bounded.
func (p *Provider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p.activeRequests.Inc()
			start := time.Now()

			err := next(c)

			p.activeRequests.Dec()
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			p.requestDuration.WithLabelValues(
				c.Request().Method, route, strconv.Itoa(status),
			).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
