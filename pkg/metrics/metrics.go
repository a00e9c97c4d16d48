// Package metrics exports Prometheus metrics for foodweb.
//
// A [Registry] implements every hook interface of package observability.
// Register it once at startup and serve [Registry.Handler] on /metrics:
//
//	m := metrics.NewRegistry()
//	m.Register()
//	r.Handle("/metrics", m.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/foodweb/pkg/observability"
)

const namespace = "foodweb"

// Registry holds all metrics for the application.
type Registry struct {
	// Pipeline metrics
	BuildsTotal      prometheus.Counter
	BuildDuration    prometheus.Histogram
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	LayoutsTotal     *prometheus.CounterVec
	LayoutDuration   *prometheus.HistogramVec
	LayoutIterations *prometheus.HistogramVec
	LayoutsInFlight  prometheus.Gauge
	RendersTotal     *prometheus.CounterVec
	RenderDuration   *prometheus.HistogramVec
	RendersInFlight  prometheus.Gauge

	// Session metrics
	SessionAppliesTotal     *prometheus.CounterVec
	SessionApplyDuration    *prometheus.HistogramVec
	ReorganizeTotal         *prometheus.CounterVec
	StabilizationsTotal     *prometheus.CounterVec
	StabilizationIterations *prometheus.HistogramVec

	// Cache metrics
	CacheRequestsTotal *prometheus.CounterVec
	CacheSetBytes      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized, plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r.initPipelineMetrics()
	r.initSessionMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

// Register installs r as the observability hooks of the process.
func (r *Registry) Register() {
	observability.SetPipelineHooks(r)
	observability.SetSessionHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer returns the underlying Prometheus registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.SessionHooks  = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
