package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	f := promauto.With(r.registry)

	r.BuildsTotal = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graph_builds_total",
		Help:      "Total number of food web graph builds",
	})
	r.BuildDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graph_build_duration_seconds",
		Help:      "Graph build latency in seconds",
		Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
	})
	r.GraphNodes = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_nodes",
		Help:      "Node count of the most recently built graph",
	})
	r.GraphEdges = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "graph_edges",
		Help:      "Edge count of the most recently built graph",
	})

	r.LayoutsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layouts_total",
		Help:      "Total number of headless layout runs",
	}, []string{"mode", "status"})
	r.LayoutDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_duration_seconds",
		Help:      "Headless layout latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})
	r.LayoutIterations = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_iterations",
		Help:      "Simulation iterations per headless layout",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000},
	}, []string{"mode"})
	r.LayoutsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "layouts_in_flight",
		Help:      "Current number of running headless layouts",
	})

	r.RendersTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Total number of batch renders by output format",
	}, []string{"format", "status"})
	r.RenderDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "render_duration_seconds",
		Help:      "Batch render latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	r.RendersInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "renders_in_flight",
		Help:      "Current number of running batch renders",
	})
}

func (r *Registry) initSessionMetrics() {
	f := promauto.With(r.registry)

	r.SessionAppliesTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_applies_total",
		Help:      "Total number of render session applies",
	}, []string{"backend", "action", "status"})
	r.SessionApplyDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_apply_duration_seconds",
		Help:      "Render session apply latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "action"})
	r.ReorganizeTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_reorganize_total",
		Help:      "Total number of reorganize requests",
	}, []string{"backend", "accepted"})
	r.StabilizationsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_stabilizations_total",
		Help:      "Total number of finished stabilization passes",
	}, []string{"backend", "converged"})
	r.StabilizationIterations = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_stabilization_iterations",
		Help:      "Iterations per stabilization pass",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000},
	}, []string{"backend"})
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)

	r.CacheRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of cache lookups by result",
	}, []string{"key_type", "result"})
	r.CacheSetBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_set_bytes",
		Help:      "Size of cache writes in bytes",
		Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
	}, []string{"key_type"})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.HTTPRequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})
	r.HTTPRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Current number of HTTP requests being processed",
	})
}
