package metrics

import (
	"context"
	"strconv"
	"time"
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// OnBuild implements observability.PipelineHooks.
func (r *Registry) OnBuild(_ context.Context, _, nodes, edges int, d time.Duration) {
	r.BuildsTotal.Inc()
	r.BuildDuration.Observe(d.Seconds())
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// OnLayoutStart implements observability.PipelineHooks.
func (r *Registry) OnLayoutStart(context.Context, string, int) {
	r.LayoutsInFlight.Inc()
}

// OnLayoutComplete implements observability.PipelineHooks.
func (r *Registry) OnLayoutComplete(_ context.Context, mode string, iterations int, d time.Duration, err error) {
	r.LayoutsInFlight.Dec()
	r.LayoutsTotal.WithLabelValues(mode, status(err)).Inc()
	r.LayoutDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		r.LayoutIterations.WithLabelValues(mode).Observe(float64(iterations))
	}
}

// OnRenderStart implements observability.PipelineHooks.
func (r *Registry) OnRenderStart(context.Context, []string) {
	r.RendersInFlight.Inc()
}

// OnRenderComplete implements observability.PipelineHooks.
func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	r.RendersInFlight.Dec()
	s := status(err)
	for _, f := range formats {
		r.RendersTotal.WithLabelValues(f, s).Inc()
	}
	r.RenderDuration.WithLabelValues(s).Observe(d.Seconds())
}

// OnApply implements observability.SessionHooks.
func (r *Registry) OnApply(_ context.Context, backend, action string, d time.Duration, err error) {
	r.SessionAppliesTotal.WithLabelValues(backend, action, status(err)).Inc()
	r.SessionApplyDuration.WithLabelValues(backend, action).Observe(d.Seconds())
}

// OnReorganize implements observability.SessionHooks.
func (r *Registry) OnReorganize(_ context.Context, backend string, accepted bool) {
	r.ReorganizeTotal.WithLabelValues(backend, strconv.FormatBool(accepted)).Inc()
}

// OnStabilized implements observability.SessionHooks.
func (r *Registry) OnStabilized(_ context.Context, backend string, iterations int, converged bool) {
	r.StabilizationsTotal.WithLabelValues(backend, strconv.FormatBool(converged)).Inc()
	r.StabilizationIterations.WithLabelValues(backend).Observe(float64(iterations))
}

// OnCacheHit implements observability.CacheHooks.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse implements observability.HTTPHooks.
func (r *Registry) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
