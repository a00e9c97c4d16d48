// Package observability provides hooks for metrics and tracing.
//
// Libraries in this module emit events through small hook interfaces and
// never import a metrics backend directly. The binary registers concrete
// implementations at startup (see [github.com/matzehuels/foodweb/pkg/metrics]
// for the Prometheus one); until then every hook is a no-op.
//
// foodweb serve registers the Prometheus hooks with
// metrics.NewRegistry().Register(); the CLI commands leave the no-ops in
// place. Libraries emit events like this:
//
//	start := time.Now()
//	g := foodweb.Build(creatures)
//	observability.Pipeline().OnBuild(ctx, len(creatures), g.NodeCount(), g.EdgeCount(), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from graph building and batch rendering.
type PipelineHooks interface {
	// OnBuild records one run of the graph builder.
	OnBuild(ctx context.Context, creatures, nodes, edges int, duration time.Duration)

	OnLayoutStart(ctx context.Context, mode string, nodeCount int)
	OnLayoutComplete(ctx context.Context, mode string, iterations int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// SessionHooks receives events from render sessions.
type SessionHooks interface {
	// OnApply records a data/config application. Action is "construct",
	// "update" or "rebuild".
	OnApply(ctx context.Context, backend, action string, duration time.Duration, err error)

	// OnReorganize records a reorganize request and whether it was accepted.
	OnReorganize(ctx context.Context, backend string, accepted bool)

	// OnStabilized records the end of a stabilization pass.
	OnStabilized(ctx context.Context, backend string, iterations int, converged bool)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request. Route is the chi route
	// pattern, not the raw path.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuild(context.Context, int, int, int, time.Duration)               {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopSessionHooks ignores every event.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnApply(context.Context, string, string, time.Duration, error) {}
func (NoopSessionHooks) OnReorganize(context.Context, string, bool)                    {}
func (NoopSessionHooks) OnStabilized(context.Context, string, int, bool)               {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds one registered hook implementation.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	sessionSlot  = newSlot[SessionHooks](NoopSessionHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetSessionHooks registers session hooks. Nil is ignored.
func SetSessionHooks(h SessionHooks) { sessionSlot.set(h) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Session returns the registered session hooks.
func Session() SessionHooks { return sessionSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores every hook to its no-op default.
func Reset() {
	pipelineSlot.reset()
	sessionSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
