package render

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/observability"
)

// ErrRebuildRequired is returned by Renderer.SetOptions when the new
// configuration cannot be applied to the existing instance.
var ErrRebuildRequired = stderrors.New("render: renderer must be rebuilt for this configuration")

// Renderer draws one dataset onto the surface it was constructed with.
type Renderer interface {
	// SetData replaces the nodes and edges.
	SetData(g graph.Graph) error
	// SetOptions replaces the configuration, or returns ErrRebuildRequired.
	SetOptions(cfg layout.Config) error
	// Stabilize starts a stabilization pass and returns immediately.
	Stabilize()
	// Destroy releases everything the renderer holds.
	Destroy() error
}

// Updater is implemented by renderers that can take a new dataset and a
// new configuration in one step. The session prefers it when both
// changed, so the surface sees a single frame.
type Updater interface {
	// Update replaces data and configuration, or returns
	// ErrRebuildRequired.
	Update(g graph.Graph, cfg layout.Config) error
}

// Factory constructs a renderer against a surface with an initial dataset
// and configuration.
type Factory func(ctx context.Context, surface *Surface, g graph.Graph, cfg layout.Config) (Renderer, error)

// State is the lifecycle state of a session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLive          State = "live"
)

// Signal is a control message for a session.
type Signal uint8

const (
	// Reorganize requests a one-shot stabilization on the current data.
	Reorganize Signal = iota + 1
)

func (s Signal) String() string {
	switch s {
	case Reorganize:
		return "reorganize"
	default:
		return "unknown"
	}
}

// Session owns the single renderer bound to a surface.
type Session struct {
	surface *Surface
	factory Factory
	logger  *log.Logger
	backend string
	id      string

	mu       sync.Mutex
	renderer Renderer
	graph    graph.Graph
	cfg      layout.Config
	closed   bool

	done      chan struct{}
	listeners sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. The default is log.Default().
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBackend names the backend in logs and hooks.
func WithBackend(name string) SessionOption {
	return func(s *Session) { s.backend = name }
}

// NewSession creates an uninitialized session. Nothing is constructed
// until the first Apply.
func NewSession(surface *Surface, factory Factory, opts ...SessionOption) *Session {
	s := &Session{
		surface: surface,
		factory: factory,
		logger:  log.Default(),
		backend: "render",
		id:      "session-" + uuid.NewString(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("backend", s.backend)
	return s
}

// Apply hands a dataset and configuration to the session. An
// uninitialized session constructs its renderer; a live one updates it in
// place, or rebuilds it when the renderer asks for that. Failures are
// returned as RENDER_FAILED and keep the last good state.
func (s *Session) Apply(ctx context.Context, g graph.Graph, cfg layout.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New(errors.ErrCodeSessionClosed, "render session is closed")
	}

	start := time.Now()
	action, err := s.apply(ctx, g, cfg)
	observability.Session().OnApply(ctx, s.backend, action, time.Since(start), err)
	if err != nil {
		s.logger.Error("apply failed", "action", action, "err", err)
		return err
	}

	s.graph, s.cfg = g, cfg
	s.logger.Debug("applied",
		"action", action,
		"mode", cfg.Mode,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", time.Since(start))
	return nil
}

func (s *Session) apply(ctx context.Context, g graph.Graph, cfg layout.Config) (string, error) {
	if s.renderer == nil {
		return "construct", s.construct(ctx, g, cfg)
	}

	optionsChanged := cfg.Key() != s.cfg.Key()
	dataChanged := !g.Equal(s.graph)
	if !optionsChanged && !dataChanged {
		return "unchanged", nil
	}

	u, combined := s.renderer.(Updater)
	combined = combined && optionsChanged && dataChanged
	var err error
	switch {
	case combined:
		err = u.Update(g, cfg)
	case optionsChanged:
		err = s.renderer.SetOptions(cfg)
	}
	if stderrors.Is(err, ErrRebuildRequired) {
		if err := s.renderer.Destroy(); err != nil {
			s.logger.Warn("destroy before rebuild", "err", err)
		}
		s.renderer = nil
		return "rebuild", s.construct(ctx, g, cfg)
	}
	if err != nil {
		return "update", errors.Wrap(errors.ErrCodeRenderFailed, err, "set options")
	}
	if dataChanged && !combined {
		if err := s.renderer.SetData(g); err != nil {
			s.cfg = cfg
			return "update", errors.Wrap(errors.ErrCodeRenderFailed, err, "set data")
		}
	}
	return "update", nil
}

// construct binds the surface and builds a renderer. A failed build
// leaves the surface unbound.
func (s *Session) construct(ctx context.Context, g graph.Graph, cfg layout.Config) error {
	if err := s.surface.Bind(s.id); err != nil {
		return err
	}
	r, err := s.factory(ctx, s.surface, g, cfg)
	if err != nil {
		s.surface.Release(s.id)
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "create renderer")
	}
	s.renderer = r
	return nil
}

// Reorganize starts a stabilization pass on the current data. It reports
// false, and does nothing, unless the session is live.
func (s *Session) Reorganize() bool {
	s.mu.Lock()
	r := s.renderer
	if s.closed {
		r = nil
	}
	s.mu.Unlock()

	accepted := r != nil
	observability.Session().OnReorganize(context.Background(), s.backend, accepted)
	if !accepted {
		s.logger.Debug("reorganize ignored", "state", StateUninitialized)
		return false
	}
	r.Stabilize()
	s.logger.Debug("reorganize")
	return true
}

// Listen consumes signals from ch in a goroutine until ch is closed or
// the session is closed. Listen on a closed session does nothing.
func (s *Session) Listen(ch <-chan Signal) {
	// Add must not race with Close's Wait; closed is set under mu first.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("listen on closed session ignored")
		return
	}
	s.listeners.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.listeners.Done()
		for {
			select {
			case <-s.done:
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				switch sig {
				case Reorganize:
					s.Reorganize()
				default:
					s.logger.Warn("unknown signal", "signal", uint8(sig))
				}
			}
		}
	}()
}

// Close stops all listeners, destroys the renderer and releases the
// surface. Calling Close more than once is safe.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	r := s.renderer
	s.renderer = nil
	s.mu.Unlock()

	s.listeners.Wait()

	var err error
	if r != nil {
		if derr := r.Destroy(); derr != nil {
			err = errors.Wrap(errors.ErrCodeRenderFailed, derr, "destroy renderer")
		}
	}
	s.surface.Release(s.id)
	s.logger.Debug("session closed")
	return err
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renderer == nil {
		return StateUninitialized
	}
	return StateLive
}

// Graph returns the last successfully applied graph.
func (s *Session) Graph() graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Config returns the last successfully applied configuration.
func (s *Session) Config() layout.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Surface returns the surface the session draws on.
func (s *Session) Surface() *Surface { return s.surface }
