package nodelink

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/cache"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/observability"
	"github.com/matzehuels/foodweb/pkg/render"
)

// Backend is the name this renderer reports to logs and hooks.
const Backend = "graphviz"

// Renderer draws SVG diagrams with Graphviz and presents them as frames.
// The layout engine is fixed per instance; switching engines requires a
// rebuild.
type Renderer struct {
	surface *render.Surface
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	opts    Options

	mu        sync.Mutex
	graph     graph.Graph
	cfg       layout.Config
	reseed    int64
	destroyed bool
	pending   sync.WaitGroup
}

// Factory returns a render.Factory building Graphviz renderers. A nil
// cache disables caching.
func Factory(c cache.Cache, logger *log.Logger, opts Options) render.Factory {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return func(ctx context.Context, surface *render.Surface, g graph.Graph, cfg layout.Config) (render.Renderer, error) {
		r := &Renderer{
			surface: surface,
			cache:   c,
			keyer:   cache.NewDefaultKeyer(),
			logger:  logger.With("renderer", Backend),
			opts:    opts,
			graph:   g,
			cfg:     cfg,
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.draw(ctx, render.ReasonData); err != nil {
			return nil, err
		}
		return r, nil
	}
}

// SetData replaces the graph and redraws.
func (r *Renderer) SetData(g graph.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	prev := r.graph
	r.graph = g
	if err := r.draw(context.Background(), render.ReasonData); err != nil {
		r.graph = prev
		return err
	}
	return nil
}

// SetOptions replaces the configuration and redraws. A different
// Graphviz engine returns render.ErrRebuildRequired.
func (r *Renderer) SetOptions(cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	if cfg.Graphviz.Engine != r.cfg.Graphviz.Engine {
		return render.ErrRebuildRequired
	}
	prev := r.cfg
	r.cfg = cfg
	if err := r.draw(context.Background(), render.ReasonOptions); err != nil {
		r.cfg = prev
		return err
	}
	return nil
}

// Update replaces graph and configuration and draws once. A different
// Graphviz engine returns render.ErrRebuildRequired.
func (r *Renderer) Update(g graph.Graph, cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	if cfg.Graphviz.Engine != r.cfg.Graphviz.Engine {
		return render.ErrRebuildRequired
	}
	prevGraph, prevCfg := r.graph, r.cfg
	r.graph, r.cfg = g, cfg
	if err := r.draw(context.Background(), render.ReasonData); err != nil {
		r.graph, r.cfg = prevGraph, prevCfg
		return err
	}
	return nil
}

// Stabilize redraws in the background with the next random start, so
// neato and fdp settle into a different arrangement.
func (r *Renderer) Stabilize() {
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.destroyed {
			return
		}
		r.reseed++
		if err := r.draw(context.Background(), render.ReasonStabilized); err != nil {
			r.reseed--
			r.logger.Error("reorganize failed", "err", err)
		}
	}()
}

// Destroy waits for background redraws and stops further drawing.
func (r *Renderer) Destroy() error {
	r.mu.Lock()
	r.destroyed = true
	r.mu.Unlock()
	r.pending.Wait()
	return nil
}

// SVG renders the current graph and configuration without presenting it.
func (r *Renderer) SVG(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.svg(ctx)
}

// draw must be called with r.mu held.
func (r *Renderer) draw(ctx context.Context, reason render.Reason) error {
	svg, err := r.svg(ctx)
	if err != nil {
		return err
	}
	r.surface.Present(render.Frame{Reason: reason, Artifact: svg, Format: "svg"})
	if reason == render.ReasonStabilized {
		observability.Session().OnStabilized(ctx, Backend, 1, true)
	}
	return nil
}

func (r *Renderer) svg(ctx context.Context) ([]byte, error) {
	cfg := r.cfg
	cfg.Layout.RandomSeed += r.reseed

	key := r.keyer.ArtifactKey(r.graph.Hash(), cache.ArtifactKeyOpts{
		Config:   cfg.Key(),
		Format:   "svg",
		Detailed: r.opts.Detailed,
	})
	if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	svg, err := RenderSVGContext(ctx, ToDOT(r.graph, cfg, r.opts))
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, svg, cache.TTLArtifact); err != nil {
		r.logger.Warn("cache write failed", "err", err)
	}
	return svg, nil
}
