package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/cache"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the cache lifetime of layouts and artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → build → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Parse
	creatures, err := Parse(opts)
	if err != nil {
		return nil, err
	}

	// Stage 2: Build
	buildStart := time.Now()
	g := Build(ctx, creatures, opts)
	result := &Result{
		Creatures: creatures,
		Graph:     g,
		GraphHash: g.Hash(),
		Settings:  opts.EffectiveSettings(),
		Config:    opts.Config(),
	}
	result.Stats.Creatures = len(creatures)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Info("built food web",
		"creatures", len(creatures),
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	if opts.NeedsLayout() {
		layoutStart := time.Now()
		l, hit, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		result.Layout = &l
		result.Stats.LayoutTime = time.Since(layoutStart)
		result.Stats.Iterations = l.Iterations
		result.CacheInfo.LayoutHit = hit

		r.Logger.Info("computed layout",
			"mode", l.Mode,
			"iterations", l.Iterations,
			"converged", l.Converged,
			"duration", result.Stats.LayoutTime)
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, result.Layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateLayoutWithCacheInfo settles g with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(g.Hash(), opts.LayoutKeyOpts())

	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := graph.UnmarshalLayout(data)
			if err == nil {
				return cached, true, nil
			}
			// corrupt entry: recompute
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "error", err)
		}
	}

	l, err := GenerateLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if !opts.NoCache {
		if data, err := graph.MarshalLayout(l); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout))
		}
	}

	return l, false, nil
}

// GenerateLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Artifacts are cached per format; a miss on any format re-renders all of them.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g graph.Graph, l *graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	formats := opts.Formats
	observability.Pipeline().OnRenderStart(ctx, formats)
	start := time.Now()

	artifacts, hit, err := r.render(ctx, g, l, opts)

	observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, g graph.Graph, l *graph.Layout, opts Options) (map[string][]byte, bool, error) {
	graphHash := g.Hash()

	if !opts.NoCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	if l == nil && opts.NeedsLayout() {
		settled, _, err := r.GenerateLayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			return nil, false, err
		}
		l = &settled
	}

	rendered, err := Render(ctx, g, l, opts)
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		for format, data := range rendered {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
				opts.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			}
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g graph.Graph, l *graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
