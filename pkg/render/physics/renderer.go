package physics

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/observability"
	"github.com/matzehuels/foodweb/pkg/render"
)

// Backend is the name this renderer reports to logs and hooks.
const Backend = "physics"

// Renderer runs the simulation in the background and presents positions
// on its surface. Every SetData, SetOptions and Stabilize starts a new
// stabilization pass; a newer pass supersedes an older one.
type Renderer struct {
	surface *render.Surface
	logger  *log.Logger

	mu        sync.Mutex
	sim       *Simulation
	gen       uint64
	cancel    context.CancelFunc
	destroyed bool
	passes    sync.WaitGroup
}

// Factory returns a render.Factory building physics renderers.
func Factory(logger *log.Logger) render.Factory {
	if logger == nil {
		logger = log.Default()
	}
	return func(_ context.Context, surface *render.Surface, g graph.Graph, cfg layout.Config) (render.Renderer, error) {
		sim, err := New(g, cfg, surface.Width, surface.Height)
		if err != nil {
			return nil, err
		}
		r := &Renderer{surface: surface, logger: logger.With("renderer", Backend), sim: sim}
		r.mu.Lock()
		r.present(render.ReasonData)
		r.startLocked()
		r.mu.Unlock()
		return r, nil
	}
}

// SetData replaces the graph and restarts stabilization.
func (r *Renderer) SetData(g graph.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.stopLocked()
	if err := r.sim.SetGraph(g); err != nil {
		return err
	}
	r.present(render.ReasonData)
	r.startLocked()
	return nil
}

// SetOptions replaces the configuration. Every solver and mode can be
// swapped in place.
func (r *Renderer) SetOptions(cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.stopLocked()
	if err := r.sim.SetConfig(cfg); err != nil {
		return err
	}
	r.present(render.ReasonOptions)
	r.startLocked()
	return nil
}

// Update replaces configuration and graph and restarts the simulation
// once.
func (r *Renderer) Update(g graph.Graph, cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.stopLocked()
	if err := r.sim.SetConfig(cfg); err != nil {
		return err
	}
	if err := r.sim.SetGraph(g); err != nil {
		return err
	}
	r.present(render.ReasonData)
	r.startLocked()
	return nil
}

// Stabilize starts a new pass from the current positions.
func (r *Renderer) Stabilize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.stopLocked()
	r.sim.Restart()
	r.startLocked()
}

// Destroy stops the running pass and waits for it to exit.
func (r *Renderer) Destroy() error {
	r.mu.Lock()
	r.destroyed = true
	r.stopLocked()
	r.mu.Unlock()
	r.passes.Wait()
	return nil
}

// Positions returns the current positions.
func (r *Renderer) Positions() map[string]graph.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim.Positions()
}

// Layout returns the current state of the simulation.
func (r *Renderer) Layout() graph.Layout {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim.Layout()
}

func (r *Renderer) stopLocked() {
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Renderer) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	gen := r.gen
	r.passes.Add(1)
	go r.run(ctx, gen)
}

// run steps the simulation one iteration at a time, holding the lock only
// for the step, so data and option changes interleave with a pass.
func (r *Renderer) run(ctx context.Context, gen uint64) {
	defer r.passes.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			return
		}
		if r.sim.Done() {
			iterations, converged := r.sim.Iterations(), r.sim.Converged()
			r.present(render.ReasonStabilized)
			r.mu.Unlock()
			observability.Session().OnStabilized(ctx, Backend, iterations, converged)
			r.logger.Debug("stabilized", "iterations", iterations, "converged", converged)
			return
		}
		r.sim.Step()
		r.mu.Unlock()
	}
}

// present must be called with r.mu held.
func (r *Renderer) present(reason render.Reason) {
	r.surface.Present(render.Frame{
		Reason:     reason,
		Positions:  r.sim.Positions(),
		Iterations: r.sim.Iterations(),
		Converged:  r.sim.Converged(),
	})
}
