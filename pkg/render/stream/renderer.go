package stream

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
	"github.com/matzehuels/foodweb/pkg/render/visjs"
)

// Backend is the name this renderer reports to logs and hooks.
const Backend = "browser"

// Renderer publishes the session's dataset and options to a hub. Each
// published payload is also presented on the surface as a json frame.
type Renderer struct {
	hub     *Hub
	surface *render.Surface
	logger  *log.Logger

	mu        sync.Mutex
	graph     graph.Graph
	cfg       layout.Config
	destroyed bool
}

// Factory returns a render.Factory building renderers on hub.
func Factory(hub *Hub, logger *log.Logger) render.Factory {
	if logger == nil {
		logger = log.Default()
	}
	return func(_ context.Context, surface *render.Surface, g graph.Graph, cfg layout.Config) (render.Renderer, error) {
		r := &Renderer{hub: hub, surface: surface, logger: logger.With("renderer", Backend), graph: g, cfg: cfg}
		if err := r.publish(render.ReasonData); err != nil {
			return nil, err
		}
		return r, nil
	}
}

// SetData replaces the dataset and republishes.
func (r *Renderer) SetData(g graph.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.graph = g
	return r.publish(render.ReasonData)
}

// SetOptions replaces the options and republishes. vis-network accepts
// every option change through setOptions.
func (r *Renderer) SetOptions(cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.cfg = cfg
	return r.publish(render.ReasonOptions)
}

// Update replaces dataset and options and publishes them as one event.
func (r *Renderer) Update(g graph.Graph, cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.graph, r.cfg = g, cfg
	return r.publish(render.ReasonData)
}

// Stabilize asks connected browsers to run a stabilization pass.
func (r *Renderer) Stabilize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.hub.Publish(Event{Name: EventStabilize})
	r.logger.Debug("stabilize requested", "clients", r.hub.Subscribers())
}

// Destroy tells browsers to drop their network.
func (r *Renderer) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil
	}
	r.destroyed = true
	r.hub.Publish(Event{Name: EventDestroy})
	return nil
}

// publish must be called with r.mu held.
func (r *Renderer) publish(reason render.Reason) error {
	data, err := visjs.NewPayload(r.graph, r.cfg).Marshal()
	if err != nil {
		return err
	}
	r.hub.Publish(Event{Name: EventGraph, Data: data})
	r.surface.Present(render.Frame{Reason: reason, Artifact: data, Format: "json"})
	return nil
}
