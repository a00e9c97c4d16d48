package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/observability"
	"github.com/matzehuels/foodweb/pkg/render/physics"
)

// GenerateLayout runs the physics simulation on g until it settles.
func GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, error) {
	cfg := opts.Config()
	mode := string(cfg.Mode)

	observability.Pipeline().OnLayoutStart(ctx, mode, g.NodeCount())
	start := time.Now()

	l, err := physics.Stabilize(ctx, g, cfg, opts.Width, opts.Height)

	observability.Pipeline().OnLayoutComplete(ctx, mode, l.Iterations, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, err
	}
	return l, nil
}
