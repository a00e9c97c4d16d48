package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/observability"
)

// Parse returns the creatures of a run: opts.Creatures if set, otherwise
// the decoded snapshot.
func Parse(opts Options) ([]creature.Creature, error) {
	if opts.Creatures != nil {
		return opts.Creatures, nil
	}
	return creature.Decode(opts.SnapshotName, opts.Snapshot)
}

// Build derives the graph and reports it to the pipeline hooks.
func Build(ctx context.Context, creatures []creature.Creature, opts Options) graph.Graph {
	start := time.Now()
	g := foodweb.Build(creatures, foodweb.WithContrast(opts.contrast))
	observability.Pipeline().OnBuild(ctx, len(creatures), g.NodeCount(), g.EdgeCount(), time.Since(start))
	return g
}
