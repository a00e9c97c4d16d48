package foodweb

import (
	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/graph"
)

// Options configures Build.
type Options struct {
	Contrast Contrast
}

// Option mutates Options.
type Option func(*Options)

// WithContrast selects the label color policy.
func WithContrast(c Contrast) Option {
	return func(o *Options) { o.Contrast = c }
}

// Build derives the food web graph from creatures.
//
// Nodes appear in first-seen order: each creature's own node (skipped if a
// node of that name already exists), then any of its prey not seen
// before. Whichever comes first styles the node, so a creature that was
// already named as prey keeps the gray food fill. Kind is KindCreature for
// every name with a record. Edges appear in creature order, then eats
// order.
func Build(creatures []creature.Creature, opts ...Option) graph.Graph {
	o := Options{Contrast: ContrastBinary}
	for _, opt := range opts {
		opt(&o)
	}

	g := graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
	seen := make(map[string]bool, len(creatures))
	pairs := make(map[[2]string]int)
	named := make(map[string]bool, len(creatures))
	for _, c := range creatures {
		named[c.Name] = true
	}

	addNode := func(id, fill string) {
		if seen[id] {
			return
		}
		seen[id] = true
		kind := graph.KindFood
		if named[id] {
			kind = graph.KindCreature
		}
		g.Nodes = append(g.Nodes, graph.Node{
			ID:        id,
			Label:     id,
			Color:     fill,
			FontColor: o.Contrast.FontColor(fill),
			Kind:      kind,
		})
	}

	for _, c := range creatures {
		fill := c.Color
		if fill == "" {
			fill = creature.DefaultColor
		}
		addNode(c.Name, fill)

		for _, prey := range c.Eats {
			addNode(prey, creature.DefaultColor)

			key := [2]string{prey, c.Name}
			g.Edges = append(g.Edges, graph.Edge{
				ID:   graph.EdgeID(prey, c.Name, pairs[key]),
				From: prey,
				To:   c.Name,
			})
			pairs[key]++
		}
	}
	return g
}
