package physics

import (
	"github.com/matzehuels/foodweb/pkg/dag/transform"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
)

// Levels assigns every node of g a hierarchical level.
//
// With [layout.SortDirected] prey sit above their predators: cycles are
// broken and each node lands one level past the deepest thing it eats.
// With [layout.SortHubsize] the best-connected nodes form level 0.
func Levels(g graph.Graph, method layout.SortMethod) (map[string]int, error) {
	d, err := graph.ToDAG(g)
	if err != nil {
		return nil, err
	}

	switch method {
	case layout.SortHubsize:
		transform.HubLayers(d)
	default:
		transform.BreakCycles(d)
		transform.AssignLayers(d)
	}

	levels := make(map[string]int, d.NodeCount())
	for _, n := range d.Nodes() {
		levels[n.ID] = n.Row
	}
	return levels, nil
}

// groupLevels inverts a level assignment, keeping the order of g's nodes
// within each level.
func groupLevels(g graph.Graph, levels map[string]int) map[int][]string {
	out := make(map[int][]string)
	for _, n := range g.Nodes {
		lvl := levels[n.ID]
		out[lvl] = append(out[lvl], n.ID)
	}
	return out
}
