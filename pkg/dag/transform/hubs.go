package transform

import (
	"slices"

	"github.com/matzehuels/foodweb/pkg/dag"
)

// HubLayers assigns levels outward from the best-connected nodes.
//
// Nodes are ranked by degree (ties keep insertion order). The highest
// ranked node not yet placed starts a new component at row 0 and its
// neighbors, in either direction, are placed breadth-first one row
// further out. Cycles need no special handling.
func HubLayers(g *dag.DAG) {
	nodes := g.Nodes()
	ranked := slices.Clone(nodes)
	slices.SortStableFunc(ranked, func(a, b *dag.Node) int {
		return g.Degree(b.ID) - g.Degree(a.ID)
	})

	rows := make(map[string]int, len(nodes))
	for _, hub := range ranked {
		if _, placed := rows[hub.ID]; placed {
			continue
		}
		rows[hub.ID] = 0
		queue := []string{hub.ID}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, next := range g.Neighbors(curr) {
				if _, placed := rows[next]; !placed {
					rows[next] = rows[curr] + 1
					queue = append(queue, next)
				}
			}
		}
	}

	g.SetRows(rows)
}
