package transform

import "github.com/matzehuels/foodweb/pkg/dag"

// BreakCycles removes the back edges of a depth-first search, making g
// acyclic. Sources are visited first, then remaining nodes in insertion
// order, so the same graph always loses the same edges. Self-loops are
// always removed. It returns the number of edges removed.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	removed := 0
	for _, e := range backEdges {
		removed += g.RemoveEdge(e[0], e[1])
	}
	return removed
}
