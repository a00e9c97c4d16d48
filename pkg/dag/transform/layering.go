package transform

import "github.com/matzehuels/foodweb/pkg/dag"

// AssignLayers assigns every node the length of the longest path reaching
// it from a source, using Kahn's topological traversal. Sources land in
// row 0 and each creature sits one row past the deepest thing it eats.
//
// Existing rows are overwritten. Nodes on a cycle never reach in-degree
// zero and stay in row 0; run [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		rows[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		// Parallel edges appear once per edge in Children, matching the
		// per-edge in-degree count.
		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
