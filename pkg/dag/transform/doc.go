// Package transform provides graph transformations that give every node
// of a food web a level for hierarchical layouts.
//
// # Cycle Breaking
//
// [BreakCycles] removes back edges found by a depth-first search started
// from the source nodes. Food webs are frequently cyclic (cannibalism,
// mutual predation), and longest-path layering needs an acyclic graph.
//
// # Layer Assignment
//
// Two level assignments mirror the sort methods of hierarchical layouts:
//
//   - [AssignLayers] ("directed"): longest path from the sources, so every
//     prey sits at least one level before the creatures that eat it.
//   - [HubLayers] ("hubsize"): the best-connected nodes become roots and
//     levels grow outward breadth-first, ignoring edge direction.
//
// # Usage
//
//	g := web.Clone()
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	for _, row := range g.RowIDs() { ... }
package transform
