// Package physics lays out food webs with an in-process force simulation.
//
// The simulation follows the solvers a vis-network configuration names:
//
//   - barnesHut: inverse-square repulsion between all nodes
//   - forceAtlas2Based: the same repulsion weighted by node degree
//   - hierarchicalRepulsion: short-range repulsion on nodes pinned to levels
//
// Every solver adds springs along edges and, where configured, a pull
// toward the origin. Velocities are damped and clamped; a pass stops once
// the fastest node is slower than the configured minimum velocity or the
// iteration cap is reached.
//
// # Placement
//
// Initial positions are seeded from the configuration's random seed, so
// the same graph and configuration always settle the same way. Circular
// mode starts from a ring. Hierarchical mode pins each node to a level:
// "directed" levels are longest paths after cycle breaking, "hubsize"
// levels grow outward from the best-connected nodes.
//
// # Usage
//
// Headless, for batch output:
//
//	l, err := physics.Stabilize(ctx, g, cfg, 800, 600)
//
// As the renderer of a session:
//
//	s := render.NewSession(surface, physics.Factory(logger))
package physics
