// Package pkg provides the core libraries for foodweb, an editor that turns
// a list of creatures and what they eat into an interactive food web.
//
// # Overview
//
// A user keeps an ordered list of creatures. Each creature has a name, a
// color and a free-text list of foods. The list is compiled into a directed
// graph (food → eater) and drawn by a renderer that stays alive between
// edits, so the picture moves instead of being redrawn from scratch.
//
// # Architecture
//
// The data flow for one edit:
//
//	creature.Store (ordered creature list)
//	         ↓
//	    [foodweb] Build (nodes + edges, first writer wins)
//	         ↓
//	    [layout] Settings → Config (physics or hierarchical)
//	         ↓
//	    [render] Session (uninitialized ↔ live renderer)
//	         ↓
//	    Surface frames (positions, SVG, vis-network events)
//
// [workspace] runs this flow after every mutation. [pipeline] runs it once,
// without a session, for batch output (the CLI render command and the
// /api/render endpoint).
//
// # Quick Start
//
//	s := creature.NewStore()
//	s.Add("Fox", "Rabbit, Mouse", "#ff8800")
//	s.Add("Rabbit", "Grass", "")
//
//	g := foodweb.Build(s.List())
//	cfg := layout.DefaultSettings().Config()
//
//	surface := render.NewSurface(800, 600, func(f render.Frame) { ... })
//	session := render.NewSession(surface, physics.Factory)
//	defer session.Close()
//	if err := session.Apply(ctx, g, cfg); err != nil { ... }
//
// # Main Packages
//
// ## Domain
//
// [creature] - The creature list, the add/edit form state machine, and
// JSON/YAML snapshots.
//
// [foodweb] - Graph construction with node kinds and readable font colors.
//
// [graph] - Serialization types for graphs and settled layouts.
//
// [layout] - User-facing settings (mode, physics, hierarchy) and the
// renderer configuration they resolve to.
//
// [dag] - Directed graph used by the hierarchical level assignment, with
// [dag/transform] breaking cycles and assigning layers.
//
// ## Rendering
//
// [render] - Session lifecycle, display surfaces and SVG conversion.
//
//   - [render/physics]: in-process force simulation
//   - [render/nodelink]: Graphviz diagrams (DOT, SVG, PNG, PDF)
//   - [render/visjs]: vis-network payloads and standalone HTML
//   - [render/stream]: server-sent events for live browser pages
//
// ## Infrastructure
//
// [workspace] - One editing session: store, settings, contrast and render
// session behind a single mutex.
//
// [pipeline] - Batch parse → layout → render with artifact caching.
//
// [cache] - File, Redis and null caches keyed by content hashes.
//
// [server] - HTTP API over a workspace (chi).
//
// [config] - TOML configuration file.
//
// [errors] - Coded errors with user-facing messages and HTTP statuses.
//
// [metrics] and [observability] - Prometheus metrics fed by pluggable hooks.
//
// [buildinfo] - Version information set at build time.
package pkg
