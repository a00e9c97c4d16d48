// Package render drives renderers that draw a food web onto a display
// surface.
//
// # Overview
//
// A [Session] owns at most one live [Renderer] bound to a [Surface]. It is
// a two-state machine:
//
//   - uninitialized: no renderer exists yet
//   - live: a renderer exists and owns the surface
//
// The first [Session.Apply] constructs a renderer through the session's
// [Factory]. Later calls update the live renderer in place, so the surface
// keeps its interaction state. A backend that cannot hot-swap a setting
// (a Graphviz engine, for example) returns [ErrRebuildRequired] from
// SetOptions and the session destroys it before constructing a new one.
//
// # Reorganize
//
// [Session.Reorganize] asks the live renderer for one more stabilization
// pass on its current data. It never blocks. Callers that prefer message
// passing hand the session a channel of [Signal] values with
// [Session.Listen].
//
//	surface := render.NewSurface(800, 600, func(f render.Frame) { ... })
//	s := render.NewSession(surface, physics.Factory, render.WithLogger(logger))
//	defer s.Close()
//
//	if err := s.Apply(ctx, g, cfg); err != nil { ... }
//	s.Reorganize()
//
// # Backends
//
//   - [physics]: in-process force simulation producing positions
//   - [nodelink]: Graphviz diagrams (SVG, PNG, PDF)
//   - [visjs]: vis-network payloads and HTML pages
//   - [stream]: server-sent events to browsers running vis-network
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG with the external rsvg-convert tool.
//
// [physics]: https://pkg.go.dev/github.com/matzehuels/foodweb/pkg/render/physics
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/foodweb/pkg/render/nodelink
// [visjs]: https://pkg.go.dev/github.com/matzehuels/foodweb/pkg/render/visjs
// [stream]: https://pkg.go.dev/github.com/matzehuels/foodweb/pkg/render/stream
package render
