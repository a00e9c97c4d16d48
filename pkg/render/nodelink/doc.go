// Package nodelink renders food webs as Graphviz node-link diagrams.
//
// # Overview
//
// Creatures and food items become rounded boxes filled with their display
// color; arrows point from prey to predator. The layout mode picks the
// Graphviz engine:
//
//   - default: neato
//   - hierarchical: dot, with rankdir from the hierarchy direction
//   - circular: fdp, with K derived from the spring length
//
// # Usage
//
//	dot := nodelink.ToDOT(g, cfg, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)
//
// # Renderer
//
// [Factory] plugs Graphviz into a render session. Each redraw presents an
// SVG frame; rendered SVG is cached by graph hash and configuration.
// Reorganize re-seeds neato and fdp. An engine change cannot be applied in
// place and makes the session rebuild the renderer.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
