// Package visjs produces vis-network data for browsers.
//
// [NewPayload] converts a food web and its configuration into the
// {nodes, edges, options} triple a vis.Network is constructed from.
// [ExportHTML] wraps one payload into a standalone page; [LivePage] is the
// page served by foodweb serve, which follows the server's render session
// over server-sent events.
package visjs

import (
	"encoding/json"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
)

// CDN is the vis-network build the pages load.
const CDN = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

// Payload is a vis-network dataset with its options.
type Payload struct {
	Nodes   []Node        `json:"nodes"`
	Edges   []Edge        `json:"edges"`
	Options layout.Config `json:"options"`
}

// Node is a vis-network node.
type Node struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Color NodeColor `json:"color"`
	Font  Font      `json:"font"`
	Group string    `json:"group,omitempty"`
	X     *float64  `json:"x,omitempty"`
	Y     *float64  `json:"y,omitempty"`
}

// NodeColor is a node's fill and border.
type NodeColor struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// Font is a node's label style.
type Font struct {
	Color string `json:"color"`
}

// Edge is a vis-network edge.
type Edge struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Arrows string `json:"arrows"`
}

// NewPayload converts g and cfg.
func NewPayload(g graph.Graph, cfg layout.Config) Payload {
	border := cfg.Nodes.Color.Border
	if border == "" {
		border = layout.NodeBorderColor
	}
	arrows := cfg.Edges.Arrows

	p := Payload{
		Nodes:   make([]Node, 0, len(g.Nodes)),
		Edges:   make([]Edge, 0, len(g.Edges)),
		Options: cfg,
	}
	for _, n := range g.Nodes {
		p.Nodes = append(p.Nodes, Node{
			ID:    n.ID,
			Label: n.DisplayLabel(),
			Color: NodeColor{Background: n.Color, Border: border},
			Font:  Font{Color: n.FontColor},
			Group: n.Kind,
		})
	}
	for _, e := range g.Edges {
		p.Edges = append(p.Edges, Edge{ID: e.ID, From: e.From, To: e.To, Arrows: arrows})
	}
	return p
}

// WithPositions returns a copy of p with node coordinates set from a
// settled layout. Physics stays enabled so the browser can keep
// interacting.
func (p Payload) WithPositions(positions map[string]graph.Point) Payload {
	nodes := make([]Node, len(p.Nodes))
	copy(nodes, p.Nodes)
	for i, n := range nodes {
		if pt, ok := positions[n.ID]; ok {
			x, y := pt.X, pt.Y
			nodes[i].X, nodes[i].Y = &x, &y
		}
	}
	p.Nodes = nodes
	return p
}

// Marshal encodes p as compact JSON.
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// MarshalIndent encodes p as pretty JSON for files.
func (p Payload) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
