package graph

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/foodweb/pkg/dag"
)

// Node kinds.
const (
	KindCreature = "creature" // has its own record in the creature store
	KindFood     = "food"     // only ever named as prey
)

// =============================================================================
// Graph - Food Web Serialization
// =============================================================================

// Graph is the canonical serialization format for food webs.
// Used for API responses, caching and renderer input.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node is one vertex, identified by the creature or food name.
type Node struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label" yaml:"label"`
	Color     string `json:"color" yaml:"color"`           // fill
	FontColor string `json:"font_color" yaml:"font_color"` // label text
	Kind      string `json:"kind" yaml:"kind"`
}

// IsFood reports whether the node has no creature record of its own.
func (n Node) IsFood() bool { return n.Kind == KindFood }

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed "is eaten by" arrow from prey to predator.
type Edge struct {
	ID   string `json:"id" yaml:"id"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// EdgeID formats the identifier of the n-th edge between from and to.
// Parallel edges differ only in n. Both names are quoted, so names that
// contain "->" or "#" cannot make two distinct edges collide.
func EdgeID(from, to string, n int) string {
	return strconv.Quote(from) + "->" + strconv.Quote(to) + "#" + strconv.Itoa(n)
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	i := slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Equal reports whether two graphs have the same nodes and edges in the
// same order.
func (g Graph) Equal(o Graph) bool {
	return slices.Equal(g.Nodes, o.Nodes) && slices.Equal(g.Edges, o.Edges)
}

// Stats summarizes a graph for CLI and API output.
type Stats struct {
	Nodes     int `json:"nodes"`
	Creatures int `json:"creatures"`
	Food      int `json:"food"`
	Edges     int `json:"edges"`
	SelfLoops int `json:"self_loops"`
}

// Stats counts nodes by kind and edges.
func (g Graph) Stats() Stats {
	s := Stats{Nodes: len(g.Nodes), Edges: len(g.Edges)}
	for _, n := range g.Nodes {
		if n.IsFood() {
			s.Food++
		} else {
			s.Creatures++
		}
	}
	for _, e := range g.Edges {
		if e.From == e.To {
			s.SelfLoops++
		}
	}
	return s
}

// =============================================================================
// Graph → DAG Conversion
// =============================================================================

// ToDAG copies a Graph into a dag.DAG, keeping node and edge order. Node
// kind and colors are kept in node metadata.
func ToDAG(g Graph) (*dag.DAG, error) {
	d := dag.New(nil)
	for _, n := range g.Nodes {
		meta := dag.Metadata{"kind": n.Kind, "color": n.Color}
		if err := d.AddNode(dag.Node{ID: n.ID, Meta: meta}); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := d.AddEdge(dag.Edge{From: e.From, To: e.To, Meta: dag.Metadata{"id": e.ID}}); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", e.From, e.To, err)
		}
	}
	return d, nil
}
