package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Computed Positions
// =============================================================================

// Layout is the serialization format for a settled layout: where every
// node ended up after a renderer stabilized the graph.
type Layout struct {
	Mode   string  `json:"mode"`
	Engine string  `json:"engine,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Nodes     []Node           `json:"nodes"`
	Edges     []Edge           `json:"edges"`
	Positions map[string]Point `json:"positions"`
	Levels    map[int][]string `json:"levels,omitempty"` // hierarchical modes only

	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
}

// Point is a position in layout space. The origin is the center of the
// drawing; y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds returns the bounding box of all positions.
func (l Layout) Bounds() (lo, hi Point) {
	first := true
	for _, p := range l.Positions {
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo = Point{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = Point{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	return lo, hi
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// every node has a position.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for _, n := range l.Nodes {
		if _, ok := l.Positions[n.ID]; !ok {
			return Layout{}, fmt.Errorf("layout has no position for node %q", n.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
