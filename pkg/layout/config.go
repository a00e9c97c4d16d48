package layout

import (
	"encoding/json"
	"fmt"
)

// Solver names.
const (
	SolverBarnesHut             = "barnesHut"
	SolverForceAtlas2Based      = "forceAtlas2Based"
	SolverHierarchicalRepulsion = "hierarchicalRepulsion"
)

// Graphviz engines.
const (
	EngineNeato = "neato"
	EngineDot   = "dot"
	EngineFdp   = "fdp"
)

// Shared renderer defaults.
const (
	NodeShape        = "box"
	NodeBorderColor  = "#2B7CE9"
	EdgeColor        = "#848484"
	LevelSeparation  = 150
	NodeSpacing      = 100
	StabilizationCap = 1000
)

// Config is a complete renderer configuration. Its JSON form is a
// vis-network options object; Mode and Graphviz are for in-process
// renderers and are not serialized.
type Config struct {
	Mode     Mode          `json:"-"`
	Layout   LayoutConfig  `json:"layout"`
	Physics  PhysicsConfig `json:"physics"`
	Edges    EdgeConfig    `json:"edges"`
	Nodes    NodeConfig    `json:"nodes"`
	Graphviz Graphviz      `json:"-"`
}

// LayoutConfig positions nodes before physics runs.
type LayoutConfig struct {
	RandomSeed   int64               `json:"randomSeed"`
	Hierarchical *HierarchicalConfig `json:"hierarchical,omitempty"`
}

// HierarchicalConfig is the layered layout configuration.
type HierarchicalConfig struct {
	Enabled         bool       `json:"enabled"`
	Direction       Direction  `json:"direction"`
	SortMethod      SortMethod `json:"sortMethod"`
	LevelSeparation float64    `json:"levelSeparation"`
	NodeSpacing     float64    `json:"nodeSpacing"`
}

// PhysicsConfig selects a solver and its parameters. It marshals the
// parameters under the solver's own key, as vis-network expects.
type PhysicsConfig struct {
	Enabled       bool
	Solver        string
	Params        SolverParams
	Stabilization Stabilization
	MinVelocity   float64
	MaxVelocity   float64
	Timestep      float64
}

// SolverParams are the force parameters of one solver. Repulsion is
// expressed either as GravitationalConstant (barnesHut, forceAtlas2Based)
// or as NodeDistance (hierarchicalRepulsion).
type SolverParams struct {
	GravitationalConstant float64 `json:"gravitationalConstant"`
	NodeDistance          float64 `json:"nodeDistance"`
	CentralGravity        float64 `json:"centralGravity"`
	SpringLength          float64 `json:"springLength"`
	SpringConstant        float64 `json:"springConstant"`
	Damping               float64 `json:"damping"`
	AvoidOverlap          float64 `json:"avoidOverlap"`
}

// Stabilization bounds the settling pass.
type Stabilization struct {
	Enabled    bool `json:"enabled"`
	Iterations int  `json:"iterations"`
}

// MarshalJSON implements json.Marshaler.
func (p PhysicsConfig) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"enabled":       p.Enabled,
		"solver":        p.Solver,
		"stabilization": p.Stabilization,
		"minVelocity":   p.MinVelocity,
		"maxVelocity":   p.MaxVelocity,
		"timestep":      p.Timestep,
	}
	m[p.Solver] = p.Params.fields(p.Solver)
	return json.Marshal(m)
}

// fields returns the parameters solver reads. Only the repulsion key that
// belongs to the solver is written; a zero value is kept as set.
func (sp SolverParams) fields(solver string) map[string]float64 {
	m := map[string]float64{
		"centralGravity": sp.CentralGravity,
		"springLength":   sp.SpringLength,
		"springConstant": sp.SpringConstant,
		"damping":        sp.Damping,
		"avoidOverlap":   sp.AvoidOverlap,
	}
	if solver == SolverHierarchicalRepulsion {
		m["nodeDistance"] = sp.NodeDistance
	} else {
		m["gravitationalConstant"] = sp.GravitationalConstant
	}
	return m
}

// EdgeConfig styles edges.
type EdgeConfig struct {
	Arrows string     `json:"arrows"`
	Color  EdgeColors `json:"color"`
	Smooth Smooth     `json:"smooth"`
}

// EdgeColors sets the edge line color.
type EdgeColors struct {
	Color string `json:"color"`
}

// Smooth configures curved edges.
type Smooth struct {
	Enabled        bool    `json:"enabled"`
	Type           string  `json:"type"`
	ForceDirection string  `json:"forceDirection,omitempty"`
	Roundness      float64 `json:"roundness"`
}

// NodeConfig styles nodes. Fill and font colors are set per node.
type NodeConfig struct {
	Shape string     `json:"shape"`
	Color NodeColors `json:"color"`
}

// NodeColors sets node border colors.
type NodeColors struct {
	Border string `json:"border"`
}

// Graphviz is the static rendering equivalent of the layout.
type Graphviz struct {
	Engine  string
	RankDir string
	// K is the fdp ideal edge length in inches; zero leaves the default.
	K float64
}

// Resolve builds the complete configuration for a mode variant.
func Resolve(opts Options) Config {
	cfg := Config{
		Mode: opts.Mode(),
		Physics: PhysicsConfig{
			Enabled:       true,
			Stabilization: Stabilization{Enabled: true, Iterations: StabilizationCap},
			MinVelocity:   0.75,
			MaxVelocity:   50,
			Timestep:      0.5,
		},
		Edges: EdgeConfig{
			Arrows: "to",
			Color:  EdgeColors{Color: EdgeColor},
			Smooth: Smooth{Enabled: true, Type: "dynamic", Roundness: 0.5},
		},
		Nodes: NodeConfig{Shape: NodeShape, Color: NodeColors{Border: NodeBorderColor}},
	}

	switch o := opts.(type) {
	case HierarchicalOptions:
		cfg.Layout.Hierarchical = &HierarchicalConfig{
			Enabled:         true,
			Direction:       o.Direction,
			SortMethod:      o.SortMethod,
			LevelSeparation: LevelSeparation,
			NodeSpacing:     NodeSpacing,
		}
		cfg.Physics.Solver = SolverHierarchicalRepulsion
		cfg.Physics.Params = SolverParams{
			NodeDistance:   120,
			CentralGravity: 0,
			SpringLength:   100,
			SpringConstant: 0.01,
			Damping:        0.09,
		}
		force := "horizontal"
		if o.Direction.Vertical() {
			force = "vertical"
		}
		cfg.Edges.Smooth = Smooth{Enabled: true, Type: "cubicBezier", ForceDirection: force, Roundness: 0.4}
		cfg.Graphviz = Graphviz{Engine: EngineDot, RankDir: o.Direction.RankDir()}

	case CircularOptions:
		cfg.Physics.Solver = SolverForceAtlas2Based
		cfg.Physics.Params = SolverParams{
			GravitationalConstant: o.GravitationalConstant(),
			CentralGravity:        o.CentralGravity,
			SpringLength:          o.SpringLength,
			SpringConstant:        o.SpringConstant,
			Damping:               0.4,
		}
		cfg.Graphviz = Graphviz{Engine: EngineFdp, K: o.SpringLength / 72}

	default:
		cfg.Physics.Solver = SolverBarnesHut
		cfg.Physics.Params = SolverParams{
			GravitationalConstant: -2000,
			CentralGravity:        0.3,
			SpringLength:          95,
			SpringConstant:        0.04,
			Damping:               0.09,
		}
		cfg.Graphviz = Graphviz{Engine: EngineNeato}
	}
	return cfg
}

// Key identifies the configuration for caching.
func (c Config) Key() string {
	data, _ := json.Marshal(c)
	return fmt.Sprintf("%s|%+v|%s", c.Mode, c.Graphviz, data)
}
