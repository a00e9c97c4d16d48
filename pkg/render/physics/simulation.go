package physics

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
)

// hierarchicalSteepness shapes the short-range repulsion of the
// hierarchical solver.
const hierarchicalSteepness = 0.05

type body struct {
	id     string
	x, y   float64
	vx, vy float64
	weight float64 // degree weighting for forceAtlas2Based
	level  int
	pinned bool // level axis fixed
}

type spring struct{ a, b int }

// Simulation is a force simulation over one graph. It is not safe for
// concurrent use.
type Simulation struct {
	graph  graph.Graph
	cfg    layout.Config
	width  float64
	height float64

	bodies  []body
	index   map[string]int
	springs []spring
	levels  map[string]int

	iterations int
	lastSpeed  float64
	rng        *rand.Rand
}

// New creates a simulation with seeded initial positions.
func New(g graph.Graph, cfg layout.Config, width, height float64) (*Simulation, error) {
	s := &Simulation{cfg: cfg, width: width, height: height}
	s.reseed()
	if err := s.load(g, nil); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) reseed() {
	seed := uint64(s.cfg.Layout.RandomSeed)
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// load replaces the graph. Nodes found in keep retain their position.
func (s *Simulation) load(g graph.Graph, keep map[string]graph.Point) error {
	levels, err := s.computeLevels(g)
	if err != nil {
		return err
	}

	s.graph = g
	s.levels = levels
	s.index = make(map[string]int, len(g.Nodes))
	s.bodies = make([]body, len(g.Nodes))
	for i, n := range g.Nodes {
		s.index[n.ID] = i
		s.bodies[i] = body{id: n.ID, weight: 1}
	}

	s.springs = s.springs[:0]
	for _, e := range g.Edges {
		a, okA := s.index[e.From]
		b, okB := s.index[e.To]
		if !okA || !okB || a == b {
			continue
		}
		s.springs = append(s.springs, spring{a, b})
		s.bodies[a].weight++
		s.bodies[b].weight++
	}

	s.place(keep)
	s.iterations = 0
	s.lastSpeed = math.Inf(1)
	return nil
}

func (s *Simulation) computeLevels(g graph.Graph) (map[string]int, error) {
	h := s.cfg.Layout.Hierarchical
	if h == nil || !h.Enabled {
		return nil, nil
	}
	return Levels(g, h.SortMethod)
}

// SetGraph replaces the nodes and edges. Nodes that survive keep their
// position; new nodes are placed as on construction.
func (s *Simulation) SetGraph(g graph.Graph) error {
	return s.load(g, s.Positions())
}

// SetConfig replaces the configuration. Changing the mode or the
// hierarchical settings places every node again; any other change keeps
// the current positions.
func (s *Simulation) SetConfig(cfg layout.Config) error {
	replace := cfg.Mode != s.cfg.Mode || !sameHierarchy(cfg.Layout.Hierarchical, s.cfg.Layout.Hierarchical)
	s.cfg = cfg
	if !replace {
		s.iterations = 0
		s.lastSpeed = math.Inf(1)
		return nil
	}
	s.reseed()
	return s.load(s.graph, nil)
}

func sameHierarchy(a, b *layout.HierarchicalConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// =============================================================================
// Placement
// =============================================================================

func (s *Simulation) place(keep map[string]graph.Point) {
	n := len(s.bodies)
	p := s.cfg.Physics.Params
	spread := math.Max(p.SpringLength, layout.NodeSpacing)

	for i := range s.bodies {
		b := &s.bodies[i]
		if pt, ok := keep[b.id]; ok {
			b.x, b.y = pt.X, pt.Y
			continue
		}
		switch s.cfg.Mode {
		case layout.ModeCircular:
			radius := math.Max(spread, float64(n)*spread/(2*math.Pi))
			angle := 2 * math.Pi * float64(i) / float64(max(n, 1))
			b.x, b.y = radius*math.Cos(angle), radius*math.Sin(angle)
		default:
			r := spread * math.Sqrt(float64(n)) / 2
			b.x = (s.rng.Float64()*2 - 1) * r
			b.y = (s.rng.Float64()*2 - 1) * r
		}
	}

	if s.levels != nil {
		s.pinLevels(keep)
	}
}

// pinLevels fixes each body's level axis and spreads the nodes of a level
// along the free axis.
func (s *Simulation) pinLevels(keep map[string]graph.Point) {
	h := s.cfg.Layout.Hierarchical
	sign := 1.0
	if h.Direction == layout.DirectionDU || h.Direction == layout.DirectionRL {
		sign = -1
	}

	for lvl, ids := range groupLevels(s.graph, s.levels) {
		along := sign * float64(lvl) * h.LevelSeparation
		for k, id := range ids {
			b := &s.bodies[s.index[id]]
			b.level, b.pinned = lvl, true
			across := (float64(k) - float64(len(ids)-1)/2) * h.NodeSpacing
			if pt, ok := keep[id]; ok {
				if h.Direction.Vertical() {
					across = pt.X
				} else {
					across = pt.Y
				}
			}
			if h.Direction.Vertical() {
				b.x, b.y = across, along
			} else {
				b.x, b.y = along, across
			}
		}
	}
}

// =============================================================================
// Forces
// =============================================================================

// Step advances the simulation by one timestep and returns the speed of
// the fastest node.
func (s *Simulation) Step() float64 {
	n := len(s.bodies)
	fx := make([]float64, n)
	fy := make([]float64, n)
	ph := s.cfg.Physics
	p := ph.Params

	switch ph.Solver {
	case layout.SolverHierarchicalRepulsion:
		s.repelShortRange(fx, fy, p.NodeDistance)
	default:
		s.repelGravitational(fx, fy, p.GravitationalConstant, ph.Solver == layout.SolverForceAtlas2Based)
	}
	s.pullSprings(fx, fy, p.SpringLength, p.SpringConstant)
	s.pullCentral(fx, fy, p.CentralGravity, ph.Solver == layout.SolverForceAtlas2Based)

	vertical := true
	if h := s.cfg.Layout.Hierarchical; h != nil {
		vertical = h.Direction.Vertical()
	}

	fastest := 0.0
	for i := range s.bodies {
		b := &s.bodies[i]
		b.vx = clamp(b.vx+(fx[i]-p.Damping*b.vx)*ph.Timestep, ph.MaxVelocity)
		b.vy = clamp(b.vy+(fy[i]-p.Damping*b.vy)*ph.Timestep, ph.MaxVelocity)
		if b.pinned {
			if vertical {
				b.vy = 0
			} else {
				b.vx = 0
			}
		}
		b.x += b.vx * ph.Timestep
		b.y += b.vy * ph.Timestep
		fastest = math.Max(fastest, math.Hypot(b.vx, b.vy))
	}

	s.iterations++
	s.lastSpeed = fastest
	return fastest
}

func (s *Simulation) repelGravitational(fx, fy []float64, g float64, weighted bool) {
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := &s.bodies[i], &s.bodies[j]
			dx, dy, d := s.separation(a, b)
			mass := 1.0
			if weighted {
				mass = a.weight * b.weight
			}
			f := g * mass / (d * d * d)
			fx[i] += dx * f
			fy[i] += dy * f
			fx[j] -= dx * f
			fy[j] -= dy * f
		}
	}
}

func (s *Simulation) repelShortRange(fx, fy []float64, nodeDistance float64) {
	for i := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			a, b := &s.bodies[i], &s.bodies[j]
			dx, dy, d := s.separation(a, b)
			if d >= nodeDistance {
				continue
			}
			f := math.Pow(hierarchicalSteepness*nodeDistance, 2) - math.Pow(hierarchicalSteepness*d, 2)
			f /= d
			fx[i] -= dx * f
			fy[i] -= dy * f
			fx[j] += dx * f
			fy[j] += dy * f
		}
	}
}

// separation returns the vector from a to b and its length. Coincident
// bodies are nudged apart in a seeded direction.
func (s *Simulation) separation(a, b *body) (dx, dy, d float64) {
	dx, dy = b.x-a.x, b.y-a.y
	d = math.Hypot(dx, dy)
	if d == 0 {
		angle := s.rng.Float64() * 2 * math.Pi
		dx, dy, d = 0.1*math.Cos(angle), 0.1*math.Sin(angle), 0.1
	}
	return dx, dy, d
}

func (s *Simulation) pullSprings(fx, fy []float64, length, k float64) {
	for _, sp := range s.springs {
		a, b := &s.bodies[sp.a], &s.bodies[sp.b]
		dx, dy := a.x-b.x, a.y-b.y
		d := math.Max(math.Hypot(dx, dy), 0.01)
		f := k * (length - d) / d
		fx[sp.a] += dx * f
		fy[sp.a] += dy * f
		fx[sp.b] -= dx * f
		fy[sp.b] -= dy * f
	}
}

func (s *Simulation) pullCentral(fx, fy []float64, gravity float64, weighted bool) {
	if gravity == 0 {
		return
	}
	for i, b := range s.bodies {
		d := math.Hypot(b.x, b.y)
		if d == 0 {
			continue
		}
		f := gravity / d
		if weighted {
			f *= b.weight
		}
		fx[i] -= b.x * f
		fy[i] -= b.y * f
	}
}

func clamp(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return math.Max(-limit, math.Min(limit, v))
}

// =============================================================================
// Running
// =============================================================================

// Converged reports whether the last step was slower than the minimum
// velocity.
func (s *Simulation) Converged() bool {
	return s.lastSpeed < s.cfg.Physics.MinVelocity
}

// Done reports whether a pass should stop: converged, out of iterations,
// or physics disabled.
func (s *Simulation) Done() bool {
	if !s.cfg.Physics.Enabled || len(s.bodies) == 0 {
		return true
	}
	return s.Converged() || s.iterations >= s.maxIterations()
}

func (s *Simulation) maxIterations() int {
	if st := s.cfg.Physics.Stabilization; st.Enabled && st.Iterations > 0 {
		return st.Iterations
	}
	return layout.StabilizationCap
}

// Iterations returns the number of steps since the last restart.
func (s *Simulation) Iterations() int { return s.iterations }

// Restart resets the iteration count so another pass can run.
func (s *Simulation) Restart() {
	s.iterations = 0
	s.lastSpeed = math.Inf(1)
}

// Run steps until Done or ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	for !s.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
	}
	return nil
}

// Positions returns a copy of every node's position.
func (s *Simulation) Positions() map[string]graph.Point {
	out := make(map[string]graph.Point, len(s.bodies))
	for _, b := range s.bodies {
		out[b.id] = graph.Point{X: b.x, Y: b.y}
	}
	return out
}

// Layout reports the current state as a serializable layout.
func (s *Simulation) Layout() graph.Layout {
	l := graph.Layout{
		Mode:       string(s.cfg.Mode),
		Nodes:      slices.Clone(s.graph.Nodes),
		Edges:      slices.Clone(s.graph.Edges),
		Positions:  s.Positions(),
		Iterations: s.iterations,
		Converged:  s.Converged(),
	}
	if s.levels != nil {
		l.Levels = groupLevels(s.graph, s.levels)
	}
	if len(l.Positions) > 0 {
		lo, hi := l.Bounds()
		l.Width = hi.X - lo.X + 2*layout.NodeSpacing
		l.Height = hi.Y - lo.Y + 2*layout.NodeSpacing
	} else {
		l.Width, l.Height = s.width, s.height
	}
	return l
}

// Stabilize runs a headless simulation of g to completion and returns the
// settled layout.
func Stabilize(ctx context.Context, g graph.Graph, cfg layout.Config, width, height float64) (graph.Layout, error) {
	s, err := New(g, cfg, width, height)
	if err != nil {
		return graph.Layout{}, err
	}
	if err := s.Run(ctx); err != nil {
		return graph.Layout{}, err
	}
	return s.Layout(), nil
}
