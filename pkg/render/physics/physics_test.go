package physics

import (
	"context"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
)

func foxRabbitGrass() graph.Graph {
	return foodweb.Build([]creature.Creature{
		creature.New("Fox", "Rabbit", "#ff0000"),
		creature.New("Rabbit", "Grass", "#f0f0f0"),
	})
}

func configFor(t *testing.T, updates ...layout.Update) layout.Config {
	t.Helper()
	s, err := layout.DefaultSettings().Apply(updates...)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	return s.Config()
}

func TestLevels(t *testing.T) {
	g := foodweb.Build([]creature.Creature{
		creature.New("Fox", "Rabbit, Mouse", "#ff0000"),
		creature.New("Rabbit", "Grass", ""),
		creature.New("Mouse", "Grass, Seeds", ""),
	})

	tests := []struct {
		name   string
		method layout.SortMethod
		want   map[string]int
	}{
		{
			name:   "directed",
			method: layout.SortDirected,
			want:   map[string]int{"Grass": 0, "Seeds": 0, "Rabbit": 1, "Mouse": 1, "Fox": 2},
		},
		{
			name:   "hubsize",
			method: layout.SortHubsize,
			want:   map[string]int{"Mouse": 0, "Fox": 1, "Grass": 1, "Seeds": 1, "Rabbit": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Levels(g, tt.method)
			if err != nil {
				t.Fatalf("Levels() error: %v", err)
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("Levels()[%s] = %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

func TestLevels_SelfLoopAndCycle(t *testing.T) {
	g := foodweb.Build([]creature.Creature{
		creature.New("Wolf", "Wolf, Deer", "#ffffff"),
		creature.New("Deer", "Wolf", ""),
	})
	if _, err := Levels(g, layout.SortDirected); err != nil {
		t.Fatalf("Levels() error: %v", err)
	}
}

func TestStabilize_Deterministic(t *testing.T) {
	ctx := context.Background()
	g := foxRabbitGrass()
	cfg := layout.DefaultSettings().Config()

	a, err := Stabilize(ctx, g, cfg, 800, 600)
	if err != nil {
		t.Fatalf("Stabilize() error: %v", err)
	}
	b, err := Stabilize(ctx, g, cfg, 800, 600)
	if err != nil {
		t.Fatalf("Stabilize() error: %v", err)
	}

	if len(a.Positions) != 3 {
		t.Fatalf("len(Positions) = %d, want 3", len(a.Positions))
	}
	for id, p := range a.Positions {
		if b.Positions[id] != p {
			t.Errorf("Positions[%s] = %v then %v, want identical runs", id, p, b.Positions[id])
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("Positions[%s] = %v, want finite", id, p)
		}
	}
	if a.Iterations == 0 || a.Iterations > layout.StabilizationCap {
		t.Errorf("Iterations = %d, want 1..%d", a.Iterations, layout.StabilizationCap)
	}
}

func TestStabilize_Hierarchical(t *testing.T) {
	tests := []struct {
		direction layout.Direction
		axis      func(graph.Point) float64
		sign      float64
	}{
		{layout.DirectionUD, func(p graph.Point) float64 { return p.Y }, 1},
		{layout.DirectionDU, func(p graph.Point) float64 { return p.Y }, -1},
		{layout.DirectionLR, func(p graph.Point) float64 { return p.X }, 1},
		{layout.DirectionRL, func(p graph.Point) float64 { return p.X }, -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			cfg := configFor(t, layout.WithMode(layout.ModeHierarchical), layout.WithDirection(tt.direction))
			l, err := Stabilize(context.Background(), foxRabbitGrass(), cfg, 800, 600)
			if err != nil {
				t.Fatalf("Stabilize() error: %v", err)
			}

			want := map[string]float64{"Grass": 0, "Rabbit": 1, "Fox": 2}
			for id, lvl := range want {
				got := tt.axis(l.Positions[id])
				if exp := tt.sign * lvl * layout.LevelSeparation; got != exp {
					t.Errorf("%s level coordinate = %v, want %v", id, got, exp)
				}
			}
			if len(l.Levels) != 3 {
				t.Errorf("len(Levels) = %d, want 3", len(l.Levels))
			}
		})
	}
}

func TestNew_CircularStartsOnRing(t *testing.T) {
	cfg := configFor(t, layout.WithMode(layout.ModeCircular))
	sim, err := New(foxRabbitGrass(), cfg, 800, 600)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var radius float64
	for id, p := range sim.Positions() {
		r := math.Hypot(p.X, p.Y)
		if radius == 0 {
			radius = r
		}
		if math.Abs(r-radius) > 1e-9 {
			t.Errorf("%s radius = %v, want %v", id, r, radius)
		}
	}
}

func TestSimulation_SetGraphKeepsPositions(t *testing.T) {
	cfg := layout.DefaultSettings().Config()
	sim, err := New(foxRabbitGrass(), cfg, 800, 600)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	before := sim.Positions()

	bigger := foodweb.Build([]creature.Creature{
		creature.New("Fox", "Rabbit", "#ff0000"),
		creature.New("Rabbit", "Grass", "#f0f0f0"),
		creature.New("Owl", "Rabbit", "#00ff00"),
	})
	if err := sim.SetGraph(bigger); err != nil {
		t.Fatalf("SetGraph() error: %v", err)
	}
	after := sim.Positions()

	for id, p := range before {
		if after[id] != p {
			t.Errorf("position of %s moved from %v to %v", id, p, after[id])
		}
	}
	if _, ok := after["Owl"]; !ok {
		t.Error("new node Owl has no position")
	}
}

func TestSimulation_PhysicsDisabled(t *testing.T) {
	cfg := layout.DefaultSettings().Config()
	cfg.Physics.Enabled = false
	sim, err := New(foxRabbitGrass(), cfg, 800, 600)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if sim.Iterations() != 0 {
		t.Errorf("Iterations() = %d, want 0", sim.Iterations())
	}
}

func TestSimulation_RunCancelled(t *testing.T) {
	sim, err := New(foxRabbitGrass(), layout.DefaultSettings().Config(), 800, 600)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sim.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestRenderer_PresentsStabilizedFrames(t *testing.T) {
	frames := make(chan render.Frame, 64)
	surface := render.NewSurface(800, 600, func(f render.Frame) {
		select {
		case frames <- f:
		default:
		}
	})
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := render.NewSession(surface, Factory(logger), render.WithLogger(logger), render.WithBackend(Backend))
	defer s.Close()

	ctx := context.Background()
	if err := s.Apply(ctx, foxRabbitGrass(), layout.DefaultSettings().Config()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	waitFor(t, frames, render.ReasonStabilized)

	if !s.Reorganize() {
		t.Fatal("Reorganize() = false on live session")
	}
	waitFor(t, frames, render.ReasonStabilized)

	cfg := configFor(t, layout.WithMode(layout.ModeCircular))
	if err := s.Apply(ctx, foxRabbitGrass(), cfg); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	f := waitFor(t, frames, render.ReasonStabilized)
	if len(f.Positions) != 3 {
		t.Errorf("len(Positions) = %d, want 3", len(f.Positions))
	}
}

func waitFor(t *testing.T, frames <-chan render.Frame, reason render.Reason) render.Frame {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case f := <-frames:
			if f.Reason == reason {
				return f
			}
		case <-timeout:
			t.Fatalf("no %s frame within timeout", reason)
			return render.Frame{}
		}
	}
}
