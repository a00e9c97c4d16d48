package workspace

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
)

// recorder is a renderer that remembers what it was given.
type recorder struct {
	mu         sync.Mutex
	graphs     []graph.Graph
	configs    []layout.Config
	stabilized int
}

func (r *recorder) SetData(g graph.Graph) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.graphs = append(r.graphs, g)
	return nil
}

func (r *recorder) SetOptions(cfg layout.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs = append(r.configs, cfg)
	return nil
}

func (r *recorder) Stabilize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stabilized++
}

func (r *recorder) Destroy() error { return nil }

func (r *recorder) applies() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.graphs)
}

func (r *recorder) stabilizations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stabilized
}

func (r *recorder) last() (graph.Graph, layout.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graphs[len(r.graphs)-1], r.configs[len(r.configs)-1]
}

type harness struct {
	ws   *Workspace
	rec  *recorder
	fail int // constructions left to fail
	mu   sync.Mutex
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{rec: &recorder{}}
	factory := func(_ context.Context, _ *render.Surface, g graph.Graph, cfg layout.Config) (render.Renderer, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.fail > 0 {
			h.fail--
			return nil, stderrors.New("no display")
		}
		h.rec.mu.Lock()
		h.rec.graphs = append(h.rec.graphs, g)
		h.rec.configs = append(h.rec.configs, cfg)
		h.rec.mu.Unlock()
		return h.rec, nil
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	session := render.NewSession(render.NewSurface(800, 600, nil), factory, render.WithLogger(logger))
	h.ws = New(session, append([]Option{WithLogger(logger)}, opts...)...)
	t.Cleanup(func() { h.ws.Close() })
	return h
}

func addFoxRabbit(t *testing.T, ws *Workspace) {
	t.Helper()
	ctx := context.Background()
	if _, err := ws.Add(ctx, "Fox", "Rabbit", "#ff0000"); err != nil {
		t.Fatalf("Add(Fox) error: %v", err)
	}
	if _, err := ws.Add(ctx, "Rabbit", "Grass", "#f0f0f0"); err != nil {
		t.Fatalf("Add(Rabbit) error: %v", err)
	}
}

func TestWorkspace_AddSyncs(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)

	if got := h.rec.applies(); got != 2 {
		t.Errorf("applies = %d, want 2", got)
	}
	g, _ := h.rec.last()
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("last graph = %d nodes %d edges, want 3/2", g.NodeCount(), g.EdgeCount())
	}

	snap := h.ws.Snapshot()
	if snap.State != render.StateLive {
		t.Errorf("State = %v, want live", snap.State)
	}
	if !snap.Graph.Equal(g) {
		t.Error("Snapshot().Graph differs from the applied graph")
	}
	if len(snap.Creatures) != 2 || snap.Revision == 0 {
		t.Errorf("Snapshot() = %d creatures rev %d", len(snap.Creatures), snap.Revision)
	}
}

func TestWorkspace_FailedMutationDoesNotSync(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)
	ctx := context.Background()

	tests := []struct {
		name string
		op   func() error
		code errors.Code
	}{
		{"duplicate", func() error { _, err := h.ws.Add(ctx, "Fox", "", ""); return err }, errors.ErrCodeDuplicateName},
		{"blank", func() error { _, err := h.ws.Add(ctx, "  ", "", ""); return err }, errors.ErrCodeBlankName},
		{"replace out of range", func() error { return h.ws.Replace(ctx, 9, "X", "", "") }, errors.ErrCodeOutOfRange},
		{"remove out of range", func() error { return h.ws.Remove(ctx, -1) }, errors.ErrCodeOutOfRange},
		{"import object", func() error { return h.ws.Import(ctx, []byte("{}")) }, errors.ErrCodeInvalidSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := h.rec.applies()
			if err := tt.op(); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if got := h.rec.applies(); got != before {
				t.Errorf("applies = %d, want %d", got, before)
			}
			if got := len(h.ws.Creatures()); got != 2 {
				t.Errorf("creatures = %d, want 2", got)
			}
		})
	}
}

func TestWorkspace_ModeSwitchKeepsDataset(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)
	ctx := context.Background()

	steps := []layout.Mode{layout.ModeHierarchical, layout.ModeCircular, layout.ModeHierarchical}
	var graphs []graph.Graph
	var configs []layout.Config
	for _, m := range steps {
		if _, err := h.ws.UpdateSettings(ctx, layout.WithMode(m)); err != nil {
			t.Fatalf("UpdateSettings(%s) error: %v", m, err)
		}
		g, cfg := h.rec.last()
		graphs = append(graphs, g)
		configs = append(configs, cfg)
	}

	for i := 1; i < len(graphs); i++ {
		if !graphs[i].Equal(graphs[0]) {
			t.Errorf("graph after switch %d differs from the first", i)
		}
	}
	if configs[0].Key() == configs[1].Key() {
		t.Error("hierarchical and circular configs should differ")
	}
	if configs[0].Key() != configs[2].Key() {
		t.Error("switching back should restore the hierarchical config")
	}
}

func TestWorkspace_UpdateSettingsInvalid(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)
	before := h.ws.Settings()

	_, err := h.ws.UpdateSettings(context.Background(), layout.WithSpringLength(200), layout.WithGravity(1e9))
	if !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("UpdateSettings() error = %v, want INVALID_OPTION", err)
	}
	if h.ws.Settings() != before {
		t.Error("invalid update changed the settings")
	}
}

func TestWorkspace_SettingsOnlyApplyOnChange(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)
	before := h.rec.applies()

	if err := h.ws.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if _, err := h.ws.UpdateSettings(context.Background(), layout.WithMode(layout.ModeDefault)); err != nil {
		t.Fatal(err)
	}
	if got := h.rec.applies(); got != before {
		t.Errorf("applies = %d, want %d for unchanged state", got, before)
	}
}

func TestWorkspace_RenderFailureRetried(t *testing.T) {
	h := newHarness(t)
	h.fail = 1
	ctx := context.Background()

	if _, err := h.ws.Add(ctx, "Fox", "Rabbit", ""); err != nil {
		t.Fatalf("Add() error = %v, want nil (render failures are logged)", err)
	}
	if got := h.ws.Snapshot().State; got != render.StateUninitialized {
		t.Errorf("State = %v after failed construct, want uninitialized", got)
	}

	if err := h.ws.Sync(ctx); err != nil {
		t.Fatalf("Sync() retry error: %v", err)
	}
	if got := h.ws.Snapshot().State; got != render.StateLive {
		t.Errorf("State = %v after retry, want live", got)
	}
}

func TestWorkspace_Edit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.ws.Edit(ctx, func(e *creature.Editor) error {
		e.Draft = creature.Draft{Name: "Owl", Eats: "Mouse, Vole", Color: ""}
		return e.Add()
	})
	if err != nil {
		t.Fatalf("Edit(add) error: %v", err)
	}
	if g, _ := h.rec.last(); g.NodeCount() != 3 {
		t.Errorf("nodes = %d, want 3", g.NodeCount())
	}

	err = h.ws.Edit(ctx, func(e *creature.Editor) error { return e.Import([]byte("{}")) })
	if !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
		t.Errorf("Edit(import) error = %v, want INVALID_SNAPSHOT", err)
	}
	snap := h.ws.Snapshot()
	if !snap.Failed {
		t.Error("Snapshot().Failed = false after failed import")
	}
	if len(snap.Creatures) != 1 {
		t.Errorf("creatures = %d, want 1", len(snap.Creatures))
	}
}

func TestWorkspace_DirectMutationsSetFlags(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)
	ctx := context.Background()

	tests := []struct {
		name      string
		op        func() error
		duplicate bool
		failed    bool
	}{
		{"duplicate add", func() error { _, err := h.ws.Add(ctx, "Fox", "", ""); return err }, true, false},
		{"add", func() error { _, err := h.ws.Add(ctx, "Owl", "Mouse", ""); return err }, false, false},
		{"blank add", func() error { _, err := h.ws.Add(ctx, " ", "", ""); return err }, true, false},
		{"duplicate replace", func() error { return h.ws.Replace(ctx, 0, "Rabbit", "", "") }, true, false},
		{"replace", func() error { return h.ws.Replace(ctx, 0, "Arctic Fox", "Rabbit", "") }, false, false},
		{"import object", func() error { return h.ws.Import(ctx, []byte("{}")) }, false, true},
		{"yaml import", func() error { return h.ws.ImportFile(ctx, "web.yaml", []byte("- name: Fox\n")) }, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.op()
			snap := h.ws.Snapshot()
			if snap.Duplicate != tt.duplicate {
				t.Errorf("Snapshot().Duplicate = %v, want %v", snap.Duplicate, tt.duplicate)
			}
			if snap.Failed != tt.failed {
				t.Errorf("Snapshot().Failed = %v, want %v", snap.Failed, tt.failed)
			}
		})
	}
}

func TestWorkspace_ExportImportRoundTrip(t *testing.T) {
	h := newHarness(t)
	addFoxRabbit(t, h.ws)
	ctx := context.Background()

	data, err := h.ws.Export()
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	before := h.ws.Creatures()
	if err := h.ws.Remove(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if err := h.ws.Import(ctx, data); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	after := h.ws.Creatures()
	if len(after) != len(before) {
		t.Fatalf("creatures = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].Name != after[i].Name || before[i].Color != after[i].Color || before[i].EatsText() != after[i].EatsText() {
			t.Errorf("creature %d = %+v, want %+v", i, after[i], before[i])
		}
	}
}

func TestWorkspace_Reorganize(t *testing.T) {
	h := newHarness(t)
	if h.ws.Reorganize() {
		t.Error("Reorganize() = true before anything was rendered")
	}

	addFoxRabbit(t, h.ws)
	if !h.ws.Reorganize() {
		t.Error("Reorganize() = false on a live session")
	}

	h.ws.Signals() <- render.Reorganize
	deadline := time.Now().Add(2 * time.Second)
	for h.rec.stabilizations() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("stabilizations = %d, want 2", h.rec.stabilizations())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWorkspace_Seed(t *testing.T) {
	h := newHarness(t, WithSeed(7))
	addFoxRabbit(t, h.ws)
	if _, cfg := h.rec.last(); cfg.Layout.RandomSeed != 7 {
		t.Errorf("RandomSeed = %d, want 7", cfg.Layout.RandomSeed)
	}
}

func TestWorkspace_NilSession(t *testing.T) {
	ws := New(nil, WithLogger(log.NewWithOptions(io.Discard, log.Options{})))
	if _, err := ws.Add(context.Background(), "Wolf", "Wolf", "#ffffff"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	g := ws.Graph()
	if g.EdgeCount() != 1 || g.Edges[0].From != "Wolf" || g.Edges[0].To != "Wolf" {
		t.Errorf("Graph() edges = %+v, want Wolf self-loop", g.Edges)
	}
	if ws.Reorganize() {
		t.Error("Reorganize() = true without a session")
	}
	if err := ws.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestWorkspace_Concurrent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("c%d", i)
			if _, err := h.ws.Add(ctx, name, "Grass", ""); err != nil {
				t.Errorf("Add(%s) error: %v", name, err)
			}
			_ = h.ws.Snapshot()
		}(i)
	}
	wg.Wait()

	if got := len(h.ws.Creatures()); got != 20 {
		t.Errorf("creatures = %d, want 20", got)
	}
	if g, _ := h.rec.last(); g.NodeCount() != 21 {
		t.Errorf("last applied graph nodes = %d, want 21", g.NodeCount())
	}
}
