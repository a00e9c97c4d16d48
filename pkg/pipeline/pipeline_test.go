package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/cache"
	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render/visjs"
)

const snapshot = `[
  {"name": "Fox", "eats": ["Rabbit"], "color": "#ff0000"},
  {"name": "Rabbit", "eats": ["Grass"], "color": "#f0f0f0"}
]`

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"html", false},
		{"layout", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Snapshot: []byte(snapshot)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.EffectiveSettings() != layout.DefaultSettings() {
		t.Errorf("EffectiveSettings() = %+v, want defaults", opts.EffectiveSettings())
	}
	if got := opts.Config().Layout.RandomSeed; got != DefaultSeed {
		t.Errorf("Config().Layout.RandomSeed = %d, want %d", got, DefaultSeed)
	}
}

func TestValidateAndSetDefaults_Errors(t *testing.T) {
	tooLong := 5000.0
	badMode := layout.Mode("spiral")

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad contrast", Options{Creatures: []creature.Creature{}, Contrast: "neon"}, errors.ErrCodeInvalidOption},
		{"bad patch range", Options{Creatures: []creature.Creature{}, Patch: layout.Patch{SpringLength: &tooLong}}, errors.ErrCodeInvalidOption},
		{"bad patch mode", Options{Creatures: []creature.Creature{}, Patch: layout.Patch{Mode: &badMode}}, errors.ErrCodeInvalidOption},
		{"bad settings", Options{Creatures: []creature.Creature{}, Settings: &layout.Settings{Mode: "spiral"}}, errors.ErrCodeInvalidOption},
		{"bad format", Options{Creatures: []creature.Creature{}, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"negative size", Options{Creatures: []creature.Creature{}, Width: -1}, errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsPatch(t *testing.T) {
	mode := layout.ModeHierarchical
	dir := layout.DirectionLR
	opts := Options{Creatures: []creature.Creature{}, Patch: layout.Patch{Mode: &mode, Direction: &dir}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	cfg := opts.Config()
	if cfg.Mode != layout.ModeHierarchical || cfg.Graphviz.RankDir != "LR" {
		t.Errorf("Config() = mode %s rankdir %s, want hierarchical LR", cfg.Mode, cfg.Graphviz.RankDir)
	}
}

func TestNeedsLayout(t *testing.T) {
	tests := []struct {
		formats []string
		want    bool
	}{
		{[]string{"svg"}, false},
		{[]string{"svg", "dot", "png"}, false},
		{[]string{"layout"}, true},
		{[]string{"json"}, true},
		{[]string{"svg", "html"}, true},
	}
	for _, tt := range tests {
		o := Options{Formats: tt.formats}
		if got := o.NeedsLayout(); got != tt.want {
			t.Errorf("NeedsLayout(%v) = %v, want %v", tt.formats, got, tt.want)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Creatures: []creature.Creature{}, Detailed: true, Scale: 3}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if k := opts.ArtifactKeyOpts(FormatSVG); !k.Detailed || k.Scale != 0 {
		t.Errorf("ArtifactKeyOpts(svg) = %+v, want detailed, no scale", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 {
		t.Errorf("ArtifactKeyOpts(png).Scale = %v, want 3", k.Scale)
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); k.Detailed {
		t.Error("ArtifactKeyOpts(json) should ignore Detailed")
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(FormatLayout); got != "layout.json" {
		t.Errorf("Extension(layout) = %q", got)
	}
	if got := Extension(FormatJSON); got != "vis.json" {
		t.Errorf("Extension(json) = %q", got)
	}
	if got := Extension(FormatSVG); got != "svg" {
		t.Errorf("Extension(svg) = %q", got)
	}
}

func TestRunner_Execute(t *testing.T) {
	r := quietRunner(nil)
	result, err := r.Execute(context.Background(), Options{
		Snapshot: []byte(snapshot),
		Formats:  []string{FormatDOT, FormatJSON, FormatLayout},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Stats.Creatures != 2 || result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.GraphHash != result.Graph.Hash() {
		t.Error("GraphHash does not match Graph.Hash()")
	}
	if result.Layout == nil || len(result.Layout.Positions) != 3 {
		t.Fatalf("Layout = %+v, want 3 positions", result.Layout)
	}

	if !strings.Contains(string(result.Artifacts[FormatDOT]), `"Rabbit" -> "Fox";`) {
		t.Errorf("dot artifact missing edge:\n%s", result.Artifacts[FormatDOT])
	}

	var p visjs.Payload
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &p); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(p.Nodes) != 3 || p.Nodes[0].X == nil {
		t.Errorf("json artifact nodes = %+v, want 3 positioned nodes", p.Nodes)
	}

	l, err := graph.UnmarshalLayout(result.Artifacts[FormatLayout])
	if err != nil {
		t.Fatalf("layout artifact: %v", err)
	}
	if l.Mode != string(layout.ModeDefault) {
		t.Errorf("layout mode = %q, want default", l.Mode)
	}
}

func TestRunner_ExecuteSVG(t *testing.T) {
	r := quietRunner(nil)
	result, err := r.Execute(context.Background(), Options{Snapshot: []byte(snapshot)})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Layout != nil {
		t.Error("svg-only run should not compute a layout")
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing <svg>")
	}
}

func TestRunner_YAMLSnapshot(t *testing.T) {
	yaml := "- name: Owl\n  eats: [Mouse]\n"
	result, err := quietRunner(nil).Execute(context.Background(), Options{
		Snapshot:     []byte(yaml),
		SnapshotName: "pond.yaml",
		Formats:      []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Stats.NodeCount != 2 {
		t.Errorf("NodeCount = %d, want 2", result.Stats.NodeCount)
	}
}

func TestRunner_InvalidSnapshot(t *testing.T) {
	_, err := quietRunner(nil).Execute(context.Background(), Options{Snapshot: []byte(`{"name":"Fox"}`)})
	if !errors.Is(err, errors.ErrCodeInvalidSnapshot) {
		t.Errorf("Execute() error = %v, want INVALID_SNAPSHOT", err)
	}
}

func TestRunner_Cache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	opts := Options{Snapshot: []byte(snapshot), Formats: []string{FormatDOT, FormatLayout}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("cached dot differs from rendered dot")
	}

	opts.NoCache = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("NoCache run CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestRender_LayoutWithoutPositions(t *testing.T) {
	opts := Options{Creatures: []creature.Creature{}, Formats: []string{FormatLayout}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(context.Background(), graph.Graph{}, nil, opts); err == nil {
		t.Error("Render(layout) without a layout should fail")
	}
}
