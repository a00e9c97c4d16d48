package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/foodweb/pkg/layout"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,dot,json", []string{"svg", "dot", "json"}},
		{" png , pdf ,", []string{"png", "pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "webs/food-web.json", "webs/food-web"},
		{"out/web.svg", "food-web.json", "out/web"},
		{"out/web", "food-web.json", "out/web"},
		{"out/web.v2", "food-web.json", "out/web.v2"},
		{"out/web.layout.json", "food-web.json", "out/web"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("picture.png", "food-web.json", []string{"svg"})
	if got["svg"] != "picture.png" {
		t.Errorf("single format path = %q, want output as given", got["svg"])
	}

	got = outputPaths("", "food-web.json", []string{"svg", "json", "layout"})
	want := map[string]string{
		"svg":    "food-web.svg",
		"json":   "food-web.vis.json",
		"layout": "food-web.layout.json",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputPaths() = %v, want %v", got, want)
	}
}

func TestLayoutFlags_Patch(t *testing.T) {
	var lf layoutFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	lf.register(fs)

	if p := lf.patch(fs); !p.Empty() {
		t.Errorf("patch() without flags = %+v, want empty", p)
	}

	if err := fs.Parse([]string{"--mode", "hierarchical", "--direction", "lr", "--gravity", "80"}); err != nil {
		t.Fatal(err)
	}
	p := lf.patch(fs)
	if p.Mode == nil || *p.Mode != layout.ModeHierarchical {
		t.Errorf("patch().Mode = %v, want hierarchical", p.Mode)
	}
	if p.Direction == nil || *p.Direction != layout.DirectionLR {
		t.Errorf("patch().Direction = %v, want LR", p.Direction)
	}
	if p.Gravity == nil || *p.Gravity != 80 {
		t.Errorf("patch().Gravity = %v, want 80", p.Gravity)
	}
	if p.SpringLength != nil || p.SortMethod != nil {
		t.Error("patch() set flags that were not given")
	}
}

func TestRenderCommand(t *testing.T) {
	env := newTestEnv(t, "")
	input := env.writeSnapshot(t, "food-web.json", foxRabbitJSON)

	if _, err := env.run(t, "render", input, "-f", "dot,json", "--mode", "hierarchical"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	dot, err := os.ReadFile(filepath.Join(env.dir, "food-web.dot"))
	if err != nil {
		t.Fatalf("dot output missing: %v", err)
	}
	for _, want := range []string{"layout=dot;", `"Rabbit" -> "Fox";`} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("dot output missing %s", want)
		}
	}
	if _, err := os.Stat(filepath.Join(env.dir, "food-web.vis.json")); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}
	if _, err := readSnapshot(input); err != nil {
		t.Errorf("snapshot no longer readable after render: %v", err)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	env := newTestEnv(t, "")
	input := env.writeSnapshot(t, "food-web.json", foxRabbitJSON)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", input, "-f", "gif"}},
		{"unknown mode", []string{"render", input, "--mode", "spiral"}},
		{"gravity out of range", []string{"render", input, "--gravity", "1e9"}},
		{"missing snapshot", []string{"render", filepath.Join(env.dir, "none.json")}},
		{"no args", []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run(t, tt.args...); err == nil {
				t.Errorf("%v: error = nil, want error", tt.args)
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	env := newTestEnv(t, "")
	input := env.writeSnapshot(t, "food-web.json", foxRabbitJSON)
	out := filepath.Join(env.dir, "positions.json")

	if _, err := env.run(t, "layout", input, "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("layout output missing: %v", err)
	}
	for _, id := range []string{"Fox", "Rabbit", "Grass"} {
		if !strings.Contains(string(data), `"`+id+`"`) {
			t.Errorf("layout output missing node %s", id)
		}
	}
}
