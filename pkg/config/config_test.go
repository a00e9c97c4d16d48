package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if !cfg.Store.UniqueEdits {
		t.Error("Default() should enforce unique edits")
	}
	if cfg.Layout != layout.DefaultSettings() {
		t.Errorf("Default().Layout = %+v, want layout defaults", cfg.Layout)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Dir(); got != "/tmp/xdg/foodweb" {
		t.Errorf("Dir() = %q, want /tmp/xdg/foodweb", got)
	}
	if got := Path(); got != "/tmp/xdg/foodweb/config.toml" {
		t.Errorf("Path() = %q", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Load() missing file should return defaults, got addr %q", cfg.Server.Addr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"

[store]
unique_edits = false

[graph]
contrast = "luminance"

[layout]
mode = "hierarchical"

[layout.hierarchy]
direction = "LR"

[cache]
backend = "none"
ttl = "1h"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
	if cfg.Store.UniqueEdits {
		t.Error("Store.UniqueEdits = true, want false")
	}
	if cfg.Contrast() != foodweb.ContrastLuminance {
		t.Errorf("Contrast() = %v, want luminance", cfg.Contrast())
	}
	if cfg.Layout.Mode != layout.ModeHierarchical || cfg.Layout.Hierarchy.Direction != layout.DirectionLR {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Hierarchy.SortMethod != layout.SortDirected {
		t.Errorf("unset sort method = %q, want default", cfg.Layout.Hierarchy.SortMethod)
	}
	if cfg.Layout.Physics.SpringLength != layout.DefaultSpringLength {
		t.Errorf("unset spring length = %v, want default", cfg.Layout.Physics.SpringLength)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("unset server addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[log\n", "parse config"},
		{"unknown key", "[log]\nlevle = \"debug\"\n", "unknown keys log.levle"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"bad server backend", "[server]\nbackend = \"canvas\"\n", "server.backend"},
		{"bad mode", "[layout]\nmode = \"spiral\"\n", "mode"},
		{"bad contrast", "[graph]\ncontrast = \"neon\"\n", "contrast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_InvalidOptionCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidth = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("Load() error = %v, want INVALID_OPTION", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Server.Addr = ":9090"
	cfg.Layout.Mode = layout.ModeCircular
	cfg.Layout.Physics.SpringLength = 150
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Server.Addr != ":9090" || got.Layout.Mode != layout.ModeCircular || got.Layout.Physics.SpringLength != 150 {
		t.Errorf("round trip = %+v", got)
	}
	if got.Cache.TTL != cfg.Cache.TTL {
		t.Errorf("Cache.TTL = %v, want %v", got.Cache.TTL, cfg.Cache.TTL)
	}
}

func TestEnsureExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	created, err := EnsureExists(path)
	if err != nil || !created {
		t.Fatalf("EnsureExists() = %v, %v, want true, nil", created, err)
	}
	created, err = EnsureExists(path)
	if err != nil || created {
		t.Errorf("EnsureExists() second call = %v, %v, want false, nil", created, err)
	}
}
