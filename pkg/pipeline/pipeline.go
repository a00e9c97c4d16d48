// Package pipeline provides batch rendering of food webs.
//
// This package implements the complete load → build → layout → render
// pipeline shared by the CLI and the HTTP API. Interactive editing goes
// through package workspace and a render session instead; the pipeline is
// for one-shot output files.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: decode a creature snapshot (JSON or YAML)
//  2. Build: derive the food web graph
//  3. Layout: run the physics simulation headless until it settles
//     (only when a format needs positions)
//  4. Render: produce output in the requested formats
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Snapshot:     data,
//	    SnapshotName: "food-web.json",
//	    Formats:      []string{"svg", "layout"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/cache"
	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default drawing width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default drawing height in pixels.
	DefaultHeight = 600.0

	// DefaultSeed is the default layout seed.
	DefaultSeed = int64(42)

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG    = "svg"
	FormatPNG    = "png"
	FormatPDF    = "pdf"
	FormatDOT    = "dot"
	FormatJSON   = "json"   // vis-network payload
	FormatHTML   = "html"   // standalone vis-network page
	FormatLayout = "layout" // settled positions
)

// Formats lists every output format in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON, FormatHTML, FormatLayout}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatPNG:    true,
	FormatPDF:    true,
	FormatDOT:    true,
	FormatJSON:   true,
	FormatHTML:   true,
	FormatLayout: true,
}

// Extension returns the file extension for a format. The JSON formats
// get compound extensions so they never collide with a snapshot file.
func Extension(format string) string {
	switch format {
	case FormatLayout:
		return "layout.json"
	case FormatJSON:
		return "vis.json"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: either Creatures or a Snapshot to decode
	Creatures    []creature.Creature `json:"creatures,omitempty"`
	Snapshot     []byte              `json:"-"`
	SnapshotName string              `json:"snapshot_name,omitempty"` // selects YAML by extension

	// Build options
	Contrast string `json:"contrast,omitempty"`

	// Layout options
	Settings *layout.Settings `json:"settings,omitempty"` // nil means defaults
	Patch    layout.Patch     `json:"patch,omitempty"`
	Width    float64          `json:"width,omitempty"`
	Height   float64          `json:"height,omitempty"`
	Seed     int64            `json:"seed,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // node kinds and degrees in Graphviz labels
	Scale    float64  `json:"scale,omitempty"`    // PNG only
	Title    string   `json:"title,omitempty"`    // HTML only
	NoCache  bool     `json:"no_cache,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// resolved by ValidateAndSetDefaults
	settings  layout.Settings
	contrast  foodweb.Contrast
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Creatures is the decoded input.
	Creatures []creature.Creature

	// Graph is the built food web.
	Graph graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Settings and Config are the effective layout options.
	Settings layout.Settings
	Config   layout.Config

	// Layout holds settled positions when a format needed them.
	Layout *graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Creatures  int
	NodeCount  int
	EdgeCount  int
	Iterations int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether positions came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the input and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Creatures == nil && o.Snapshot == nil {
		return errors.New(errors.ErrCodeInvalidInput, "creatures or snapshot is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout resolves the effective settings and contrast policy
// and sets size and seed defaults.
func (o *Options) ValidateForLayout() error {
	base := layout.DefaultSettings()
	if o.Settings != nil {
		base = *o.Settings
		if err := base.Validate(); err != nil {
			return err
		}
	}
	s, err := base.Apply(o.Patch.Updates()...)
	if err != nil {
		return err
	}
	o.settings = s

	c, err := foodweb.ParseContrast(o.Contrast)
	if err != nil {
		return err
	}
	o.contrast = c

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "width and height must be positive")
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender validates formats and sets render defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// EffectiveSettings returns the settings resolved by ValidateAndSetDefaults.
func (o *Options) EffectiveSettings() layout.Settings {
	return o.settings
}

// Config returns the renderer configuration for the effective settings,
// with the layout seed applied.
func (o *Options) Config() layout.Config {
	cfg := o.settings.Config()
	cfg.Layout.RandomSeed = o.Seed
	return cfg
}

// NeedsLayout reports whether any requested format needs settled positions.
func (o *Options) NeedsLayout() bool {
	return slices.Contains(o.Formats, FormatLayout) || slices.Contains(o.Formats, FormatJSON) || slices.Contains(o.Formats, FormatHTML)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Config: o.Config().Key(),
		Width:  o.Width,
		Height: o.Height,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Config: o.Config().Key(),
		Format: format,
	}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF, FormatDOT:
		opts.Detailed = o.Detailed
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
