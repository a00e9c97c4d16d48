// Package cache stores rendered artifacts and settled layouts.
//
// Rendering a food web is deterministic: the same graph under the same
// configuration always produces the same SVG and the same positions. The
// cache keys those results by content hash so the CLI and the HTTP API can
// skip Graphviz and the force simulation on repeat requests.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: stores nothing
//
// Wrap a backend with [Instrument] to report hits and misses through
// [github.com/matzehuels/foodweb/pkg/observability].
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies settled positions of a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered output of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout.
type LayoutKeyOpts struct {
	Config string // layout.Config.Key()
	Width  float64
	Height float64
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Config   string // layout.Config.Key()
	Format   string
	Detailed bool
	Scale    float64
}

// DefaultKeyer hashes key inputs under fixed prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, graphHash, opts)
}
