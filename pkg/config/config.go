// Package config loads the foodweb configuration file.
//
// The file lives at $XDG_CONFIG_HOME/foodweb/config.toml (or
// ~/.config/foodweb/config.toml). Every field has a default, so a missing
// file is not an error. Command-line flags override file values.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/cache"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/layout"
)

// Filename is the config file name inside Dir.
const Filename = "config.toml"

// Config holds foodweb configuration.
type Config struct {
	Log    LogConfig       `toml:"log"`
	Server ServerConfig    `toml:"server"`
	Store  StoreConfig     `toml:"store"`
	Graph  GraphConfig     `toml:"graph"`
	Layout layout.Settings `toml:"layout"`
	Render RenderConfig    `toml:"render"`
	Cache  CacheConfig     `toml:"cache"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// ServerConfig controls foodweb serve.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	CORSOrigin string `toml:"cors_origin"`
	Backend    string `toml:"backend"` // renderer behind the live session
}

// StoreConfig controls the creature store.
type StoreConfig struct {
	UniqueEdits bool `toml:"unique_edits"`
}

// GraphConfig controls graph building.
type GraphConfig struct {
	Contrast string `toml:"contrast"` // binary, luminance
}

// RenderConfig controls rendering.
type RenderConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	Seed     int64   `toml:"seed"`
	Detailed bool    `toml:"detailed"`
}

// CacheConfig controls the render cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"` // none, file, redis
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Server backends.
const (
	BackendPhysics  = "physics"
	BackendGraphviz = "graphviz"
	BackendBrowser  = "browser"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Addr: "localhost:8080", CORSOrigin: "*", Backend: BackendBrowser},
		Store:  StoreConfig{UniqueEdits: true},
		Graph:  GraphConfig{Contrast: string(foodweb.ContrastBinary)},
		Layout: layout.DefaultSettings(),
		Render: RenderConfig{Width: 800, Height: 600, Seed: 42},
		Cache:  CacheConfig{Backend: cache.BackendFile, Dir: cacheDir(), TTL: cache.TTLArtifact},
	}
}

// Dir returns the foodweb config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "foodweb")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), Filename)
}

func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "foodweb")
	}
	return filepath.Join(dir, "foodweb")
}

// Load reads path over the defaults. An empty path means Path(). A
// missing file yields the defaults; unknown keys are an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists writes the defaults to path unless a file is already there.
// It reports whether a file was created.
func EnsureExists(path string) (bool, error) {
	if path == "" {
		path = Path()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(Default(), path)
}

// Validate checks enumerated fields and layout ranges.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.ErrCodeInvalidOption, "log.level: unknown level %q", c.Log.Level)
	}
	switch c.Server.Backend {
	case BackendPhysics, BackendGraphviz, BackendBrowser:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "server.backend: unknown backend %q (want physics, graphviz or browser)", c.Server.Backend)
	}
	if _, err := foodweb.ParseContrast(c.Graph.Contrast); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "render: width and height must be positive")
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "cache.backend: unknown backend %q (want none, file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache.ttl must not be negative")
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Contrast returns the parsed label contrast policy.
func (c *Config) Contrast() foodweb.Contrast {
	ct, err := foodweb.ParseContrast(c.Graph.Contrast)
	if err != nil {
		return foodweb.ContrastBinary
	}
	return ct
}

// CacheOptions converts the cache section for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Cache.Backend, Dir: c.Cache.Dir, RedisAddr: c.Cache.RedisAddr}
}
