// Package workspace wires one food web editing session together.
//
// A [Workspace] owns a creature store, the layout settings and a
// render.Session. Every mutation goes through the workspace, which
// serializes access with a mutex and then syncs: when the store revision
// or the settings changed since the last successful apply, it rebuilds
// the graph and hands graph and configuration to the session. Data only
// ever flows store → builder → session; the session never writes back.
//
//	ws := workspace.New(session, workspace.WithLogger(logger))
//	defer ws.Close()
//	ws.Add(ctx, "Fox", "Rabbit", "#ff0000")
//	ws.UpdateSettings(ctx, layout.WithMode(layout.ModeHierarchical))
//	ws.Reorganize()
package workspace

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
)

// Workspace is safe for concurrent use.
type Workspace struct {
	mu       sync.Mutex
	store    *creature.Store
	editor   *creature.Editor
	settings layout.Settings
	contrast foodweb.Contrast
	seed     int64
	session  *render.Session
	logger   *log.Logger
	signals  chan render.Signal

	graph   graph.Graph
	built   bool
	applied applied
}

// applied records what the session last accepted.
type applied struct {
	ok       bool
	revision uint64
	settings layout.Settings
	contrast foodweb.Contrast
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithSettings sets the initial layout settings.
func WithSettings(s layout.Settings) Option {
	return func(w *Workspace) { w.settings = s }
}

// WithContrast sets the label color policy.
func WithContrast(c foodweb.Contrast) Option {
	return func(w *Workspace) { w.contrast = c }
}

// WithSeed sets the layout seed passed to renderers.
func WithSeed(seed int64) Option {
	return func(w *Workspace) { w.seed = seed }
}

// WithStore replaces the empty default store.
func WithStore(s *creature.Store) Option {
	return func(w *Workspace) {
		if s != nil {
			w.store = s
		}
	}
}

// New creates a workspace rendering through session. A nil session
// builds graphs without rendering them.
func New(session *render.Session, opts ...Option) *Workspace {
	w := &Workspace{
		store:    creature.NewStore(),
		settings: layout.DefaultSettings(),
		contrast: foodweb.ContrastBinary,
		session:  session,
		logger:   log.Default(),
		signals:  make(chan render.Signal, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.editor = creature.NewEditor(w.store)
	if session != nil {
		session.Listen(w.signals)
	}
	return w
}

// =============================================================================
// Creature mutations
// =============================================================================

// Add appends a creature built from raw form values and syncs.
func (w *Workspace) Add(ctx context.Context, name, eats, color string) (creature.Creature, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, err := w.store.Add(name, eats, color)
	w.editor.DuplicateName = errors.Is(err, errors.ErrCodeDuplicateName) || errors.Is(err, errors.ErrCodeBlankName)
	if err != nil {
		return creature.Creature{}, err
	}
	w.logger.Debug("creature added", "name", c.Name, "eats", c.Eats)
	w.syncLocked(ctx)
	return c, nil
}

// Replace overwrites the record at index and syncs.
func (w *Workspace) Replace(ctx context.Context, index int, name, eats, color string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.store.Replace(index, name, eats, color); err != nil {
		if errors.Is(err, errors.ErrCodeDuplicateName) {
			w.editor.DuplicateName = true
		}
		return err
	}
	w.editor.DuplicateName = false
	w.logger.Debug("creature replaced", "index", index, "name", name)
	w.syncLocked(ctx)
	return nil
}

// Remove deletes the record at index and syncs.
func (w *Workspace) Remove(ctx context.Context, index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.store.Remove(index); err != nil {
		return err
	}
	w.logger.Debug("creature removed", "index", index)
	w.syncLocked(ctx)
	return nil
}

// Import replaces the collection with a JSON snapshot and syncs. On
// failure the collection is unchanged and the import-failed flag is
// raised.
func (w *Workspace) Import(ctx context.Context, data []byte) error {
	return w.ImportFile(ctx, creature.SnapshotFilename, data)
}

// ImportFile is Import with the codec picked by file name (JSON or YAML).
func (w *Workspace) ImportFile(ctx context.Context, name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	creatures, err := creature.Decode(name, data)
	if err != nil {
		w.editor.ImportFailed = true
		return err
	}
	return w.loadLocked(ctx, creatures)
}

// Load replaces the collection with already decoded creatures and syncs.
func (w *Workspace) Load(ctx context.Context, creatures []creature.Creature) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadLocked(ctx, creatures)
}

func (w *Workspace) loadLocked(ctx context.Context, creatures []creature.Creature) error {
	if err := w.store.Reset(creatures); err != nil {
		w.editor.ImportFailed = true
		return err
	}
	w.editor.ImportFailed = false
	w.logger.Debug("creatures imported", "count", len(creatures))
	w.syncLocked(ctx)
	return nil
}

// Export serializes the collection as a JSON snapshot.
func (w *Workspace) Export() ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return creature.Export(w.store.List())
}

// Edit runs fn with exclusive access to the form editor and syncs
// afterwards. fn's error is returned unchanged.
func (w *Workspace) Edit(ctx context.Context, fn func(*creature.Editor) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := fn(w.editor)
	w.syncLocked(ctx)
	return err
}

// Creatures returns a copy of the collection.
func (w *Workspace) Creatures() []creature.Creature {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.List()
}

// =============================================================================
// Settings
// =============================================================================

// UpdateSettings applies updates atomically and syncs. If any update is
// invalid, nothing changes.
func (w *Workspace) UpdateSettings(ctx context.Context, updates ...layout.Update) (layout.Settings, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := w.settings.Apply(updates...)
	if err != nil {
		return w.settings, err
	}
	w.settings = next
	w.syncLocked(ctx)
	return next, nil
}

// SetContrast changes the label color policy and syncs.
func (w *Workspace) SetContrast(ctx context.Context, c foodweb.Contrast) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.contrast = c
	w.syncLocked(ctx)
}

// Contrast returns the label color policy.
func (w *Workspace) Contrast() foodweb.Contrast {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contrast
}

// Settings returns the current layout settings.
func (w *Workspace) Settings() layout.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// =============================================================================
// Rendering
// =============================================================================

// Sync rebuilds the graph and applies it when the store or the settings
// changed since the last successful apply. A failed apply is logged,
// leaves the session's previous picture in place, and is retried on the
// next Sync.
func (w *Workspace) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.syncLocked(ctx)
}

func (w *Workspace) syncLocked(ctx context.Context) error {
	if w.current() {
		return nil
	}

	rev := w.store.Revision()
	if !w.built || w.applied.revision != rev || w.applied.contrast != w.contrast {
		w.graph = foodweb.Build(w.store.List(), foodweb.WithContrast(w.contrast))
		w.built = true
	}
	if w.session == nil {
		w.applied = applied{ok: true, revision: rev, settings: w.settings, contrast: w.contrast}
		return nil
	}

	if err := w.session.Apply(ctx, w.graph, w.configLocked()); err != nil {
		w.applied.ok = false
		w.logger.Error("render failed", "error", err)
		return err
	}
	w.applied = applied{ok: true, revision: rev, settings: w.settings, contrast: w.contrast}
	return nil
}

func (w *Workspace) configLocked() layout.Config {
	cfg := w.settings.Config()
	cfg.Layout.RandomSeed = w.seed
	return cfg
}

// Config returns the renderer configuration of the current settings.
func (w *Workspace) Config() layout.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.configLocked()
}

func (w *Workspace) current() bool {
	a := w.applied
	return a.ok && a.revision == w.store.Revision() && a.settings == w.settings && a.contrast == w.contrast
}

// Reorganize asks the renderer to re-stabilize the current dataset. It
// reports false when nothing is rendered yet.
func (w *Workspace) Reorganize() bool {
	if w.session == nil {
		return false
	}
	return w.session.Reorganize()
}

// Signals returns the channel the session listens on. Sends must not
// block; drop the signal when the channel is full.
func (w *Workspace) Signals() chan<- render.Signal {
	return w.signals
}

// Graph returns the most recently built graph.
func (w *Workspace) Graph() graph.Graph {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.built {
		w.graph = foodweb.Build(w.store.List(), foodweb.WithContrast(w.contrast))
		w.built = true
	}
	return w.graph
}

// Snapshot is a consistent view of the workspace.
type Snapshot struct {
	Creatures []creature.Creature `json:"creatures"`
	Graph     graph.Graph         `json:"graph"`
	Settings  layout.Settings     `json:"settings"`
	Config    layout.Config       `json:"config"`
	State     render.State        `json:"state"`
	Revision  uint64              `json:"revision"`
	Editing   int                 `json:"editing"`
	Draft     creature.Draft      `json:"draft"`
	Duplicate bool                `json:"duplicate_name"`
	Failed    bool                `json:"import_failed"`
}

// Snapshot returns the current state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.built {
		w.graph = foodweb.Build(w.store.List(), foodweb.WithContrast(w.contrast))
		w.built = true
	}
	s := Snapshot{
		Creatures: w.store.List(),
		Graph:     w.graph,
		Settings:  w.settings,
		Config:    w.configLocked(),
		State:     render.StateUninitialized,
		Revision:  w.store.Revision(),
		Draft:     w.editor.Draft,
		Duplicate: w.editor.DuplicateName,
		Failed:    w.editor.ImportFailed,
	}
	s.Editing, _ = w.editor.Editing()
	if w.session != nil {
		s.State = w.session.State()
	}
	return s
}

// Session returns the render session, which may be nil.
func (w *Workspace) Session() *render.Session { return w.session }

// Close closes the session.
func (w *Workspace) Close() error {
	if w.session == nil {
		return nil
	}
	return w.session.Close()
}
