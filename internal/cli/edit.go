package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/foodweb/pkg/config"
	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
)

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		preview string
		save    string
		backend string
		noCache bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "edit [snapshot]",
		Short: "Edit a food web in the terminal",
		Long: `Edit a food web in the terminal.

The editor lists the creatures, lets you add, edit and delete them, and
switches layout modes. Every change re-renders the graph; with the
graphviz backend each frame is written to the preview SVG, which any
auto-reloading image viewer can follow.

Ctrl+S saves to the snapshot (or --save). Without a snapshot the editor
starts empty and saves to ` + creature.SnapshotFilename + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if backend == config.BackendBrowser {
				return errors.New(errors.ErrCodeInvalidOption, "edit supports the graphviz and physics backends")
			}
			settings, err := cfg.Layout.Apply(lf.patch(cmd.Flags()).Updates()...)
			if err != nil {
				return err
			}

			var snapshot string
			if len(args) == 1 {
				snapshot = args[0]
			}
			if save == "" {
				save = snapshot
			}
			if save == "" {
				save = creature.SnapshotFilename
			}
			if preview == "" {
				preview = strings.TrimSuffix(save, filepath.Ext(save)) + ".svg"
			}
			return c.runEdit(cmd.Context(), cfg, settings, editTarget{
				snapshot: snapshot,
				save:     save,
				preview:  preview,
				backend:  backend,
				noCache:  noCache,
			})
		},
	}

	cmd.Flags().StringVar(&preview, "preview", "", "preview SVG path (default <snapshot>.svg)")
	cmd.Flags().StringVar(&save, "save", "", "save path (default the snapshot)")
	cmd.Flags().StringVar(&backend, "backend", config.BackendGraphviz, "renderer: graphviz, physics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd.Flags())

	return cmd
}

type editTarget struct {
	snapshot string
	save     string
	preview  string
	backend  string
	noCache  bool
}

func (c *CLI) runEdit(ctx context.Context, cfg *config.Config, settings layout.Settings, t editTarget) error {
	ch, err := c.newCache(ctx, cfg, t.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	// Log lines would tear the full-screen view.
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(os.Stderr)

	frames := make(chan render.Frame, 8)
	surface := render.NewSurface(cfg.Render.Width, cfg.Render.Height, previewWriter(t.preview, frames))

	session, _, err := c.newSession(t.backend, surface, ch, cfg.Render.Detailed)
	if err != nil {
		return err
	}
	ws, err := c.newWorkspace(ctx, cfg, session, settings, t.snapshot)
	if err != nil {
		return err
	}
	defer ws.Close()

	m := NewEditorModel(ctx, ws, frames, t.save)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}

	printSuccess("Edited %d creature(s)", len(ws.Creatures()))
	if _, err := os.Stat(t.preview); err == nil {
		printFile(t.preview)
	}
	return nil
}

// previewWriter returns a present func that writes artifact frames to
// path and forwards every frame to frames without blocking.
func previewWriter(path string, frames chan<- render.Frame) func(render.Frame) {
	return func(f render.Frame) {
		if len(f.Artifact) > 0 && f.Format == "svg" {
			os.WriteFile(path, f.Artifact, 0o644)
		}
		select {
		case frames <- f:
		default:
		}
	}
}
