package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/foodweb/pkg/cache"
	"github.com/matzehuels/foodweb/pkg/config"
	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/metrics"
	"github.com/matzehuels/foodweb/pkg/pipeline"
	"github.com/matzehuels/foodweb/pkg/render"
	"github.com/matzehuels/foodweb/pkg/render/nodelink"
	"github.com/matzehuels/foodweb/pkg/render/physics"
	"github.com/matzehuels/foodweb/pkg/render/stream"
	"github.com/matzehuels/foodweb/pkg/server"
	"github.com/matzehuels/foodweb/pkg/workspace"
)

// =============================================================================
// Session Wiring
// =============================================================================

// newSession builds a render session for the named backend. Only the
// browser backend returns a hub.
func (c *CLI) newSession(backend string, surface *render.Surface, ch cache.Cache, detailed bool) (*render.Session, *stream.Hub, error) {
	var (
		factory render.Factory
		hub     *stream.Hub
	)
	switch backend {
	case config.BackendBrowser:
		hub = stream.NewHub()
		factory = stream.Factory(hub, c.Logger)
	case config.BackendPhysics:
		factory = physics.Factory(c.Logger)
	case config.BackendGraphviz:
		factory = nodelink.Factory(ch, c.Logger, nodelink.Options{Detailed: detailed})
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidOption, "unknown backend %q (want browser, physics or graphviz)", backend)
	}
	s := render.NewSession(surface, factory, render.WithLogger(c.Logger), render.WithBackend(backend))
	return s, hub, nil
}

// newWorkspace creates a workspace over session with the configured
// store, contrast and seed, loaded from snapshot if one is given.
func (c *CLI) newWorkspace(ctx context.Context, cfg *config.Config, session *render.Session, settings layout.Settings, snapshot string) (*workspace.Workspace, error) {
	ws := workspace.New(session,
		workspace.WithLogger(c.Logger),
		workspace.WithStore(creature.NewStore(creature.WithUniqueEdits(cfg.Store.UniqueEdits))),
		workspace.WithSettings(settings),
		workspace.WithContrast(cfg.Contrast()),
		workspace.WithSeed(cfg.Render.Seed),
	)
	if snapshot == "" {
		return ws, nil
	}
	creatures, err := readSnapshot(snapshot)
	if err == nil {
		err = ws.Load(ctx, creatures)
	}
	if err != nil {
		ws.Close()
		return nil, err
	}
	return ws, nil
}

// =============================================================================
// Serve Command
// =============================================================================

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		cors    string
		noCache bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [snapshot]",
		Short: "Serve the interactive food web editor",
		Long: `Serve the interactive food web editor over HTTP.

The page at / edits the creature list and follows the live render session
through server-sent events. The JSON API lives under /api and Prometheus
metrics under /metrics.

With the browser backend (default) vis-network in the page lays out the
graph. The physics and graphviz backends lay it out on the server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("backend") {
				cfg.Server.Backend = backend
			}
			if flags.Changed("cors-origin") {
				cfg.Server.CORSOrigin = cors
			}
			settings, err := cfg.Layout.Apply(lf.patch(flags).Updates()...)
			if err != nil {
				return err
			}
			var snapshot string
			if len(args) == 1 {
				snapshot = args[0]
			}
			return c.runServe(cmd.Context(), cfg, settings, snapshot, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&backend, "backend", config.BackendBrowser, "renderer: browser, physics, graphviz")
	cmd.Flags().StringVar(&cors, "cors-origin", "*", `allowed CORS origin ("" disables CORS)`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd.Flags())

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, settings layout.Settings, snapshot string, noCache bool) error {
	logger := loggerFromContext(ctx)

	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(ch, nil, logger)
	runner.TTL = cfg.Cache.TTL
	defer runner.Close()

	surface := render.NewSurface(cfg.Render.Width, cfg.Render.Height, nil)
	session, hub, err := c.newSession(cfg.Server.Backend, surface, ch, cfg.Render.Detailed)
	if err != nil {
		return err
	}
	ws, err := c.newWorkspace(ctx, cfg, session, settings, snapshot)
	if err != nil {
		return err
	}
	defer ws.Close()

	reg := metrics.NewRegistry()
	reg.Register()

	srv, err := server.New(ws, hub, runner, server.Options{
		Addr:       cfg.Server.Addr,
		CORSOrigin: cfg.Server.CORSOrigin,
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Seed:       cfg.Render.Seed,
		Metrics:    reg.Handler(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	printSuccess("Serving with the %s backend", cfg.Server.Backend)
	printKeyValue("Editor", StyleLink.Render("http://"+cfg.Server.Addr+"/"))
	printKeyValue("Metrics", StyleLink.Render("http://"+cfg.Server.Addr+"/metrics"))
	printKeyValue("Creatures", StyleNumber.Render(fmt.Sprint(len(ws.Creatures()))))
	printNewline()

	return srv.ListenAndServe(ctx)
}
