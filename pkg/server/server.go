// Package server exposes a workspace over HTTP.
//
// The API is JSON under /api. The root serves the live page, which follows
// the workspace's browser render session through /api/events (server-sent
// events) and edits the creature collection through the API:
//
//	GET    /api/creatures            list the collection
//	POST   /api/creatures            add {name, eats, color}
//	PUT    /api/creatures/{index}    replace a record
//	DELETE /api/creatures/{index}    remove a record
//	GET    /api/export               download food-web.json (?format=yaml)
//	POST   /api/import               replace the collection from a snapshot
//	GET    /api/options              current settings and renderer config
//	PATCH  /api/options              partial settings change
//	GET    /api/graph                vis-network payload of the current graph
//	GET    /api/state                workspace snapshot
//	GET    /api/render/{format}      one-shot render through the pipeline
//	POST   /api/reorganize           re-stabilize the current layout
//	GET    /api/events               render events
//
// Errors are returned as {"error": message, "code": code} with the status
// from errors.HTTPStatus.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/foodweb/pkg/pipeline"
	"github.com/matzehuels/foodweb/pkg/render/stream"
	"github.com/matzehuels/foodweb/pkg/render/visjs"
	"github.com/matzehuels/foodweb/pkg/workspace"
)

// Defaults.
const (
	DefaultAddr     = "localhost:8080"
	MaxBodySize     = 10 << 20
	ShutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr       string
	CORSOrigin string // "" disables CORS headers

	// Render settings for /api/render.
	Width  float64
	Height float64
	Seed   int64

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	ws     *workspace.Workspace
	hub    *stream.Hub
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
	page   []byte
	router chi.Router
}

// New builds the router. hub may be nil when the workspace does not
// render to the browser; /api/events then responds 404. runner may be nil
// for an uncached runner.
func New(ws *workspace.Workspace, hub *stream.Hub, runner *pipeline.Runner, opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}

	page, err := visjs.LivePage(visjs.PageOptions{})
	if err != nil {
		return nil, err
	}

	s := &Server{
		ws:     ws,
		hub:    hub,
		runner: runner,
		opts:   opts,
		logger: opts.Logger,
		page:   page,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.instrument)
	if s.opts.CORSOrigin != "" {
		r.Use(cors(s.opts.CORSOrigin))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/creatures", s.handleListCreatures)
		r.Post("/creatures", s.handleAddCreature)
		r.Put("/creatures/{index}", s.handleReplaceCreature)
		r.Delete("/creatures/{index}", s.handleRemoveCreature)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Get("/options", s.handleGetOptions)
		r.Patch("/options", s.handlePatchOptions)

		r.Get("/graph", s.handleGraph)
		r.Get("/state", s.handleState)
		r.Get("/render/{format}", s.handleRender)
		r.Post("/reorganize", s.handleReorganize)

		if s.hub != nil {
			r.Method(http.MethodGet, "/events", s.hub)
		}
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully. Open event streams are closed first so shutdown does not
// wait on them.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", "http://"+ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.hub != nil {
		s.hub.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
