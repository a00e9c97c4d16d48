package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/foodweb/pkg/buildinfo"
	"github.com/matzehuels/foodweb/pkg/creature"
	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/foodweb"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/pipeline"
	"github.com/matzehuels/foodweb/pkg/render/visjs"
)

// =============================================================================
// Pages
// =============================================================================

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	State     string `json:"state"`
	Creatures int    `json:"creatures"`
	Time      string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.ws.Snapshot()
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   buildinfo.UserAgent(),
		State:     string(snap.State),
		Creatures: len(snap.Creatures),
		Time:      time.Now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// Creatures
// =============================================================================

// CreatureRequest is the body of POST and PUT /api/creatures. Eats is the
// raw comma-separated form value; a JSON array is accepted as well.
type CreatureRequest struct {
	Name  string    `json:"name"`
	Eats  EatsField `json:"eats"`
	Color string    `json:"color"`
}

// EatsField decodes a string or an array of strings to form text.
type EatsField string

// UnmarshalJSON implements json.Unmarshaler.
func (e *EatsField) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*e = EatsField(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "eats must be a string or a list of strings")
	}
	*e = EatsField(strings.Join(list, ", "))
	return nil
}

func (s *Server) handleListCreatures(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ws.Creatures())
}

func (s *Server) handleAddCreature(w http.ResponseWriter, r *http.Request) {
	var req CreatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := s.ws.Add(r.Context(), req.Name, string(req.Eats), req.Color)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleReplaceCreature(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req CreatureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.ws.Replace(r.Context(), index, req.Name, string(req.Eats), req.Color); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.ws.Creatures())
}

func (s *Server) handleRemoveCreature(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.ws.Remove(r.Context(), index); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid index %q", raw)
	}
	return i, nil
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	creatures := s.ws.Creatures()
	var (
		data     []byte
		err      error
		filename = creature.SnapshotFilename
		ctype    = "application/json"
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		data, err = creature.Export(creatures)
	case "yaml", "yml":
		data, err = creature.ExportYAML(creatures)
		filename = strings.TrimSuffix(filename, ".json") + ".yaml"
		ctype = "application/yaml"
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "invalid export format %q (want json or yaml)", format)
	}
	if name := r.URL.Query().Get("filename"); err == nil && name != "" {
		err = errors.ValidateFilename(name)
		filename = name
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	name := creature.SnapshotFilename
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		name = "import.yaml"
	}
	if err := s.ws.ImportFile(r.Context(), name, data); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.ws.Creatures())
}

// =============================================================================
// Options
// =============================================================================

// OptionsResponse is the body of GET and PATCH /api/options.
type OptionsResponse struct {
	Settings layout.Settings  `json:"settings"`
	Contrast foodweb.Contrast `json:"contrast"`
	Config   layout.Config    `json:"config"`
}

// OptionsPatch is the body of PATCH /api/options.
type OptionsPatch struct {
	layout.Patch
	Contrast *string `json:"contrast,omitempty"`
}

func (s *Server) options() OptionsResponse {
	return OptionsResponse{
		Settings: s.ws.Settings(),
		Contrast: s.ws.Contrast(),
		Config:   s.ws.Config(),
	}
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.options())
}

func (s *Server) handlePatchOptions(w http.ResponseWriter, r *http.Request) {
	var p OptionsPatch
	if err := decodeJSON(w, r, &p); err != nil {
		s.respondError(w, r, err)
		return
	}

	var contrast foodweb.Contrast
	if p.Contrast != nil {
		c, err := foodweb.ParseContrast(*p.Contrast)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		contrast = c
	}
	if updates := p.Updates(); len(updates) > 0 {
		if _, err := s.ws.UpdateSettings(r.Context(), updates...); err != nil {
			s.respondError(w, r, err)
			return
		}
	}
	if p.Contrast != nil {
		s.ws.SetContrast(r.Context(), contrast)
	}
	respondJSON(w, http.StatusOK, s.options())
}

// =============================================================================
// Rendering
// =============================================================================

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, visjs.NewPayload(s.ws.Graph(), s.ws.Config()))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ws.Snapshot())
}

// ReorganizeResponse is the body of POST /api/reorganize.
type ReorganizeResponse struct {
	Accepted bool `json:"accepted"`
}

func (s *Server) handleReorganize(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusAccepted, ReorganizeResponse{Accepted: s.ws.Reorganize()})
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:    "image/svg+xml",
	pipeline.FormatPNG:    "image/png",
	pipeline.FormatPDF:    "application/pdf",
	pipeline.FormatDOT:    "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON:   "application/json",
	pipeline.FormatHTML:   "text/html; charset=utf-8",
	pipeline.FormatLayout: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	q := r.URL.Query()

	settings := s.ws.Settings()
	opts := pipeline.Options{
		Creatures: s.ws.Creatures(),
		Contrast:  string(s.ws.Contrast()),
		Settings:  &settings,
		Width:     s.opts.Width,
		Height:    s.opts.Height,
		Seed:      s.opts.Seed,
		Formats:   []string{format},
		Title:     q.Get("title"),
		Logger:    s.logger,
	}
	if v := q.Get("detailed"); v != "" {
		detailed, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid detailed flag %q", v))
			return
		}
		opts.Detailed = detailed
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.respondError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(result.Artifacts[format])
}
