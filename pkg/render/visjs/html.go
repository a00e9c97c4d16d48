package visjs

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DefaultTitle is used when a page is rendered without a title.
const DefaultTitle = "Food Web"

type exportData struct {
	Title   string
	CDN     string
	Payload template.JS
}

// ExportHTML renders a standalone page that draws g with vis-network.
func ExportHTML(g graph.Graph, cfg layout.Config, title string) ([]byte, error) {
	return ExportPayloadHTML(NewPayload(g, cfg), title)
}

// ExportPayloadHTML renders a standalone page for a prepared payload.
func ExportPayloadHTML(p Payload, title string) ([]byte, error) {
	data, err := p.Marshal()
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = DefaultTitle
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "export.html", exportData{
		Title:   title,
		CDN:     CDN,
		Payload: template.JS(data),
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PageOptions configures the live page.
type PageOptions struct {
	Title      string
	EventsURL  string // server-sent events endpoint
	APIBase    string // prefix of the JSON API
	Modes      []layout.Mode
	Directions []layout.Direction
	Sorts      []layout.SortMethod
}

type liveData struct {
	PageOptions
	CDN string
}

// LivePage renders the interactive page served by the HTTP API.
func LivePage(opts PageOptions) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.EventsURL == "" {
		opts.EventsURL = "/api/events"
	}
	if opts.APIBase == "" {
		opts.APIBase = "/api"
	}
	if opts.Modes == nil {
		opts.Modes = layout.Modes
	}
	if opts.Directions == nil {
		opts.Directions = layout.Directions
	}
	if opts.Sorts == nil {
		opts.Sorts = layout.SortMethods
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "live.html", liveData{PageOptions: opts, CDN: CDN}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
