package pipeline

import (
	"context"

	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/render/nodelink"
	"github.com/matzehuels/foodweb/pkg/render/visjs"
)

// Render generates output artifacts in the requested formats. l may be
// nil unless a format needs positions.
func Render(ctx context.Context, g graph.Graph, l *graph.Layout, opts Options) (map[string][]byte, error) {
	cfg := opts.Config()
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, cfg, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}
	payload := func() visjs.Payload {
		p := visjs.NewPayload(g, cfg)
		if l != nil {
			p = p.WithPositions(l.Positions)
		}
		return p
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = nodelink.RenderSVGContext(ctx, dotFor())
		case FormatPNG:
			data, err = nodelink.RenderPNG(dotFor(), opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dotFor())
		case FormatJSON:
			data, err = payload().MarshalIndent()
		case FormatHTML:
			data, err = visjs.ExportPayloadHTML(payload(), opts.Title)
		case FormatLayout:
			if l == nil {
				return nil, errors.New(errors.ErrCodeInternal, "layout format requested without a layout")
			}
			data, err = graph.MarshalLayout(*l)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
