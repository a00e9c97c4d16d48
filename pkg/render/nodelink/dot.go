package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/foodweb/pkg/errors"
	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/render"
)

// pointsPerInch converts layout distances (pixels) to Graphviz inches.
const pointsPerInch = 72

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node kind and its edge counts to each label.
	Detailed bool
}

// ToDOT converts a food web to Graphviz DOT. Node fill and label colors
// come from the graph; the engine, rank direction and spacing come from
// cfg. The resulting DOT string can be rendered using [RenderSVG],
// [RenderPDF], or [RenderPNG].
func ToDOT(g graph.Graph, cfg layout.Config, opts Options) string {
	gv := cfg.Graphviz
	engine := gv.Engine
	if engine == "" {
		engine = layout.EngineNeato
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	if engine == layout.EngineDot {
		rankdir := gv.RankDir
		if rankdir == "" {
			rankdir = "TB"
		}
		fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
		if h := cfg.Layout.Hierarchical; h != nil {
			fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(h.LevelSeparation))
			fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(h.NodeSpacing))
		}
	} else {
		buf.WriteString("  overlap=false;\n")
		buf.WriteString("  splines=true;\n")
		fmt.Fprintf(&buf, "  start=%d;\n", cfg.Layout.RandomSeed)
	}
	if gv.K > 0 {
		fmt.Fprintf(&buf, "  K=%s;\n", strconv.FormatFloat(gv.K, 'f', 2, 64))
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=%s, style=\"rounded,filled\", color=%q, fontsize=14, margin=\"0.2,0.1\"];\n",
		orDefault(cfg.Nodes.Shape, layout.NodeShape), orDefault(cfg.Nodes.Color.Border, layout.NodeBorderColor))
	fmt.Fprintf(&buf, "  edge [color=%q, arrowhead=%s];\n",
		orDefault(cfg.Edges.Color.Color, layout.EdgeColor), arrowhead(cfg.Edges.Arrows))
	buf.WriteString("\n")

	var eats, eatenBy map[string]int
	if opts.Detailed {
		eats, eatenBy = degrees(g)
	}
	for _, n := range g.Nodes {
		label := fmtLabel(n, opts.Detailed, eats[n.ID], eatenBy[n.ID])
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, label), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool, eats, eatenBy int) string {
	if !detailed {
		return n.DisplayLabel()
	}
	return fmt.Sprintf("%s\nkind: %s\neats: %d\neaten by: %d", n.DisplayLabel(), n.Kind, eats, eatenBy)
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
	}
	if n.FontColor != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", n.FontColor))
	}
	if n.IsFood() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// degrees counts, per node, how many things it eats (incoming edges) and
// how many times it is eaten (outgoing edges).
func degrees(g graph.Graph) (eats, eatenBy map[string]int) {
	eats = make(map[string]int, len(g.Nodes))
	eatenBy = make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		eatenBy[e.From]++
		eats[e.To]++
	}
	return eats, eatenBy
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 2, 64)
}

func arrowhead(arrows string) string {
	if arrows == "" {
		return "none"
	}
	return "normal"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// RenderSVG renders a DOT graph to SVG using the layout engine named in
// the DOT source.
func RenderSVG(dot string) ([]byte, error) {
	return RenderSVGContext(context.Background(), dot)
}

// RenderSVGContext is RenderSVG with a caller-supplied context.
func RenderSVGContext(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	if engine := engineOf(dot); engine != "" {
		g.SetLayout(engine)
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
	layoutRe  = regexp.MustCompile(`(?m)^\s*layout=([a-z]+);`)
)

func engineOf(dot string) string {
	if m := layoutRe.FindStringSubmatch(dot); m != nil {
		return m[1]
	}
	return ""
}

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// suits high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
