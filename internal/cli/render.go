package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/foodweb/pkg/pipeline"
)

// renderCommand creates the render command: snapshot in, artifacts out.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		detailed   bool
		contrast   string
		lf         layoutFlags
		render     pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "Render a food web to SVG, PNG, PDF, DOT, JSON or HTML",
		Long: `Render a food web.

The render command reads a creature snapshot (food-web.json, or YAML),
builds the food web and writes one file per requested format:

  svg, png, pdf   Graphviz node-link diagram
  dot             Graphviz source
  json            vis-network payload with settled positions
  html            standalone interactive page
  layout          settled positions only

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &lf)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = detailed
			}
			if cmd.Flags().Changed("contrast") {
				opts.Contrast = contrast
			}
			opts.Scale = render.Scale
			opts.Title = render.Title
			opts.NoCache = noCache
			if cmd.Flags().Changed("width") {
				opts.Width = render.Width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = render.Height
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = render.Seed
			}
			return c.runRender(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node kind and degrees in diagram labels")
	cmd.Flags().StringVar(&contrast, "contrast", "", "label color policy: binary, luminance")
	cmd.Flags().Float64Var(&render.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&render.Title, "title", "", "HTML page title")
	cmd.Flags().Float64Var(&render.Width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&render.Height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().Int64Var(&render.Seed, "seed", pipeline.DefaultSeed, "layout seed")
	lf.register(cmd.Flags())

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	creatures, err := readSnapshot(input)
	if err != nil {
		return err
	}
	opts.Creatures = creatures
	opts.SnapshotName = input

	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, input, opts.Formats)
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	for _, f := range formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(formats)))

	printSuccess("Render complete")
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output as given; several formats share a base path. Without output
// the base is the input path minus its extension.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + pipeline.Extension(f)
	}
	return paths
}

// basePath strips a known format extension from output, or derives the
// base from input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range pipeline.Formats {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
