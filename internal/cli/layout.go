package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/layout"
	"github.com/matzehuels/foodweb/pkg/pipeline"
)

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags are the graph option flags shared by render, layout and edit.
// Only flags set on the command line override the config file.
type layoutFlags struct {
	mode           string
	direction      string
	sortMethod     string
	springLength   float64
	springConstant float64
	centralGravity float64
	gravity        float64
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	d := layout.DefaultSettings()
	fs.StringVar(&f.mode, "mode", string(d.Mode), "layout mode: default, hierarchical, circular")
	fs.StringVar(&f.direction, "direction", string(d.Hierarchy.Direction), "hierarchy direction: UD, DU, LR, RL")
	fs.StringVar(&f.sortMethod, "sort", string(d.Hierarchy.SortMethod), "hierarchy level assignment: directed, hubsize")
	fs.Float64Var(&f.springLength, "spring-length", d.Physics.SpringLength, "edge rest length")
	fs.Float64Var(&f.springConstant, "spring-constant", d.Physics.SpringConstant, "edge stiffness")
	fs.Float64Var(&f.centralGravity, "central-gravity", d.Physics.CentralGravity, "pull toward the center")
	fs.Float64Var(&f.gravity, "gravity", d.Physics.Gravity, "node repulsion")
}

// patch returns the changed flags as a settings patch.
func (f *layoutFlags) patch(fs *pflag.FlagSet) layout.Patch {
	var p layout.Patch
	if fs.Changed("mode") {
		m := layout.Mode(f.mode)
		p.Mode = &m
	}
	if fs.Changed("direction") {
		d := layout.Direction(strings.ToUpper(f.direction))
		p.Direction = &d
	}
	if fs.Changed("sort") {
		s := layout.SortMethod(f.sortMethod)
		p.SortMethod = &s
	}
	if fs.Changed("spring-length") {
		p.SpringLength = &f.springLength
	}
	if fs.Changed("spring-constant") {
		p.SpringConstant = &f.springConstant
	}
	if fs.Changed("central-gravity") {
		p.CentralGravity = &f.centralGravity
	}
	if fs.Changed("gravity") {
		p.Gravity = &f.gravity
	}
	return p
}

// pipelineOptions fills the layout part of pipeline options from the
// config file and the command line.
func (c *CLI) pipelineOptions(cmd *cobra.Command, lf *layoutFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	settings := cfg.Layout
	return pipeline.Options{
		Contrast: cfg.Graph.Contrast,
		Settings: &settings,
		Patch:    lf.patch(cmd.Flags()),
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		Seed:     cfg.Render.Seed,
		Detailed: cfg.Render.Detailed,
		Logger:   c.Logger,
	}, nil
}

// =============================================================================
// Layout Command
// =============================================================================

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot]",
		Short: "Compute node positions for a food web",
		Long: `Compute node positions for a food web.

The layout command reads a creature snapshot (food-web.json, or YAML),
builds the food web and runs the force simulation until it settles. The
output is a .layout.json file with one position per node.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, &lf)
			if err != nil {
				return err
			}
			opts.NoCache = noCache
			return c.runLayout(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd.Flags())

	return cmd
}

// runLayout loads the snapshot, settles the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	creatures, err := readSnapshot(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	g := pipeline.Build(ctx, creatures, opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %s layout...", opts.EffectiveSettings().Mode))
	spinner.Start()

	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + pipeline.Extension(pipeline.FormatLayout)
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printDetail("%d iterations, converged: %v", l.Iterations, l.Converged)
	printNewline()
	printNextStep("Render", appName+" render "+input+" -f svg")

	return nil
}
