package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/foodweb/pkg/graph"
	"github.com/matzehuels/foodweb/pkg/pipeline"
)

// graphCommand creates the graph command, which shows what a snapshot
// builds without laying it out.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		asJSON   bool
		contrast string
	)

	cmd := &cobra.Command{
		Use:   "graph [snapshot]",
		Short: "Print the nodes and edges of a food web",
		Long: `Print the nodes and edges of a food web.

Every creature becomes a node, and so does every name that is eaten but
has no record of its own (a food node). Each "A eats B" becomes an arrow
from B to A.

With --json the graph is written as JSON instead, to stdout or -o.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.Options{Contrast: cfg.Graph.Contrast, Logger: c.Logger}
			if cmd.Flags().Changed("contrast") {
				opts.Contrast = contrast
			}
			return c.runGraph(cmd.Context(), args[0], opts, asJSON, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write JSON to file (implies --json)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the graph as JSON")
	cmd.Flags().StringVar(&contrast, "contrast", "", "label color policy: binary, luminance")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, opts pipeline.Options, asJSON bool, output string) error {
	creatures, err := readSnapshot(input)
	if err != nil {
		return err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	g := pipeline.Build(ctx, creatures, opts)

	switch {
	case output != "":
		if err := graph.WriteFile(g, output); err != nil {
			return err
		}
		printSuccess("Graph written")
		printFile(output)
		return nil
	case asJSON:
		return graph.Write(g, os.Stdout)
	}

	printGraph(os.Stdout, g)
	return nil
}

// printGraph writes a node table, the edges and a summary line.
func printGraph(w io.Writer, g graph.Graph) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		rows = append(rows, []string{n.ID, n.Kind, n.Color})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Kind", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			n := g.Nodes[row]
			if col == 2 {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color))
			}
			if n.IsFood() {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	fmt.Fprintln(w, t.Render())

	for _, e := range g.Edges {
		fmt.Fprintln(w, "  "+StyleValue.Render(e.From)+" "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(e.To))
	}

	s := g.Stats()
	parts := []string{
		fmt.Sprintf("%d creatures", s.Creatures),
		fmt.Sprintf("%d food", s.Food),
		fmt.Sprintf("%d edges", s.Edges),
	}
	if s.SelfLoops > 0 {
		parts = append(parts, fmt.Sprintf("%d self-loops", s.SelfLoops))
	}
	fmt.Fprintln(w, StyleDim.Render(strings.Join(parts, " · ")))
}
