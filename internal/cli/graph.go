package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Textrux/textrux/pkg/errors"
	gridio "github.com/Textrux/textrux/pkg/io"
	"github.com/Textrux/textrux/pkg/render"
	"github.com/Textrux/textrux/pkg/render/nodelink"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		margin    int
		subMargin int
		clip      bool
		format    string
		out       string
		detailed  bool
		noCache   bool
		scale     float64
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Render the block relationship graph",
		Long: `Graph analyzes a grid file and renders its blocks and joins as a
node-link diagram. Locked joins draw as bold edges, linked joins as
dashed edges, and clustered blocks group into dotted boxes.

Formats: dot (Graphviz source), svg, png, pdf. PNG and PDF conversion
requires librsvg (rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			opts := c.analysisOptions(cmd, margin, subMargin, clip)
			if err := errors.ValidateMargin(opts.Margin); err != nil {
				return err
			}
			if err := errors.ValidateMargin(opts.SubMargin); err != nil {
				return err
			}

			g, err := gridio.ImportFile(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			result, err := runner.Analyze(cmd.Context(), g, opts)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(result.Blocks, result.Joins, result.Clusters, nodelink.Options{Detailed: detailed})

			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + format
			}

			prog := newProgress(logger)
			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = nodelink.RenderSVG(dot)
			case "png":
				var svg []byte
				svg, err = nodelink.RenderSVG(dot)
				if err == nil {
					data, err = render.ToPNG(svg, scale)
				}
			case "pdf":
				var svg []byte
				svg, err = nodelink.RenderSVG(dot)
				if err == nil {
					data, err = render.ToPDF(svg)
				}
			default:
				return fmt.Errorf("unknown format %q (want dot, svg, png, or pdf)", format)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			prog.done(fmt.Sprintf("Rendered %d blocks, %d joins", len(result.Blocks), len(result.Joins)))

			printSuccess("Rendered relationship graph")
			printFile(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&margin, "margin", 0, "block proximity margin (default from config)")
	cmd.Flags().IntVar(&subMargin, "sub-margin", 0, "sub-cluster proximity margin (default from config)")
	cmd.Flags().BoolVar(&clip, "clip", false, "clip border/frame rings to the grid bounds")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot, svg, png, pdf")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: FILE with the format's extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include cell counts in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the analysis result cache")
	cmd.Flags().Float64Var(&scale, "scale", 2.0, "PNG scale factor")

	return cmd
}
