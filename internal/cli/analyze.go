package cli

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Textrux/textrux/pkg/errors"
	gridio "github.com/Textrux/textrux/pkg/io"
	"github.com/Textrux/textrux/pkg/structure"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		margin      int
		subMargin   int
		clip        bool
		jsonOut     bool
		noCache     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Cluster a grid file into blocks and print a summary",
		Long: `Analyze reads a grid file (CSV, TSV, or JSON), clusters the filled
cells into blocks, relates blocks through border/frame overlap, and prints
a structural summary.

The proximity margins control clustering: cells within the margin of a
block's bounding rectangle are absorbed into it. The default margin of 2
matches the frame ring, so blocks whose frames would overlap merge.`,
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
			logger.Debug("loaded grid", "file", args[0], "cells", g.Len())

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			result, err := runner.Analyze(cmd.Context(), g, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Found %d blocks", len(result.Blocks)))

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			if interactive {
				model := NewBlockListModel(result)
				if _, err := tea.NewProgram(model).Run(); err != nil {
					return fmt.Errorf("run browser: %w", err)
				}
				return nil
			}

			printSuccess("Analyzed %s", args[0])
			printStats(result)
			if len(result.Blocks) > 0 {
				fmt.Println(blockTable(result))
			}
			if len(result.Joins) > 0 {
				fmt.Println(joinTable(result))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&margin, "margin", 0, "block proximity margin (default from config)")
	cmd.Flags().IntVar(&subMargin, "sub-margin", 0, "sub-cluster proximity margin (default from config)")
	cmd.Flags().BoolVar(&clip, "clip", false, "clip border/frame rings to the grid bounds")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full analysis as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the analysis result cache")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse blocks interactively")

	return cmd
}

// analysisOptions merges flag overrides onto the configured defaults.
// Only flags the user actually set override the config.
func (c *CLI) analysisOptions(cmd *cobra.Command, margin, subMargin int, clip bool) structure.Options {
	opts := c.Config.Analysis.Normalized()
	if cmd.Flags().Changed("margin") {
		opts.Margin = margin
	}
	if cmd.Flags().Changed("sub-margin") {
		opts.SubMargin = subMargin
	}
	if cmd.Flags().Changed("clip") {
		opts.ClipToBounds = clip
	}
	return opts
}
