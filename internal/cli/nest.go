package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Textrux/textrux/pkg/errors"
	"github.com/Textrux/textrux/pkg/grid"
	gridio "github.com/Textrux/textrux/pkg/io"
	"github.com/Textrux/textrux/pkg/nest"
)

// nestCommand creates the nest command group.
func (c *CLI) nestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nest",
		Short: "Enter and leave nested grids inside a grid file",
		Long: `Nest drills into grids stored inside single cells. Entering a cell
swaps the whole file to the nested grid and records the path back in a
wrapper cell at (1,1); leaving reverses the swap, preserving any edits
made at either level.`,
	}

	cmd.AddCommand(c.nestEnterCommand())
	cmd.AddCommand(c.nestLeaveCommand())
	cmd.AddCommand(c.nestDepthCommand())

	return cmd
}

// nestEnterCommand creates the "nest enter" subcommand.
func (c *CLI) nestEnterCommand() *cobra.Command {
	var (
		row, col int
		out      string
	)

	cmd := &cobra.Command{
		Use:   "enter FILE",
		Short: "Enter the nested grid stored in a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := gridio.ImportFile(args[0])
			if err != nil {
				return err
			}

			focus, err := nest.Enter(g, grid.Point{Row: row, Col: col})
			if err != nil {
				if errors.IsNoOp(err) {
					printWarning("Cell (%d,%d) is not nestable; file unchanged", row, col)
					return nil
				}
				return err
			}

			if out == "" {
				out = args[0]
			}
			if err := gridio.ExportFile(g, out); err != nil {
				return err
			}
			logger.Debug("entered nested grid", "depth", nest.Depth(g), "focus", focus)

			printSuccess("Entered nested grid at (%d,%d), now at depth %d", row, col, nest.Depth(g))
			printDetail("Focus: (%d,%d)", focus.Row, focus.Col)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&row, "row", "r", 1, "row of the cell to enter")
	cmd.Flags().IntVarP(&col, "col", "c", 1, "column of the cell to enter")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: overwrite FILE)")

	return cmd
}

// nestLeaveCommand creates the "nest leave" subcommand.
func (c *CLI) nestLeaveCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "leave FILE",
		Short: "Leave the current nested grid, returning to its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := gridio.ImportFile(args[0])
			if err != nil {
				return err
			}

			focus, err := nest.Leave(g)
			if err != nil {
				if errors.IsNoOp(err) {
					printWarning("Already at the top level; file unchanged")
					return nil
				}
				return err
			}

			if out == "" {
				out = args[0]
			}
			if err := gridio.ExportFile(g, out); err != nil {
				return err
			}
			logger.Debug("left nested grid", "depth", nest.Depth(g), "focus", focus)

			printSuccess("Left nested grid, now at depth %d", nest.Depth(g))
			printDetail("Focus: (%d,%d)", focus.Row, focus.Col)
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: overwrite FILE)")

	return cmd
}

// nestDepthCommand creates the "nest depth" subcommand.
func (c *CLI) nestDepthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "depth FILE",
		Short: "Print the current nesting depth of a grid file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gridio.ImportFile(args[0])
			if err != nil {
				return err
			}
			fmt.Println(nest.Depth(g))
			return nil
		},
	}
}
