package cli

import (
	"github.com/spf13/cobra"

	gridio "github.com/Textrux/textrux/pkg/io"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert a grid file between CSV, TSV, and JSON",
		Long: `Convert reads a grid file and writes it in another format. Both
formats are picked from the file extensions: .csv for CSV, .json for the
sparse cell-list JSON, anything else for tab-separated text.

CSV cannot represent fully empty rows, so converting through CSV
compacts row gaps; TSV and JSON preserve them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gridio.ImportFile(args[0])
			if err != nil {
				return err
			}
			if err := gridio.ExportFile(g, args[1]); err != nil {
				return err
			}
			printSuccess("Converted %s", args[0])
			printDetail("%d cells", g.Len())
			printFile(args[1])
			return nil
		},
	}
}
