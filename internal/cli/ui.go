package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Textrux/textrux/pkg/pipeline"
	"github.com/Textrux/textrux/pkg/structure"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleLocked = lipgloss.NewStyle().Foreground(colorYellow)
	styleLinked = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints analysis statistics on a single line.
func printStats(result *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d cells", result.CellCount),
		fmt.Sprintf("%d blocks", len(result.Blocks)),
		fmt.Sprintf("%d joins", len(result.Joins)),
		fmt.Sprintf("%d clusters", len(result.Clusters)),
	}

	status := iconFresh
	statusStyle := styleComputed
	if result.CacheHit {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tables
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func fmtRect(r structure.Rect) string {
	return fmt.Sprintf("R%d:C%d-R%d:C%d", r.Top, r.Left, r.Bottom, r.Right)
}

// blockTable renders the per-block summary table.
func blockTable(result *pipeline.Result) string {
	joinCounts := make(map[*structure.Block]int)
	for _, j := range result.Joins {
		joinCounts[j.A]++
		joinCounts[j.B]++
	}

	rows := make([][]string, 0, len(result.Blocks))
	for i, b := range result.Blocks {
		rows = append(rows, []string{
			fmt.Sprintf("b%d", i+1),
			fmtRect(b.Rect),
			strconv.Itoa(b.CellCount()),
			strconv.Itoa(len(b.SubClusters)),
			strconv.Itoa(joinCounts[b]),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Canvas", "Cells", "Subs", "Joins").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 0 {
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// joinTable renders the per-join summary table.
func joinTable(result *pipeline.Result) string {
	index := make(map[*structure.Block]int, len(result.Blocks))
	for i, b := range result.Blocks {
		index[b] = i + 1
	}

	rows := make([][]string, 0, len(result.Joins))
	for _, j := range result.Joins {
		rows = append(rows, []string{
			fmt.Sprintf("b%d %s b%d", index[j.A], iconArrow, index[j.B]),
			string(j.Type),
			strconv.Itoa(len(j.LinkedPoints)),
			strconv.Itoa(len(j.LockedPoints)),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Pair", "Type", "Linked", "Locked").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if col == 1 && row < len(result.Joins) {
				if result.Joins[row].Type == structure.JoinLocked {
					return styleLocked
				}
				return styleLinked
			}
			return StyleValue
		}).
		Render()
}
