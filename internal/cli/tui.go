package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Textrux/textrux/pkg/pipeline"
	"github.com/Textrux/textrux/pkg/structure"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BlockListModel - Interactive block browsing
// =============================================================================

// BlockListModel is the bubbletea model for browsing an analysis result.
// The list view shows one row per block; enter toggles a detail pane for
// the selected block with its rings, sub-clusters, and joins.
type BlockListModel struct {
	Result *pipeline.Result
	Cursor int
	Detail bool
	Height int
	Offset int

	joinsByBlock map[*structure.Block][]*structure.BlockJoin
	blockIndex   map[*structure.Block]int
}

// NewBlockListModel creates a block browser over an analysis result.
func NewBlockListModel(result *pipeline.Result) BlockListModel {
	m := BlockListModel{
		Result:       result,
		Height:       15,
		joinsByBlock: make(map[*structure.Block][]*structure.BlockJoin),
		blockIndex:   make(map[*structure.Block]int),
	}
	for i, b := range result.Blocks {
		m.blockIndex[b] = i + 1
	}
	for _, j := range result.Joins {
		m.joinsByBlock[j.A] = append(m.joinsByBlock[j.A], j)
		m.joinsByBlock[j.B] = append(m.joinsByBlock[j.B], j)
	}
	return m
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Result.Blocks)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Result.Blocks) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BlockListModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

func (m BlockListModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Blocks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Result.Blocks) == 0 {
		b.WriteString(listDimStyle.Render("  (empty grid - no blocks)"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Result.Blocks) {
		end = len(m.Result.Blocks)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		blk := m.Result.Blocks[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("b%d", i+1),
			fmtRect(blk.Rect),
			strconv.Itoa(blk.CellCount()),
			strconv.Itoa(len(blk.SubClusters)),
			strconv.Itoa(len(m.joinsByBlock[blk])),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Canvas", "Cells", "Subs", "Joins").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Blocks))))

	return b.String()
}

func (m BlockListModel) detailView() string {
	blk := m.Result.Blocks[m.Cursor]
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Block b%d", m.Cursor+1)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	writeKV := func(key, value string) {
		b.WriteString("  " + listDimStyle.Render(fmt.Sprintf("%-12s", key)) + StyleValue.Render(value) + "\n")
	}

	writeKV("Canvas", fmtRect(blk.Rect))
	writeKV("Cells", strconv.Itoa(blk.CellCount()))
	writeKV("Border", fmt.Sprintf("%d cells", len(blk.Border)))
	writeKV("Frame", fmt.Sprintf("%d cells", len(blk.Frame)))

	if len(blk.SubClusters) > 0 {
		b.WriteString("\n" + StyleTitle.Render("  Sub-clusters") + "\n")
		for _, sub := range blk.SubClusters {
			b.WriteString(fmt.Sprintf("    %s %s (%d cells)\n",
				listDimStyle.Render("•"), fmtRect(sub.Rect), len(sub.Points)))
		}
	}

	if joins := m.joinsByBlock[blk]; len(joins) > 0 {
		b.WriteString("\n" + StyleTitle.Render("  Joins") + "\n")
		for _, j := range joins {
			other := j.B
			if other == blk {
				other = j.A
			}
			style := styleLinked
			if j.Type == structure.JoinLocked {
				style = styleLocked
			}
			b.WriteString(fmt.Sprintf("    %s b%d %s\n",
				listDimStyle.Render(iconArrow), m.blockIndex[other], style.Render(string(j.Type))))
		}
	}

	return b.String()
}
