// Package nest implements the nested-grid protocol: embedding one grid's
// entire contents inside a single cell of another grid, to unbounded depth.
//
// A cell is nestable when its raw text begins with the serialization field
// separator. Entering a nestable cell decodes that cell's text into a fresh
// active grid and stashes the serialized parent in the new grid's reserved
// (1,1) cell, prefixed with the wrapper marker. Nesting depth is threaded
// through depth-tagged tokens; leaving reverses the swap, substituting the
// (possibly edited) child snapshot back into the cell it came from.
//
// The wrapper grammar has three token kinds per depth d:
//
//	marker: <<#d#>>  - anchors where a child grid is embedded
//	open:   <<{d{>>  - opens a serialized ancestor span
//	close:  <<}d}>>  - closes it
//
// Tokens contain no separator, quote, or newline characters, so they survive
// field quoting unchanged and all wrapper surgery is exact raw-text
// substitution. Embedded snapshots are field-quoted with quote doubling
// exactly once at the level they are embedded into; levels compose by
// re-quoting the already-quoted text, and decoding reverses one level at a
// time.
package nest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Textrux/textrux/pkg/grid"
)

// WrapperPrefix is the reserved character that marks a grid's (1,1) cell as
// wrapper text. Without the prefix, (1,1) is ordinary editable content.
const WrapperPrefix = '^'

// MinimalPayload is the smallest nestable cell text: a single field
// separator, decoding to one row of empty fields.
const MinimalPayload = string(grid.FieldSep)

// markerPattern matches depth marker tokens and captures the depth.
var markerPattern = regexp.MustCompile(`<<#(\d+)#>>`)

// Marker returns the depth marker token for the given depth.
func Marker(depth int) string { return fmt.Sprintf("<<#%d#>>", depth) }

// SpanOpen returns the token opening a serialized ancestor span.
func SpanOpen(depth int) string { return fmt.Sprintf("<<{%d{>>", depth) }

// SpanClose returns the token closing a serialized ancestor span.
func SpanClose(depth int) string { return fmt.Sprintf("<<}%d}>>", depth) }

// IsNestable reports whether cell text can be entered: it must begin with
// the serialization field separator.
func IsNestable(text string) bool {
	return strings.HasPrefix(text, string(grid.FieldSep))
}

// IsWrapper reports whether (1,1) cell text is wrapper text.
func IsWrapper(text string) bool {
	return strings.HasPrefix(text, string(WrapperPrefix))
}

// ParseDepth extracts the nesting depth from wrapper text: the depth of the
// first marker token found. A well-formed wrapper at depth D contains
// exactly one marker, tagged D. Returns 0 when no marker is present.
func ParseDepth(wrapper string) int {
	m := markerPattern.FindStringSubmatch(wrapper)
	if m == nil {
		return 0
	}
	d, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return d
}

// Depth returns the nesting depth of the grid: 0 when its (1,1) cell is not
// wrapper text, otherwise the parsed marker depth.
func Depth(g *grid.Grid) int {
	origin := g.Get(grid.Point{Row: 1, Col: 1})
	if !IsWrapper(origin) {
		return 0
	}
	return ParseDepth(origin)
}

// markerCell scans serialized grid text for the cell holding the given
// depth's marker token. It reports the fallback (1,1) when the marker is not
// found as a whole field.
func markerCell(text string, depth int) grid.Point {
	marker := Marker(depth)
	for r, row := range grid.Decode(text) {
		for c, field := range row {
			if field == marker {
				return grid.Point{Row: r + 1, Col: c + 1}
			}
		}
	}
	return grid.Point{Row: 1, Col: 1}
}
