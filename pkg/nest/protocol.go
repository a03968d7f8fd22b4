package nest

import (
	"strings"

	"github.com/Textrux/textrux/pkg/errors"
	"github.com/Textrux/textrux/pkg/grid"
)

// origin is the reserved wrapper cell.
var origin = grid.Point{Row: 1, Col: 1}

// defaultFocus is where focus lands after entering a nested grid.
var defaultFocus = grid.Point{Row: 1, Col: 2}

// Enter replaces the grid's contents with the dataset decoded from the
// target cell's text and stashes the serialized parent in the new (1,1)
// wrapper. It returns the focus coordinate for the new active grid.
//
// An empty target cell is first seeded with the minimal nestable payload. A
// non-nestable target returns a NOT_NESTABLE no-op error without mutating
// the grid. All text surgery is staged before any mutation, so a failure
// (MARKER_NOT_FOUND on a manually corrupted wrapper) leaves the grid
// untouched.
func Enter(g *grid.Grid, target grid.Point) (grid.Point, error) {
	if err := errors.ValidateCoordinate(target.Row, target.Col); err != nil {
		return grid.Point{}, err
	}

	text := g.Get(target)
	if text == "" {
		text = MinimalPayload
	}
	if !IsNestable(text) {
		return grid.Point{}, errors.New(errors.ErrCodeNotNestable,
			"cell (%d,%d) does not start with the field separator", target.Row, target.Col)
	}

	wrapper := ""
	depth := 0
	if originText := g.Get(origin); IsWrapper(originText) {
		wrapper = originText
		depth = ParseDepth(originText)
		if depth < 1 {
			return grid.Point{}, errors.New(errors.ErrCodeMarkerNotFound,
				"wrapper text carries no depth marker")
		}
	}

	dataset := grid.Decode(text)

	// Parent snapshot: the active grid with the target cell replaced by the
	// next depth's marker, serialized without its wrapper cell. Staged on a
	// clone so a later failure cannot leave a marker behind.
	snapshot := g.Clone()
	snapshot.Set(target, Marker(depth+1))
	parent := snapshot.Serialize(wrapper != "")

	var newWrapper string
	if depth == 0 {
		newWrapper = string(WrapperPrefix) + parent
	} else {
		marker := Marker(depth)
		if !strings.Contains(wrapper, marker) {
			return grid.Point{}, errors.New(errors.ErrCodeMarkerNotFound,
				"wrapper is missing marker %s", marker)
		}
		span := SpanOpen(depth) + grid.QuoteField(parent) + SpanClose(depth)
		newWrapper = strings.Replace(wrapper, marker, span, 1)
	}

	g.LoadRows(dataset)
	g.Set(origin, newWrapper)
	return defaultFocus, nil
}

// Leave exits the active nested grid: the child's serialized snapshot is
// substituted back into the ancestor cell it was entered from, and the
// ancestor becomes the active grid. It returns the recovered focus
// coordinate (the cell that held the marker, or (1,1) when not found).
//
// Leave with no wrapper or depth 0 returns a NOT_NESTED no-op error. A
// missing marker or span token returns MARKER_NOT_FOUND and leaves the grid
// unchanged; this is the one place arbitrary wrapper text from manual edits
// of (1,1) is encountered.
func Leave(g *grid.Grid) (grid.Point, error) {
	wrapper := g.Get(origin)
	if !IsWrapper(wrapper) {
		return grid.Point{}, errors.New(errors.ErrCodeNotNested, "grid has no wrapper")
	}
	depth := ParseDepth(wrapper)
	if depth < 1 {
		return grid.Point{}, errors.New(errors.ErrCodeNotNested, "wrapper depth is 0")
	}

	child := g.Serialize(true)
	if child == "" {
		child = MinimalPayload
	}

	var (
		text     string // serialized new active grid
		ancestor string // pre-substitution ancestor text, for focus recovery
	)
	if depth == 1 {
		ancestor = wrapper[1:] // strip prefix: the literal serialized base grid
		marker := Marker(1)
		if !strings.Contains(ancestor, marker) {
			return grid.Point{}, errors.New(errors.ErrCodeMarkerNotFound,
				"wrapper is missing marker %s", marker)
		}
		text = strings.Replace(ancestor, marker, grid.QuoteField(child), 1)
	} else {
		openTok, closeTok := SpanOpen(depth-1), SpanClose(depth-1)
		i := strings.Index(wrapper, openTok)
		j := strings.Index(wrapper, closeTok)
		if i < 0 || j < 0 || j < i {
			return grid.Point{}, errors.New(errors.ErrCodeMarkerNotFound,
				"wrapper is missing span tokens %s...%s", openTok, closeTok)
		}
		ancestor = grid.UnquoteField(wrapper[i+len(openTok) : j])
		marker := Marker(depth)
		if !strings.Contains(ancestor, marker) {
			return grid.Point{}, errors.New(errors.ErrCodeMarkerNotFound,
				"ancestor span is missing marker %s", marker)
		}
		substituted := strings.Replace(ancestor, marker, grid.QuoteField(child), 1)

		// The reduced wrapper restores the bare depth-(D-1) marker where the
		// span sat; it becomes the new (1,1) field ahead of the substituted
		// ancestor's remaining cells.
		reduced := wrapper[:i] + grid.QuoteField(Marker(depth-1)) + wrapper[j+len(closeTok):]
		text = grid.QuoteField(reduced) + substituted
	}

	dataset := grid.Decode(text)
	focus := markerCell(ancestor, depth)

	g.LoadRows(dataset)
	return focus, nil
}
