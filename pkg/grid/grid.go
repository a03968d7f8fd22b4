// Package grid implements the sparse cell store that backs the structural
// parsing engine, together with the delimited-text codec used to serialize
// grid contents.
//
// A Grid maps 1-based (row, col) coordinates to raw cell text. Absence means
// empty: setting a cell to the empty string removes its record. The nominal
// row/column counts are advisory bounds for presentation and clipping - they
// are not the size of any backing array and filled cells may lie beyond them.
package grid

import "sort"

// Point is a 1-based (row, col) coordinate on a grid.
// The zero value is not a valid coordinate; valid points have Row >= 1 and
// Col >= 1.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether the point lies in the addressable quadrant
// (Row >= 1 and Col >= 1).
func (p Point) Valid() bool { return p.Row >= 1 && p.Col >= 1 }

// Compare orders points by row, then by column. It returns a negative
// number, zero, or a positive number as p sorts before, equal to, or after q.
func (p Point) Compare(q Point) int {
	if p.Row != q.Row {
		return p.Row - q.Row
	}
	return p.Col - q.Col
}

// Cell is a filled grid position together with its raw text.
type Cell struct {
	Point
	Text string `json:"text"`
}

// Grid is a sparse mapping from coordinates to raw cell text.
//
// The zero value is not usable - use New. Grid is not safe for concurrent
// use without external synchronization; the engine is single-threaded by
// design and callers serialize access themselves.
type Grid struct {
	cells map[Point]string
	rows  int // nominal row count (advisory)
	cols  int // nominal column count (advisory)
}

// DefaultRows and DefaultCols are the nominal bounds of a freshly created
// grid when the caller does not specify any.
const (
	DefaultRows = 1000
	DefaultCols = 100
)

// New creates an empty grid with the given nominal bounds.
// Non-positive values fall back to DefaultRows/DefaultCols.
func New(rows, cols int) *Grid {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}
	return &Grid{cells: make(map[Point]string), rows: rows, cols: cols}
}

// Get returns the raw text at p, or the empty string if the cell is empty.
func (g *Grid) Get(p Point) string { return g.cells[p] }

// Set stores text at p. Setting the empty string deletes the record, so a
// grid never holds explicit empty cells. Invalid coordinates are ignored.
func (g *Grid) Set(p Point, text string) {
	if !p.Valid() {
		return
	}
	if text == "" {
		delete(g.cells, p)
		return
	}
	g.cells[p] = text
	if p.Row > g.rows {
		g.rows = p.Row
	}
	if p.Col > g.cols {
		g.cols = p.Col
	}
}

// Clear removes every cell. Nominal bounds are kept.
func (g *Grid) Clear() { g.cells = make(map[Point]string) }

// Len returns the number of filled cells.
func (g *Grid) Len() int { return len(g.cells) }

// RowCount returns the nominal row count.
func (g *Grid) RowCount() int { return g.rows }

// ColCount returns the nominal column count.
func (g *Grid) ColCount() int { return g.cols }

// Resize updates the nominal bounds. It never discards cell records, even
// ones beyond the new bounds. Non-positive values are ignored.
func (g *Grid) Resize(rows, cols int) {
	if rows > 0 {
		g.rows = rows
	}
	if cols > 0 {
		g.cols = cols
	}
}

// UsedBounds returns the maximum filled row and column, or (0, 0) for an
// empty grid.
func (g *Grid) UsedBounds() (maxRow, maxCol int) {
	for p := range g.cells {
		if p.Row > maxRow {
			maxRow = p.Row
		}
		if p.Col > maxCol {
			maxCol = p.Col
		}
	}
	return maxRow, maxCol
}

// Points returns the coordinates of all filled cells, sorted by row then
// column. Sorting makes downstream clustering independent of map iteration
// order.
func (g *Grid) Points() []Point {
	pts := make([]Point, 0, len(g.cells))
	for p := range g.cells {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Compare(pts[j]) < 0 })
	return pts
}

// Cells returns all filled cells with their text, sorted by row then column.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, 0, len(g.cells))
	for p, t := range g.cells {
		cells = append(cells, Cell{Point: p, Text: t})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Compare(cells[j].Point) < 0 })
	return cells
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := New(g.rows, g.cols)
	for p, t := range g.cells {
		c.cells[p] = t
	}
	return c
}

// LoadRows clears the grid and fills it from a row/column dataset, with
// rows[0][0] landing at coordinate (1, 1). Empty fields produce no record.
// Nominal bounds grow to cover the dataset but never shrink.
func (g *Grid) LoadRows(rows [][]string) {
	g.Clear()
	for r, row := range rows {
		for c, text := range row {
			g.Set(Point{Row: r + 1, Col: c + 1}, text)
		}
	}
}
