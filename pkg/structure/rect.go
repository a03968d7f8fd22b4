// Package structure discovers structure from the spatial placement of text
// on a sparse grid. It clusters filled cells into rectangular blocks, derives
// each block's border and frame rings, detects overlap-based relationships
// between blocks, and groups related blocks into clusters.
//
// The pipeline is: ComputeBlocks scans a grid's filled cells and produces
// Blocks; ComputeRelationships tests every block pair for frame/border
// overlap and produces BlockJoins plus connected-component BlockClusters.
// Annotate derives per-cell lookups for presentation layers.
//
// All operations are synchronous, deterministic, and never fail: any input,
// including an empty grid, yields a valid (possibly empty) result.
package structure

import "github.com/Textrux/textrux/pkg/grid"

// Rect is an inclusive axis-aligned rectangle in 1-based grid coordinates.
type Rect struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Bottom int `json:"bottom"`
	Right  int `json:"right"`
}

// RectAt returns the zero-size rectangle covering a single cell.
func RectAt(p grid.Point) Rect {
	return Rect{Top: p.Row, Left: p.Col, Bottom: p.Row, Right: p.Col}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p grid.Point) bool {
	return p.Row >= r.Top && p.Row <= r.Bottom && p.Col >= r.Left && p.Col <= r.Right
}

// Overlaps reports whether two rectangles share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.Top <= o.Bottom && o.Top <= r.Bottom && r.Left <= o.Right && o.Left <= r.Right
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Top:    min(r.Top, o.Top),
		Left:   min(r.Left, o.Left),
		Bottom: max(r.Bottom, o.Bottom),
		Right:  max(r.Right, o.Right),
	}
}

// Expand grows the rectangle by m cells on every side without any clamping.
// The result may extend into invalid coordinates (row or col < 1); callers
// clamp or filter as appropriate.
func (r Rect) Expand(m int) Rect {
	return Rect{Top: r.Top - m, Left: r.Left - m, Bottom: r.Bottom + m, Right: r.Right + m}
}

// ClampLow clips the rectangle's top-left to the addressable quadrant.
func (r Rect) ClampLow() Rect {
	if r.Top < 1 {
		r.Top = 1
	}
	if r.Left < 1 {
		r.Left = 1
	}
	return r
}

// Clip clips the rectangle to the given bounds on all four sides.
func (r Rect) Clip(bounds Rect) Rect {
	if r.Top < bounds.Top {
		r.Top = bounds.Top
	}
	if r.Left < bounds.Left {
		r.Left = bounds.Left
	}
	if r.Bottom > bounds.Bottom {
		r.Bottom = bounds.Bottom
	}
	if r.Right > bounds.Right {
		r.Right = bounds.Right
	}
	return r
}

// Compare orders rectangles by (Top, Left, Bottom, Right) ascending, the
// canonical output order for clustering results.
func (r Rect) Compare(o Rect) int {
	if r.Top != o.Top {
		return r.Top - o.Top
	}
	if r.Left != o.Left {
		return r.Left - o.Left
	}
	if r.Bottom != o.Bottom {
		return r.Bottom - o.Bottom
	}
	return r.Right - o.Right
}

// Width returns the number of columns the rectangle spans.
func (r Rect) Width() int { return r.Right - r.Left + 1 }

// Height returns the number of rows the rectangle spans.
func (r Rect) Height() int { return r.Bottom - r.Top + 1 }

// perimeter returns the cells on the rectangle's outline: the full top and
// bottom rows plus the left and right columns between them. Corners appear
// once. A 1-row or 1-column rectangle degenerates to a single run of cells.
func (r Rect) perimeter() []grid.Point {
	seen := make(map[grid.Point]struct{})
	var pts []grid.Point
	add := func(p grid.Point) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		pts = append(pts, p)
	}
	for c := r.Left; c <= r.Right; c++ {
		add(grid.Point{Row: r.Top, Col: c})
		add(grid.Point{Row: r.Bottom, Col: c})
	}
	for row := r.Top + 1; row <= r.Bottom-1; row++ {
		add(grid.Point{Row: row, Col: r.Left})
		add(grid.Point{Row: row, Col: r.Right})
	}
	return pts
}
