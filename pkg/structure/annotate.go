package structure

import "github.com/Textrux/textrux/pkg/grid"

// Annotations answers per-cell questions derived from a clustering result.
// Presentation layers use these lookups for rendering; they are not required
// for the correctness of the block/cluster model.
//
// A cell is cluster-empty when it lies inside some sub-cluster's bounding
// rectangle but is neither a canvas cell of that sub-cluster nor filled
// anywhere in the grid. A cell inside a block's bounding rectangle that is
// neither canvas nor cluster-empty is canvas-empty.
type Annotations struct {
	canvas       pointSet
	border       pointSet
	frame        pointSet
	clusterEmpty pointSet
	canvasEmpty  pointSet
}

// Annotate derives the per-cell annotation sets for a grid and its blocks.
func Annotate(g *grid.Grid, blocks []*Block) *Annotations {
	a := &Annotations{
		canvas:       make(pointSet),
		border:       make(pointSet),
		frame:        make(pointSet),
		clusterEmpty: make(pointSet),
		canvasEmpty:  make(pointSet),
	}
	filled := newPointSet(g.Points())

	for _, b := range blocks {
		// Build the lookup set from the exported points; blocks that were
		// deserialized (e.g. from the analysis cache) carry no precomputed
		// sets.
		canvasSet := newPointSet(b.Canvas)
		for _, p := range b.Canvas {
			a.canvas.add(p)
		}
		for _, p := range b.Border {
			a.border.add(p)
		}
		for _, p := range b.Frame {
			a.frame.add(p)
		}
		for _, sub := range b.SubClusters {
			subSet := newPointSet(sub.Points)
			eachCell(sub.Rect, func(p grid.Point) {
				if !subSet.has(p) && !filled.has(p) {
					a.clusterEmpty.add(p)
				}
			})
		}
		eachCell(b.Rect, func(p grid.Point) {
			if !canvasSet.has(p) && !a.clusterEmpty.has(p) {
				a.canvasEmpty.add(p)
			}
		})
	}
	return a
}

// eachCell invokes fn for every cell inside the rectangle.
func eachCell(r Rect, fn func(grid.Point)) {
	for row := r.Top; row <= r.Bottom; row++ {
		for col := r.Left; col <= r.Right; col++ {
			fn(grid.Point{Row: row, Col: col})
		}
	}
}

// IsCanvas reports whether p is a filled canvas cell of some block.
func (a *Annotations) IsCanvas(p grid.Point) bool { return a.canvas.has(p) }

// IsBorder reports whether p lies on some block's border ring.
func (a *Annotations) IsBorder(p grid.Point) bool { return a.border.has(p) }

// IsFrame reports whether p lies on some block's frame ring.
func (a *Annotations) IsFrame(p grid.Point) bool { return a.frame.has(p) }

// IsClusterEmpty reports whether p is an empty cell inside a sub-cluster's
// bounding rectangle.
func (a *Annotations) IsClusterEmpty(p grid.Point) bool { return a.clusterEmpty.has(p) }

// IsCanvasEmpty reports whether p is an empty cell inside a block's bounding
// rectangle that is not already cluster-empty.
func (a *Annotations) IsCanvasEmpty(p grid.Point) bool { return a.canvasEmpty.has(p) }
