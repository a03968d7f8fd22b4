package structure

import "github.com/Textrux/textrux/pkg/grid"

// SubCluster is a tighter grouping of a block's own canvas points, found by
// re-running the clustering pass over the canvas with the smaller SubMargin.
type SubCluster struct {
	Rect   Rect         `json:"rect"`
	Points []grid.Point `json:"points"`
}

// Block is the immutable result of clustering: a bounding rectangle, the
// filled cells themselves (canvas), and two outline rings derived from the
// bounds - the border one cell outside and the frame one cell further out.
//
// Invariants: Canvas points lie inside Rect; Border and Frame never contain
// coordinates with row or col < 1.
type Block struct {
	Rect        Rect         `json:"rect"`
	Canvas      []grid.Point `json:"canvas"`
	Border      []grid.Point `json:"border"`
	Frame       []grid.Point `json:"frame"`
	SubClusters []SubCluster `json:"sub_clusters,omitempty"`

	canvasSet pointSet
	borderSet pointSet
	frameSet  pointSet
}

// IsCanvas reports whether p is one of the block's filled cells.
func (b *Block) IsCanvas(p grid.Point) bool { return b.canvasSet.has(p) }

// IsBorder reports whether p lies on the block's border ring.
func (b *Block) IsBorder(p grid.Point) bool { return b.borderSet.has(p) }

// IsFrame reports whether p lies on the block's frame ring.
func (b *Block) IsFrame(p grid.Point) bool { return b.frameSet.has(p) }

// CellCount returns the number of filled cells in the block.
func (b *Block) CellCount() int { return len(b.Canvas) }

// ring builds the outline ring at the given offset outside the rectangle,
// discarding coordinates outside the addressable quadrant and, when clip is
// set, coordinates beyond the grid bounds.
func ring(r Rect, offset int, clip bool, bounds Rect) []grid.Point {
	var pts []grid.Point
	for _, p := range r.Expand(offset).perimeter() {
		if !p.Valid() {
			continue
		}
		if clip && !bounds.Contains(p) {
			continue
		}
		pts = append(pts, p)
	}
	return sortPoints(pts)
}

// finalizeBlock converts a finished container into a Block, computing its
// rings and sub-clusters.
func finalizeBlock(c *container, opts Options, bounds Rect) *Block {
	b := &Block{
		Rect:   c.rect,
		Canvas: c.points,
		Border: ring(c.rect, 1, opts.ClipToBounds, bounds),
		Frame:  ring(c.rect, 2, opts.ClipToBounds, bounds),
	}
	for _, sub := range clusterPoints(c.points, opts.SubMargin, bounds) {
		b.SubClusters = append(b.SubClusters, SubCluster{Rect: sub.rect, Points: sub.points})
	}
	b.canvasSet = newPointSet(b.Canvas)
	b.borderSet = newPointSet(b.Border)
	b.frameSet = newPointSet(b.Frame)
	return b
}

// ComputeBlocks clusters the grid's filled cells into blocks. The result is
// sorted by bounding rectangle and is identical across repeated runs on
// unchanged data. An empty grid yields an empty result.
func ComputeBlocks(g *grid.Grid, opts Options) []*Block {
	opts = opts.Normalized()
	bounds := Rect{Top: 1, Left: 1, Bottom: g.RowCount(), Right: g.ColCount()}
	containers := clusterPoints(g.Points(), opts.Margin, bounds)
	blocks := make([]*Block, 0, len(containers))
	for _, c := range containers {
		blocks = append(blocks, finalizeBlock(c, opts, bounds))
	}
	return blocks
}
