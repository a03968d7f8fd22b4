package structure

import (
	"sort"

	"github.com/Textrux/textrux/pkg/grid"
)

// Options controls the clustering pass.
type Options struct {
	// Margin is the expansion distance used for top-level block detection.
	Margin int `json:"margin" toml:"margin"`

	// SubMargin is the expansion distance used when re-clustering a block's
	// own canvas points into sub-clusters.
	SubMargin int `json:"sub_margin" toml:"sub_margin"`

	// ClipToBounds additionally clips border and frame rings to the grid's
	// nominal upper row/column bounds. The lower bound (row, col >= 1) is
	// always enforced.
	ClipToBounds bool `json:"clip_to_bounds" toml:"clip_to_bounds"`
}

// Default margins: 2 for block detection, 1 for sub-cluster detection.
const (
	DefaultMargin    = 2
	DefaultSubMargin = 1
)

// DefaultOptions returns the standard engine options.
func DefaultOptions() Options {
	return Options{Margin: DefaultMargin, SubMargin: DefaultSubMargin}
}

// Normalized returns the options with zero-value margins replaced by the
// defaults, so the zero Options value behaves like DefaultOptions.
func (o Options) Normalized() Options {
	if o.Margin < 1 {
		o.Margin = DefaultMargin
	}
	if o.SubMargin < 1 {
		o.SubMargin = DefaultSubMargin
	}
	return o
}

// container is the mutable accumulator used during one clustering pass:
// a bounding rectangle plus the filled points it has absorbed. Containers
// are discarded after finalization into Blocks.
type container struct {
	rect   Rect
	points []grid.Point
}

func (c *container) absorb(p grid.Point) {
	c.rect = c.rect.Union(RectAt(p))
	c.points = append(c.points, p)
}

func (c *container) merge(o *container) {
	c.rect = c.rect.Union(o.rect)
	c.points = append(c.points, o.points...)
}

// clusterPoints groups filled points into containers by fixpoint expansion.
//
// Per unconsumed seed point: start a container at the seed, then repeatedly
// expand its rectangle by margin (clamped to the addressable quadrant and
// clipped to bounds) and absorb every not-yet-consumed point inside, until an
// expansion pass absorbs nothing. Then repeatedly test the expanded rectangle
// against already-finalized containers and merge any that overlap - a merge
// can expose new overlaps, so this loops to a second fixpoint.
//
// Input points are sorted first and the result is sorted by bounding
// rectangle, so the outcome is independent of the caller's iteration order.
func clusterPoints(points []grid.Point, margin int, bounds Rect) []*container {
	pts := sortPoints(append([]grid.Point(nil), points...))
	consumed := make(pointSet, len(pts))
	var done []*container

	expanded := func(c *container) Rect {
		return c.rect.Expand(margin).ClampLow().Clip(bounds)
	}

	for _, seed := range pts {
		if consumed.has(seed) {
			continue
		}
		consumed.add(seed)
		c := &container{rect: RectAt(seed), points: []grid.Point{seed}}

		// Absorb fixpoint: grow until an expansion pass finds nothing new.
		for {
			exp := expanded(c)
			absorbed := false
			for _, p := range pts {
				if consumed.has(p) || !exp.Contains(p) {
					continue
				}
				consumed.add(p)
				c.absorb(p)
				absorbed = true
			}
			if !absorbed {
				break
			}
		}

		// Merge fixpoint: union with any finalized container the expanded
		// rectangle overlaps, re-expanding after every merge.
		for {
			exp := expanded(c)
			merged := false
			for i, other := range done {
				if !exp.Overlaps(other.rect) {
					continue
				}
				done = append(done[:i], done[i+1:]...)
				c.merge(other)
				merged = true
				break
			}
			if !merged {
				break
			}
		}

		done = append(done, c)
	}

	for _, c := range done {
		sortPoints(c.points)
	}
	sort.Slice(done, func(i, j int) bool { return done[i].rect.Compare(done[j].rect) < 0 })
	return done
}
