package structure

import (
	"sort"

	"github.com/Textrux/textrux/pkg/grid"
)

// pointSet is the working representation for ring and canvas membership.
// Exported slices are always produced through sorted() so results are
// deterministic regardless of map iteration order.
type pointSet map[grid.Point]struct{}

func newPointSet(pts []grid.Point) pointSet {
	s := make(pointSet, len(pts))
	for _, p := range pts {
		s[p] = struct{}{}
	}
	return s
}

func (s pointSet) add(p grid.Point) { s[p] = struct{}{} }

func (s pointSet) has(p grid.Point) bool {
	_, ok := s[p]
	return ok
}

// intersect returns the points present in both sets, sorted.
func (s pointSet) intersect(o pointSet) []grid.Point {
	small, large := s, o
	if len(o) < len(s) {
		small, large = o, s
	}
	var pts []grid.Point
	for p := range small {
		if large.has(p) {
			pts = append(pts, p)
		}
	}
	return sortPoints(pts)
}

func (s pointSet) sorted() []grid.Point {
	pts := make([]grid.Point, 0, len(s))
	for p := range s {
		pts = append(pts, p)
	}
	return sortPoints(pts)
}

// sortPoints sorts in place by row then column and returns the slice.
func sortPoints(pts []grid.Point) []grid.Point {
	sort.Slice(pts, func(i, j int) bool { return pts[i].Compare(pts[j]) < 0 })
	return pts
}

// dedupePoints returns the sorted union of the given slices with duplicates
// removed.
func dedupePoints(slices ...[]grid.Point) []grid.Point {
	seen := make(pointSet)
	for _, pts := range slices {
		for _, p := range pts {
			seen.add(p)
		}
	}
	return seen.sorted()
}
