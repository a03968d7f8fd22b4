package structure

import (
	"sort"

	"github.com/Textrux/textrux/pkg/grid"
)

// JoinType classifies the relationship between two blocks.
type JoinType string

const (
	// JoinLinked means the blocks' frames overlap but neither block's border
	// touches the other's frame.
	JoinLinked JoinType = "linked"

	// JoinLocked means at least one block's border overlaps the other's
	// frame. Locked takes precedence over linked.
	JoinLocked JoinType = "locked"
)

// BlockJoin relates exactly two blocks whose rings overlap.
//
// LinkedPoints is the frame-frame intersection; LockedPoints is the
// deduplicated union of the border-frame intersections in both directions.
// A join exists only when at least one of the two sets is non-empty.
//
// AIndex and BIndex are the positions of A and B in the block slice the
// join was computed from; they carry the endpoints through serialization,
// where the pointers are dropped.
type BlockJoin struct {
	A            *Block       `json:"-"`
	B            *Block       `json:"-"`
	AIndex       int          `json:"a"`
	BIndex       int          `json:"b"`
	LinkedPoints []grid.Point `json:"linked_points,omitempty"`
	LockedPoints []grid.Point `json:"locked_points,omitempty"`
	Type         JoinType     `json:"type"`
}

// BlockCluster is a maximal set of blocks transitively connected by joins.
// Every block belongs to exactly one cluster; a block with no joins forms a
// singleton cluster with zero joins.
//
// BlockIndexes and JoinIndexes are the members' positions in the block and
// join slices, serving the same serialization role as BlockJoin's indexes.
type BlockCluster struct {
	Blocks       []*Block     `json:"-"`
	Joins        []*BlockJoin `json:"-"`
	BlockIndexes []int        `json:"blocks"`
	JoinIndexes  []int        `json:"joins,omitempty"`
	Rect         Rect         `json:"rect"`
	LinkedPoints []grid.Point `json:"linked_points,omitempty"`
	LockedPoints []grid.Point `json:"locked_points,omitempty"`
}

// ExpandOutline returns the cluster's bounding rectangle padded by margin on
// every side and clamped to the given grid bounds. It exists for navigation
// and viewport purposes only and is not part of the clustering contract.
func (c *BlockCluster) ExpandOutline(bounds Rect, margin int) Rect {
	return c.Rect.Expand(margin).ClampLow().Clip(bounds)
}

// joinBlocks tests one unordered block pair for ring overlap and returns the
// resulting join, or nil when neither overlap test produces points.
func joinBlocks(a, b *Block) *BlockJoin {
	linked := a.frameSet.intersect(b.frameSet)
	locked := dedupePoints(
		a.borderSet.intersect(b.frameSet),
		a.frameSet.intersect(b.borderSet),
	)
	if len(linked) == 0 && len(locked) == 0 {
		return nil
	}
	j := &BlockJoin{A: a, B: b, LinkedPoints: linked, LockedPoints: locked, Type: JoinLinked}
	if len(locked) > 0 {
		j.Type = JoinLocked
	}
	return j
}

// ComputeRelationships builds the relationship graph over the given blocks:
// every unordered pair is tested for frame/border overlap, and connected
// components over the resulting joins become clusters.
//
// The result is order-independent: blocks within a cluster and the clusters
// themselves are sorted by bounding rectangle, and the point sets are
// deduplicated unions.
func ComputeRelationships(blocks []*Block) ([]*BlockJoin, []*BlockCluster) {
	var joins []*BlockJoin
	adjacency := make(map[int][]int) // block index -> incident join indices
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			join := joinBlocks(blocks[i], blocks[j])
			if join == nil {
				continue
			}
			join.AIndex, join.BIndex = i, j
			idx := len(joins)
			joins = append(joins, join)
			adjacency[i] = append(adjacency[i], idx)
			adjacency[j] = append(adjacency[j], idx)
		}
	}

	blockIndex := make(map[*Block]int, len(blocks))
	for i, b := range blocks {
		blockIndex[b] = i
	}

	// Connected components with an explicit stack; recursion depth must not
	// track pathological grid layouts.
	visited := make([]bool, len(blocks))
	var clusters []*BlockCluster
	for start := range blocks {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack := []int{start}
		var members []int
		joinSeen := make(map[int]struct{})
		var memberJoins []int
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, cur)
			for _, ji := range adjacency[cur] {
				if _, ok := joinSeen[ji]; !ok {
					joinSeen[ji] = struct{}{}
					memberJoins = append(memberJoins, ji)
				}
				join := joins[ji]
				for _, other := range []int{blockIndex[join.A], blockIndex[join.B]} {
					if !visited[other] {
						visited[other] = true
						stack = append(stack, other)
					}
				}
			}
		}
		clusters = append(clusters, buildCluster(blocks, joins, members, memberJoins))
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Rect.Compare(clusters[j].Rect) < 0 })
	return joins, clusters
}

// buildCluster assembles one connected component into a BlockCluster.
func buildCluster(blocks []*Block, joins []*BlockJoin, members, memberJoins []int) *BlockCluster {
	c := &BlockCluster{}

	sort.Ints(members)
	c.BlockIndexes = members
	for _, bi := range members {
		c.Blocks = append(c.Blocks, blocks[bi])
	}
	sort.Slice(c.Blocks, func(i, j int) bool { return c.Blocks[i].Rect.Compare(c.Blocks[j].Rect) < 0 })

	sort.Ints(memberJoins)
	c.JoinIndexes = memberJoins
	var linked, locked [][]grid.Point
	for _, ji := range memberJoins {
		c.Joins = append(c.Joins, joins[ji])
		linked = append(linked, joins[ji].LinkedPoints)
		locked = append(locked, joins[ji].LockedPoints)
	}
	c.LinkedPoints = dedupePoints(linked...)
	c.LockedPoints = dedupePoints(locked...)

	// Bounding rectangle over all member canvas points.
	first := true
	for _, b := range c.Blocks {
		for _, p := range b.Canvas {
			if first {
				c.Rect = RectAt(p)
				first = false
				continue
			}
			c.Rect = c.Rect.Union(RectAt(p))
		}
	}
	return c
}
