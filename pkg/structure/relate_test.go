package structure

import (
	"testing"

	"github.com/Textrux/textrux/pkg/grid"
)

// blocksAt clusters single-cell blocks at the given points with the default
// options. Callers space the points so they do not merge.
func blocksAt(t *testing.T, points ...grid.Point) []*Block {
	t.Helper()
	blocks := ComputeBlocks(gridWith(points...), DefaultOptions())
	if len(blocks) != len(points) {
		t.Fatalf("expected %d distinct blocks, got %d", len(points), len(blocks))
	}
	return blocks
}

func TestJoinLinked(t *testing.T) {
	// Single cells 4 columns apart: frames overlap on the shared column but
	// neither border reaches the other's frame.
	blocks := blocksAt(t, grid.Point{Row: 5, Col: 5}, grid.Point{Row: 5, Col: 9})
	joins, clusters := ComputeRelationships(blocks)

	if len(joins) != 1 {
		t.Fatalf("got %d joins, want 1", len(joins))
	}
	j := joins[0]
	if j.Type != JoinLinked {
		t.Errorf("Type = %q, want %q", j.Type, JoinLinked)
	}
	if len(j.LinkedPoints) == 0 {
		t.Error("linked join should carry frame intersection points")
	}
	if len(j.LockedPoints) != 0 {
		t.Errorf("LockedPoints = %v, want empty", j.LockedPoints)
	}
	if len(clusters) != 1 || len(clusters[0].Blocks) != 2 {
		t.Fatalf("expected one cluster of two blocks, got %+v", clusters)
	}
}

func TestJoinUpgradesToLocked(t *testing.T) {
	// Moving the blocks one column closer makes a border touch the other's
	// frame, upgrading the join to locked.
	blocks := blocksAt(t, grid.Point{Row: 5, Col: 5}, grid.Point{Row: 5, Col: 8})
	joins, _ := ComputeRelationships(blocks)

	if len(joins) != 1 {
		t.Fatalf("got %d joins, want 1", len(joins))
	}
	j := joins[0]
	if j.Type != JoinLocked {
		t.Errorf("Type = %q, want %q", j.Type, JoinLocked)
	}
	if len(j.LockedPoints) == 0 {
		t.Error("locked join should carry border/frame intersection points")
	}
}

func TestNoJoinWhenFramesApart(t *testing.T) {
	blocks := blocksAt(t, grid.Point{Row: 5, Col: 5}, grid.Point{Row: 5, Col: 20})
	joins, clusters := ComputeRelationships(blocks)

	if len(joins) != 0 {
		t.Fatalf("got %d joins, want 0", len(joins))
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2 singletons", len(clusters))
	}
	for _, c := range clusters {
		if len(c.Blocks) != 1 || len(c.Joins) != 0 {
			t.Errorf("singleton cluster malformed: %d blocks, %d joins", len(c.Blocks), len(c.Joins))
		}
	}
}

func TestClusterClosure(t *testing.T) {
	// A joins B and B joins C, but A and C are too far apart to join
	// directly. All three must land in one cluster.
	blocks := blocksAt(t,
		grid.Point{Row: 5, Col: 5},
		grid.Point{Row: 5, Col: 9},
		grid.Point{Row: 5, Col: 13},
	)
	joins, clusters := ComputeRelationships(blocks)

	if len(joins) != 2 {
		t.Fatalf("got %d joins, want 2", len(joins))
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	c := clusters[0]
	if len(c.Blocks) != 3 {
		t.Errorf("cluster has %d blocks, want 3", len(c.Blocks))
	}
	if len(c.Joins) != 2 {
		t.Errorf("cluster has %d joins, want 2", len(c.Joins))
	}
	if want := (Rect{Top: 5, Left: 5, Bottom: 5, Right: 13}); c.Rect != want {
		t.Errorf("cluster rect = %+v, want %+v", c.Rect, want)
	}
}

func TestClusterPointUnionsDeduplicated(t *testing.T) {
	blocks := blocksAt(t,
		grid.Point{Row: 5, Col: 5},
		grid.Point{Row: 5, Col: 9},
		grid.Point{Row: 5, Col: 13},
	)
	_, clusters := ComputeRelationships(blocks)
	c := clusters[0]

	seen := make(map[grid.Point]int)
	for _, p := range c.LinkedPoints {
		seen[p]++
	}
	for p, n := range seen {
		if n > 1 {
			t.Errorf("linked point %v appears %d times", p, n)
		}
	}
}

func TestExpandOutline(t *testing.T) {
	blocks := blocksAt(t, grid.Point{Row: 1, Col: 1})
	_, clusters := ComputeRelationships(blocks)

	bounds := Rect{Top: 1, Left: 1, Bottom: 100, Right: 100}
	got := clusters[0].ExpandOutline(bounds, 2)
	want := Rect{Top: 1, Left: 1, Bottom: 3, Right: 3}
	if got != want {
		t.Errorf("ExpandOutline = %+v, want %+v", got, want)
	}
}

func TestRelationshipsOrderIndependent(t *testing.T) {
	pts := []grid.Point{{Row: 5, Col: 5}, {Row: 5, Col: 9}, {Row: 20, Col: 20}, {Row: 20, Col: 24}}
	blocks := blocksAt(t, pts...)

	_, clusters1 := ComputeRelationships(blocks)
	reversed := make([]*Block, len(blocks))
	for i, b := range blocks {
		reversed[len(blocks)-1-i] = b
	}
	_, clusters2 := ComputeRelationships(reversed)

	if len(clusters1) != len(clusters2) {
		t.Fatalf("cluster counts differ: %d vs %d", len(clusters1), len(clusters2))
	}
	for i := range clusters1 {
		if clusters1[i].Rect != clusters2[i].Rect {
			t.Errorf("cluster %d rect %+v vs %+v", i, clusters1[i].Rect, clusters2[i].Rect)
		}
		if len(clusters1[i].Blocks) != len(clusters2[i].Blocks) {
			t.Errorf("cluster %d sizes differ", i)
		}
	}
}
