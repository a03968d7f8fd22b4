package nest

import (
	"testing"

	"github.com/Textrux/textrux/pkg/errors"
	"github.com/Textrux/textrux/pkg/grid"
)

func pt(r, c int) grid.Point { return grid.Point{Row: r, Col: c} }

func TestEnterNotNestable(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(2, 2), "plain text")

	_, err := Enter(g, pt(2, 2))
	if !errors.Is(err, errors.ErrCodeNotNestable) {
		t.Fatalf("err = %v, want NOT_NESTABLE", err)
	}
	if got := g.Get(pt(2, 2)); got != "plain text" {
		t.Errorf("no-op Enter mutated the cell: %q", got)
	}
	if g.Len() != 1 {
		t.Errorf("no-op Enter changed the grid: %d cells", g.Len())
	}
}

func TestEnterEmptyCellSeedsMinimalPayload(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(1, 1), "head")

	focus, err := Enter(g, pt(3, 3))
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if focus != pt(1, 2) {
		t.Errorf("focus = %v, want (1,2)", focus)
	}
	if Depth(g) != 1 {
		t.Errorf("Depth = %d, want 1", Depth(g))
	}

	// Leaving immediately restores the base grid; the entered cell now
	// holds the child's serialized form.
	focus, err = Leave(g)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if focus != pt(3, 3) {
		t.Errorf("focus = %v, want (3,3)", focus)
	}
	if got := g.Get(pt(1, 1)); got != "head" {
		t.Errorf("(1,1) = %q, want %q", got, "head")
	}
	if got := g.Get(pt(3, 3)); !IsNestable(got) {
		t.Errorf("(3,3) = %q, want nestable text", got)
	}
}

func TestLeaveNotNested(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(1, 1), "just content")
	g.Set(pt(2, 2), "x")

	_, err := Leave(g)
	if !errors.Is(err, errors.ErrCodeNotNested) {
		t.Fatalf("err = %v, want NOT_NESTED", err)
	}
	if g.Len() != 2 {
		t.Errorf("no-op Leave changed the grid: %d cells", g.Len())
	}
}

func TestNestingRoundTripWithEdits(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(1, 1), "A")
	g.Set(pt(2, 3), "B")
	g.Set(pt(4, 4), "\tx\ty") // nestable payload

	if _, err := Enter(g, pt(4, 4)); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if got := g.Get(pt(1, 2)); got != "x" {
		t.Fatalf("nested (1,2) = %q, want %q", got, "x")
	}

	// Edit the nested grid.
	g.Set(pt(2, 2), "edited")

	focus, err := Leave(g)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if focus != pt(4, 4) {
		t.Errorf("focus = %v, want (4,4)", focus)
	}

	// Base cells restored.
	if got := g.Get(pt(1, 1)); got != "A" {
		t.Errorf("(1,1) = %q, want %q", got, "A")
	}
	if got := g.Get(pt(2, 3)); got != "B" {
		t.Errorf("(2,3) = %q, want %q", got, "B")
	}

	// The entered cell re-decodes to the edited content.
	rows := grid.Decode(g.Get(pt(4, 4)))
	nested := grid.New(0, 0)
	nested.LoadRows(rows)
	if got := nested.Get(pt(1, 2)); got != "x" {
		t.Errorf("nested (1,2) = %q, want %q", got, "x")
	}
	if got := nested.Get(pt(2, 2)); got != "edited" {
		t.Errorf("nested (2,2) = %q, want %q", got, "edited")
	}
}

func TestDepthMonotonicity(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(1, 1), "base")
	g.Set(pt(2, 2), "\ta")

	if Depth(g) != 0 {
		t.Fatalf("initial depth = %d, want 0", Depth(g))
	}
	for want := 1; want <= 3; want++ {
		if _, err := Enter(g, pt(2, 2)); err != nil {
			t.Fatalf("Enter to depth %d: %v", want, err)
		}
		if got := Depth(g); got != want {
			t.Fatalf("depth after Enter = %d, want %d", got, want)
		}
	}
	for want := 2; want >= 0; want-- {
		if _, err := Leave(g); err != nil {
			t.Fatalf("Leave to depth %d: %v", want, err)
		}
		if got := Depth(g); got != want {
			t.Fatalf("depth after Leave = %d, want %d", got, want)
		}
	}

	// Leave at depth 0 is a no-op.
	if _, err := Leave(g); !errors.Is(err, errors.ErrCodeNotNested) {
		t.Errorf("Leave at depth 0 = %v, want NOT_NESTED", err)
	}
	if got := g.Get(pt(1, 1)); got != "base" {
		t.Errorf("(1,1) = %q, want %q", got, "base")
	}
}

func TestDeepRoundTripRestoresEveryLevel(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(1, 1), "L0")
	g.Set(pt(3, 2), "\tfirst")

	if _, err := Enter(g, pt(3, 2)); err != nil {
		t.Fatalf("Enter 1: %v", err)
	}
	g.Set(pt(2, 2), "level1 edit")
	g.Set(pt(5, 5), "\tsecond")

	if _, err := Enter(g, pt(5, 5)); err != nil {
		t.Fatalf("Enter 2: %v", err)
	}
	g.Set(pt(4, 1), "level2 edit")

	focus, err := Leave(g)
	if err != nil {
		t.Fatalf("Leave from depth 2: %v", err)
	}
	if focus != pt(5, 5) {
		t.Errorf("focus = %v, want (5,5)", focus)
	}
	if Depth(g) != 1 {
		t.Fatalf("depth = %d, want 1", Depth(g))
	}
	if got := g.Get(pt(2, 2)); got != "level1 edit" {
		t.Errorf("level-1 edit lost: (2,2) = %q", got)
	}
	// The exited cell re-decodes to the depth-2 content, edits included.
	inner := grid.New(0, 0)
	inner.LoadRows(grid.Decode(g.Get(pt(5, 5))))
	if got := inner.Get(pt(4, 1)); got != "level2 edit" {
		t.Errorf("level-2 edit lost: %q", got)
	}
	if got := inner.Get(pt(1, 2)); got != "second" {
		t.Errorf("level-2 payload lost: %q", got)
	}

	if _, err := Leave(g); err != nil {
		t.Fatalf("Leave to base: %v", err)
	}
	if got := g.Get(pt(1, 1)); got != "L0" {
		t.Errorf("(1,1) = %q, want %q", got, "L0")
	}
	if got := g.Get(pt(3, 2)); !IsNestable(got) {
		t.Errorf("(3,2) = %q, want nestable text", got)
	}
}

func TestLeaveCorruptedWrapperIsAtomic(t *testing.T) {
	g := grid.New(0, 0)
	g.Set(pt(1, 1), "base")
	g.Set(pt(2, 2), "\ta")
	if _, err := Enter(g, pt(2, 2)); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	// Simulate a manual edit of (1,1) that keeps a marker-looking token so
	// depth still parses, but destroys the span structure around it.
	g.Set(pt(1, 1), "^garbage <<#2#>> no spans here")
	before := g.Cells()

	_, err := Leave(g)
	if !errors.Is(err, errors.ErrCodeMarkerNotFound) {
		t.Fatalf("err = %v, want MARKER_NOT_FOUND", err)
	}
	after := g.Cells()
	if len(before) != len(after) {
		t.Fatalf("failed Leave mutated the grid")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("cell changed: %+v -> %+v", before[i], after[i])
		}
	}
}

func TestParseDepth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"^no marker", 0},
		{"^a\t<<#1#>>", 1},
		{"^a\t<<{1{>>\"\tx\t<<#2#>>\"<<}1}>>", 2},
		{"<<#17#>>", 17},
	}
	for _, tt := range tests {
		if got := ParseDepth(tt.text); got != tt.want {
			t.Errorf("ParseDepth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestIsNestable(t *testing.T) {
	if !IsNestable("\ta\tb") {
		t.Error("tab-prefixed text should be nestable")
	}
	if !IsNestable(MinimalPayload) {
		t.Error("the minimal payload should be nestable")
	}
	if IsNestable("a\tb") {
		t.Error("text without leading separator is not nestable")
	}
	if IsNestable("") {
		t.Error("empty text is not nestable")
	}
}
