package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Textrux/textrux/pkg/grid"
	"github.com/Textrux/textrux/pkg/structure"
)

func newTestSession() *Session {
	g := grid.New(0, 0)
	g.Set(grid.Point{Row: 2, Col: 3}, "hello")
	return New(g, structure.DefaultOptions(), DefaultTTL)
}

func TestNewSession(t *testing.T) {
	s := newTestSession()
	if s.ID == "" {
		t.Error("ID should be generated")
	}
	if s.Options.Margin != structure.DefaultMargin {
		t.Errorf("Margin = %d, want %d", s.Options.Margin, structure.DefaultMargin)
	}
	if s.Focus != (grid.Point{Row: 1, Col: 1}) {
		t.Errorf("Focus = %v, want (1,1)", s.Focus)
	}
	if s.IsExpired() {
		t.Error("fresh session should not be expired")
	}
}

func TestNewSessionNormalizesOptions(t *testing.T) {
	s := New(grid.New(0, 0), structure.Options{}, 0)
	if s.Options.Margin != structure.DefaultMargin || s.Options.SubMargin != structure.DefaultSubMargin {
		t.Errorf("Options = %+v, want defaults", s.Options)
	}
	if s.IsExpired() {
		t.Error("zero TTL should mean no expiration")
	}
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	sess := newTestSession()
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Grid.Get(grid.Point{Row: 2, Col: 3}) != "hello" {
		t.Error("grid content should survive the store")
	}

	// Mutating the returned snapshot must not affect stored state.
	got.Grid.Set(grid.Point{Row: 9, Col: 9}, "leak")
	again, _ := store.Get(ctx, sess.ID)
	if again.Grid.Get(grid.Point{Row: 9, Col: 9}) != "" {
		t.Error("Get should return an isolated copy")
	}

	// Update applies under the store's lock and persists.
	updated, err := store.Update(ctx, sess.ID, func(s *Session) error {
		s.Grid.Set(grid.Point{Row: 5, Col: 5}, "edit")
		s.Focus = grid.Point{Row: 5, Col: 5}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Grid.Get(grid.Point{Row: 5, Col: 5}) != "edit" {
		t.Error("Update should return the mutated session")
	}
	stored, _ := store.Get(ctx, sess.ID)
	if stored.Focus != (grid.Point{Row: 5, Col: 5}) {
		t.Errorf("Focus = %v, want (5,5)", stored.Focus)
	}

	// A failing Update leaves the workspace unchanged.
	wantErr := errors.New("boom")
	if _, err := store.Update(ctx, sess.ID, func(s *Session) error {
		s.Grid.Clear()
		return wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}
	intact, _ := store.Get(ctx, sess.ID)
	if intact.Grid.Get(grid.Point{Row: 5, Col: 5}) != "edit" {
		t.Error("failed Update should not mutate the stored workspace")
	}

	sessions, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("List returned %d sessions, want 1", len(sessions))
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	// Deleting again is not an error.
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(DefaultTTL)
	defer store.Close()
	testStore(t, store)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), DefaultTTL)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close()
	testStore(t, store)
}

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Nanosecond)
	defer store.Close()

	sess := New(grid.New(0, 0), structure.DefaultOptions(), time.Nanosecond)
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired workspace: got %v, want ErrNotFound", err)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir, DefaultTTL)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	sess := newTestSession()
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}
	store.Close()

	reopened, err := NewFileStore(dir, DefaultTTL)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	got, err := reopened.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Grid.Get(grid.Point{Row: 2, Col: 3}) != "hello" {
		t.Error("grid content should survive a restart")
	}
}
