// Package session manages server-side grid workspaces.
//
// A workspace holds one mutable grid plus the analysis options it was
// created with. The API server keys workspaces by UUID; stores provide
// the persistence backends:
//   - memory: In-memory storage for development and single-instance servers
//   - file: File-based storage that survives restarts
//
// Workspaces expire after a sliding TTL measured from the last update, so
// abandoned grids don't accumulate. Every mutation goes through
// [Store.Update], which serializes concurrent access to one workspace -
// this is what keeps multi-step grid edits (like entering and leaving
// nested grids) atomic under concurrent requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Textrux/textrux/pkg/grid"
	"github.com/Textrux/textrux/pkg/structure"
)

// Sentinel errors for workspace operations.
var (
	// ErrNotFound is returned when a workspace does not exist or has expired.
	ErrNotFound = errors.New("workspace not found")
)

// DefaultTTL is the sliding idle lifetime of a workspace.
const DefaultTTL = 24 * time.Hour

// Session is one grid workspace.
type Session struct {
	ID        string            `json:"id"`
	Grid      *grid.Grid        `json:"-"`
	Options   structure.Options `json:"options"`
	Focus     grid.Point        `json:"focus"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// IsExpired reports whether the workspace has passed its idle deadline.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch refreshes the sliding expiration after a mutation.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
}

// New creates a workspace with a fresh UUID around the given grid.
func New(g *grid.Grid, opts structure.Options, ttl time.Duration) *Session {
	if g == nil {
		g = grid.New(0, 0)
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Grid:      g,
		Options:   opts.Normalized(),
		Focus:     grid.Point{Row: 1, Col: 1},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Store is the interface for workspace storage backends.
type Store interface {
	// Create stores a new workspace.
	Create(ctx context.Context, sess *Session) error

	// Get retrieves a workspace by ID. The returned session is a snapshot;
	// mutations must go through Update. Returns ErrNotFound for missing or
	// expired workspaces.
	Get(ctx context.Context, id string) (*Session, error)

	// Update applies fn to the workspace under the store's per-workspace
	// lock and persists the result. If fn returns an error, the workspace
	// is left unchanged. Returns the updated session.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// Delete removes a workspace. Deleting a missing workspace is not an
	// error.
	Delete(ctx context.Context, id string) error

	// List returns all live workspaces.
	List(ctx context.Context) ([]*Session, error)

	// Cleanup removes expired workspaces.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
