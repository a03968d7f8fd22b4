package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory workspace store for development and
// single-instance servers.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	sess map[string]*Session
}

// NewMemoryStore creates an in-memory store. A zero ttl disables
// expiration.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, sess: make(map[string]*Session)}
}

// snapshot copies a session so callers can't mutate stored state outside
// the store's lock. The grid is deep-copied.
func snapshot(s *Session) *Session {
	c := *s
	c.Grid = s.Grid.Clone()
	return &c
}

func (m *MemoryStore) Create(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess[sess.ID] = snapshot(sess)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sess[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		delete(m.sess, id)
		return nil, ErrNotFound
	}
	return snapshot(s), nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sess[id]
	if !ok || s.IsExpired() {
		delete(m.sess, id)
		return nil, ErrNotFound
	}

	// Work on a copy so a failing fn leaves the stored workspace intact.
	work := snapshot(s)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.Touch(m.ttl)
	m.sess[id] = work
	return snapshot(work), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sess))
	for id, s := range m.sess {
		if s.IsExpired() {
			delete(m.sess, id)
			continue
		}
		out = append(out, snapshot(s))
	}
	return out, nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sess {
		if s.IsExpired() {
			delete(m.sess, id)
		}
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
