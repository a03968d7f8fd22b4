package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Textrux/textrux/pkg/grid"
)

// FileStore persists workspaces as JSON files so they survive server
// restarts. The grid is stored in its text serialization.
type FileStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	baseDir string
}

// NewFileStore creates a file-based workspace store.
// If baseDir is empty, defaults to ~/.config/textrux/workspaces/
func NewFileStore(baseDir string, ttl time.Duration) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "textrux", "workspaces")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, ttl: ttl}, nil
}

// record is the on-disk shape: the session metadata plus the grid's text
// serialization.
type record struct {
	Session
	GridText string `json:"grid"`
}

func (f *FileStore) path(id string) string {
	return filepath.Join(f.baseDir, id+".json")
}

func (f *FileStore) read(id string) (*Session, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read workspace file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse workspace: %w", err)
	}

	sess := rec.Session
	sess.Grid = grid.New(0, 0)
	sess.Grid.LoadRows(grid.Decode(rec.GridText))
	if sess.IsExpired() {
		os.Remove(f.path(id))
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (f *FileStore) write(sess *Session) error {
	rec := record{Session: *sess, GridText: sess.Grid.Serialize(false)}
	rec.Grid = nil

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	if err := os.WriteFile(f.path(sess.ID), data, 0600); err != nil {
		return fmt.Errorf("write workspace file: %w", err)
	}
	return nil
}

func (f *FileStore) Create(ctx context.Context, sess *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(sess)
}

func (f *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(id)
}

func (f *FileStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess, err := f.read(id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.Touch(f.ttl)
	if err := f.write(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove workspace file: %w", err)
	}
	return nil
}

func (f *FileStore) List(ctx context.Context) ([]*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read workspace dir: %w", err)
	}

	var out []*Session
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		sess, err := f.read(id)
		if err != nil {
			continue
		}
		out = append(out, sess)
	}
	return out, nil
}

func (f *FileStore) Cleanup(ctx context.Context) error {
	// read already removes expired files as a side effect.
	_, err := f.List(ctx)
	return err
}

func (f *FileStore) Close() error { return nil }

// Path returns the base directory for workspace files.
func (f *FileStore) Path() string {
	return f.baseDir
}

var _ Store = (*FileStore)(nil)
