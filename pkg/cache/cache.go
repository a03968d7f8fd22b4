// Package cache memoizes analysis results keyed by grid content hash.
//
// Clustering the same cell set always yields the same blocks and clusters,
// so the API server caches serialized analysis results under a key derived
// from the grid's serialized text and the engine options. Three backends are
// provided:
//   - memory: process-local map, the server default
//   - file: directory of JSON entries for CLI usage
//   - redis: shared cache for multi-instance deployments
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
// A zero TTL means no expiration. Get reports a miss with hit == false and a
// nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(h[:]))
}

// AnalysisKey builds the cache key for an analysis result: the grid's
// content hash combined with the clustering options that shaped the result.
// Different margins or clipping produce different keys.
func AnalysisKey(gridHash string, margin, subMargin int, clip bool) string {
	return hashKey("analysis", gridHash, margin, subMargin, clip)
}
