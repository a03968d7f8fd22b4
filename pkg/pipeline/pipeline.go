// Package pipeline runs the full structural analysis of a grid: clustering
// filled cells into blocks, building the relationship graph, and deriving
// per-cell annotations. Both the CLI and the API server use a Runner so the
// caching and logging behavior stays identical across entry points.
//
// Analysis is pure with respect to the grid: the grid is only read, never
// mutated. Running the pipeline twice on unchanged data yields identical
// results, which is what makes content-hash caching sound.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Textrux/textrux/pkg/cache"
	"github.com/Textrux/textrux/pkg/grid"
	"github.com/Textrux/textrux/pkg/observability"
	"github.com/Textrux/textrux/pkg/structure"
)

// Result holds one complete analysis of a grid.
type Result struct {
	Blocks      []*structure.Block        `json:"blocks"`
	Joins       []*structure.BlockJoin    `json:"joins"`
	Clusters    []*structure.BlockCluster `json:"clusters"`
	Annotations *structure.Annotations    `json:"-"`

	CellCount int           `json:"cell_count"`
	GridHash  string        `json:"grid_hash"`
	Elapsed   time.Duration `json:"elapsed"`
	CacheHit  bool          `json:"cache_hit"`
}

// Runner executes analyses with optional result caching.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// results. A single Runner can be shared; the underlying engine is
// synchronous and callers serialize access to any one grid themselves.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching (NullCache); a
// nil logger falls back to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Analyze runs the clustering and relationship stages over the grid.
//
// The cache stores the JSON-serialized result under a key derived from the
// grid's serialized content and the options; annotations are cheap and are
// recomputed even on a cache hit since they don't survive serialization.
func (r *Runner) Analyze(ctx context.Context, g *grid.Grid, opts structure.Options) (*Result, error) {
	start := time.Now()
	opts = opts.Normalized()
	observability.Analysis().OnAnalyzeStart(ctx, g.Len())
	hash := cache.Hash([]byte(g.Serialize(false)))
	key := cache.AnalysisKey(hash, opts.Margin, opts.SubMargin, opts.ClipToBounds)

	if data, hit, err := r.Cache.Get(ctx, key); err != nil {
		r.Logger.Warn("analysis cache read failed", "err", err)
	} else if hit {
		var result Result
		if err := json.Unmarshal(data, &result); err == nil && result.rehydrate() {
			result.CacheHit = true
			result.Elapsed = time.Since(start)
			result.Annotations = structure.Annotate(g, result.Blocks)
			observability.Cache().OnCacheHit(ctx, "analysis")
			observability.Analysis().OnAnalyzeComplete(ctx,
				len(result.Blocks), len(result.Joins), len(result.Clusters), result.Elapsed, nil)
			r.Logger.Debug("analysis cache hit", "hash", hash[:12])
			return &result, nil
		}
		// Corrupt entry: fall through and recompute.
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "analysis")

	result := Analyze(g, opts)
	result.GridHash = hash
	result.Elapsed = time.Since(start)

	if data, err := json.Marshal(result); err == nil {
		if err := r.Cache.Set(ctx, key, data, 0); err != nil {
			r.Logger.Warn("analysis cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "analysis", len(data))
		}
	}

	observability.Analysis().OnAnalyzeComplete(ctx,
		len(result.Blocks), len(result.Joins), len(result.Clusters), result.Elapsed, nil)

	r.Logger.Info("analyzed grid",
		"cells", result.CellCount,
		"blocks", len(result.Blocks),
		"joins", len(result.Joins),
		"clusters", len(result.Clusters),
		"duration", result.Elapsed)
	return result, nil
}

// rehydrate restores the block pointers that joins and clusters drop during
// serialization, using the index references. Returns false when an index is
// out of range, which marks the cached entry as corrupt.
func (r *Result) rehydrate() bool {
	n := len(r.Blocks)
	for _, j := range r.Joins {
		if j.AIndex < 0 || j.AIndex >= n || j.BIndex < 0 || j.BIndex >= n {
			return false
		}
		j.A, j.B = r.Blocks[j.AIndex], r.Blocks[j.BIndex]
	}
	for _, c := range r.Clusters {
		for _, bi := range c.BlockIndexes {
			if bi < 0 || bi >= n {
				return false
			}
			c.Blocks = append(c.Blocks, r.Blocks[bi])
		}
		for _, ji := range c.JoinIndexes {
			if ji < 0 || ji >= len(r.Joins) {
				return false
			}
			c.Joins = append(c.Joins, r.Joins[ji])
		}
	}
	return true
}

// Analyze is the uncached single-shot analysis used by the Runner and by
// callers that have no cache to consult.
func Analyze(g *grid.Grid, opts structure.Options) *Result {
	blocks := structure.ComputeBlocks(g, opts)
	joins, clusters := structure.ComputeRelationships(blocks)
	return &Result{
		Blocks:      blocks,
		Joins:       joins,
		Clusters:    clusters,
		Annotations: structure.Annotate(g, blocks),
		CellCount:   g.Len(),
	}
}
