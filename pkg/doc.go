// Package pkg provides the core libraries for Textrux structural grid analysis.
//
// # Overview
//
// Textrux reads sparse two-dimensional grids of text cells and discovers the
// structure their spatial arrangement implies: islands of filled cells become
// blocks, nearby blocks join into clusters, and specially marked cells open
// into whole nested grids. The pkg directory is organized into five main
// areas:
//
//  1. [grid] - The sparse grid itself (cells, points, serialization)
//  2. [structure] - Structural analysis (blocks, rings, joins, clusters)
//  3. [nest] - Nested-grid traversal (enter/leave protocol)
//  4. [pipeline] - Orchestration (hash → cache → analyze → annotate)
//  5. [render] - Visualization (Graphviz node-link diagrams, SVG/PNG/PDF)
//
// # Architecture
//
// The typical data flow through Textrux:
//
//	CSV/TSV/JSON input
//	         ↓
//	    [io] package (import into a sparse grid)
//	         ↓
//	    [structure] package (cluster cells → blocks → joins → clusters)
//	         ↓
//	    [pipeline] package (caching + annotations)
//	         ↓
//	    tables, DOT/SVG/PNG/PDF output
//
// # Quick Start
//
// Analyze a grid and render a node-link diagram:
//
//	import (
//	    "context"
//	    "github.com/Textrux/textrux/pkg/grid"
//	    "github.com/Textrux/textrux/pkg/pipeline"
//	    "github.com/Textrux/textrux/pkg/render/nodelink"
//	    "github.com/Textrux/textrux/pkg/structure"
//	)
//
//	// 1. Build a grid
//	g := grid.New(0, 0)
//	g.LoadRows(grid.Decode("a\tb\n\nc"))
//
//	// 2. Run the analysis
//	result := pipeline.Analyze(g, structure.DefaultOptions())
//
//	// 3. Render to DOT and SVG
//	dot := nodelink.ToDOT(result.Blocks, result.Joins, result.Clusters, nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(dot)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [grid] - Sparse grid of text cells addressed by 1-based row/column points.
// Handles tab/newline serialization, bounds tracking, and deep copies.
//
// [structure] - The analysis engine. Clusters filled cells into blocks with
// border and frame rings, detects sub-clusters inside each block's canvas,
// and derives linked/locked joins plus transitive block clusters.
//
// [nest] - The nested-grid protocol: a grid serialized into a single cell
// with depth-marked wrappers, entered and left without losing the parent.
//
// ## Infrastructure
//
// [cache] - Content-addressed result caching with memory, file, Redis, and
// null backends. Keys derive from the grid hash plus analysis options.
//
// [session] - Workspace management for the API server. Memory and file
// backends with sliding TTL expiry and serialized updates.
//
// [pipeline] - Complete analysis pipeline (hash → cache → cluster → relate →
// annotate) used by CLI and API. Ensures consistent behavior across all
// entry points.
//
// [observability] - Optional instrumentation hooks for analysis, cache, and
// nested-grid traversal events.
//
// [errors] - Structured error codes shared by the CLI and the HTTP API.
//
// ## Input and Output
//
// [io] - Grid import/export for CSV, TSV, and JSON cell lists, with
// extension-based dispatch.
//
// ## Visualization
//
// [render/nodelink] - Block relationship diagrams using Graphviz: blocks as
// boxes, joins as styled edges, clusters as dotted subgraphs.
//
// [render] - Top-level utilities for format conversion (SVG to PDF/PNG).
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/structure/...    # Specific package
//	go test -run Example           # Examples only
//
// [grid]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/grid
// [structure]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/structure
// [nest]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/nest
// [cache]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/cache
// [session]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/session
// [pipeline]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/observability
// [errors]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/errors
// [io]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/io
// [render]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/Textrux/textrux/pkg/render/nodelink
package pkg
