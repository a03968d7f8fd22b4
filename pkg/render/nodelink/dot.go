// Package nodelink renders block relationship graphs as node-link diagrams.
//
// Each block becomes a box labeled with its canvas rectangle; each join
// becomes an edge between the two blocks it relates. Locked joins (ring
// collisions involving a border) draw as solid bold edges, linked joins
// (frame-only contact) as dashed edges. Blocks that belong to the same
// cluster are grouped into a Graphviz cluster subgraph.
//
// The DOT source from [ToDOT] can be rendered in-process with [RenderSVG]
// or saved and processed with external Graphviz tools. PDF and PNG output
// goes through [render.ToPDF] and [render.ToPNG] (requires librsvg).
//
// [render.ToPDF]: github.com/Textrux/textrux/pkg/render.ToPDF
// [render.ToPNG]: github.com/Textrux/textrux/pkg/render.ToPNG
package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Textrux/textrux/pkg/structure"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes cell counts and sub-cluster counts in node labels.
	// When false, only the canvas rectangle is shown.
	Detailed bool
}

// ToDOT converts blocks, joins, and clusters to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(blocks []*structure.Block, joins []*structure.BlockJoin, clusters []*structure.BlockCluster, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := make(map[*structure.Block]string, len(blocks))
	for i, b := range blocks {
		ids[b] = fmt.Sprintf("b%d", i+1)
	}

	clustered := make(map[*structure.Block]bool, len(blocks))
	for i, cl := range clusters {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		buf.WriteString("    style=dotted;\n")
		fmt.Fprintf(&buf, "    label=%q;\n", fmtRect(cl.Rect))
		for _, b := range cl.Blocks {
			clustered[b] = true
			fmt.Fprintf(&buf, "    %s [label=%q];\n", ids[b], fmtLabel(b, opts.Detailed))
		}
		buf.WriteString("  }\n")
	}

	for _, b := range blocks {
		if clustered[b] {
			continue
		}
		fmt.Fprintf(&buf, "  %s [label=%q];\n", ids[b], fmtLabel(b, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, j := range joins {
		fmt.Fprintf(&buf, "  %s -- %s [%s];\n", ids[j.A], ids[j.B], strings.Join(edgeAttrs(j), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtRect(r structure.Rect) string {
	return fmt.Sprintf("R%d:C%d-R%d:C%d", r.Top, r.Left, r.Bottom, r.Right)
}

func fmtLabel(b *structure.Block, detailed bool) string {
	label := fmtRect(b.Rect)
	if !detailed {
		return label
	}
	parts := []string{fmt.Sprintf("cells: %d", b.CellCount())}
	if n := len(b.SubClusters); n > 1 {
		parts = append(parts, fmt.Sprintf("sub-clusters: %d", n))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func edgeAttrs(j *structure.BlockJoin) []string {
	if j.Type == structure.JoinLocked {
		return []string{"style=bold", fmt.Sprintf("label=%q", fmt.Sprintf("locked (%d)", len(j.LockedPoints)))}
	}
	return []string{"style=dashed", fmt.Sprintf("label=%q", fmt.Sprintf("linked (%d)", len(j.LinkedPoints)))}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
