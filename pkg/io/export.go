package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Textrux/textrux/pkg/grid"
)

// WriteCSV encodes the grid's filled region as comma-separated values.
// Fully empty rows come out as blank lines, which CSV readers skip, so
// row indices only survive a round trip when the used region has no gaps.
func WriteCSV(g *grid.Grid, w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range g.Rows(grid.Point{}) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTSV writes the grid's native tab-separated serialization.
func WriteTSV(g *grid.Grid, w io.Writer) error {
	if _, err := io.WriteString(w, g.Serialize(false)); err != nil {
		return fmt.Errorf("write TSV: %w", err)
	}
	return nil
}

// WriteJSON encodes the grid as a sparse cell list. Cells are emitted in
// row-major order, so output is deterministic and diff-friendly.
func WriteJSON(g *grid.Grid, w io.Writer) error {
	out := jsonGrid{Cells: make([]jsonCell, 0, g.Len())}
	for _, c := range g.Cells() {
		out.Cells = append(out.Cells, jsonCell{Row: c.Point.Row, Col: c.Point.Col, Text: c.Text})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes a grid to path, picking the format from the file
// extension the same way [ImportFile] does.
func ExportFile(g *grid.Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return WriteCSV(g, f)
	case ".json":
		return WriteJSON(g, f)
	default:
		return WriteTSV(g, f)
	}
}
