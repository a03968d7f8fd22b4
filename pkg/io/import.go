package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Textrux/textrux/pkg/errors"
	"github.com/Textrux/textrux/pkg/grid"
)

// jsonGrid is the sparse cell-list JSON shape.
type jsonGrid struct {
	Cells []jsonCell `json:"cells"`
}

type jsonCell struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

// ReadCSV decodes comma-separated values from r into a grid. Rows may be
// ragged; missing trailing fields are simply absent cells.
func ReadCSV(r io.Reader) (*grid.Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse CSV")
	}
	g := grid.New(0, 0)
	g.LoadRows(rows)
	return g, nil
}

// ReadTSV decodes the grid's native tab-separated serialization from r.
func ReadTSV(r io.Reader) (*grid.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	g := grid.New(0, 0)
	g.LoadRows(grid.Decode(string(data)))
	return g, nil
}

// ReadJSON decodes the sparse cell-list JSON format from r.
//
// Every cell must carry valid one-based coordinates. Duplicate coordinates
// are last-writer-wins, matching repeated Set calls.
func ReadJSON(r io.Reader) (*grid.Grid, error) {
	var data jsonGrid
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse JSON")
	}

	g := grid.New(0, 0)
	for _, c := range data.Cells {
		if err := errors.ValidateCoordinate(c.Row, c.Col); err != nil {
			return nil, err
		}
		g.Set(grid.Point{Row: c.Row, Col: c.Col}, c.Text)
	}
	return g, nil
}

// ImportFile reads a grid from path, picking the format from the file
// extension: .csv for CSV, .json for JSON, anything else for TSV.
func ImportFile(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".json":
		return ReadJSON(f)
	default:
		return ReadTSV(f)
	}
}
