package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Textrux/textrux/pkg/cache"
	"github.com/Textrux/textrux/pkg/pipeline"
	"github.com/Textrux/textrux/pkg/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := NewServer(
		session.NewMemoryStore(session.DefaultTTL),
		pipeline.NewRunner(cache.NewMemoryCache(), logger),
		logger,
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func createGrid(t *testing.T, ts *httptest.Server, body any) gridResponse {
	t.Helper()
	resp, data := doJSON(t, http.MethodPost, ts.URL+"/api/grids", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create grid: status %d: %s", resp.StatusCode, data)
	}
	var out gridResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("parse create response: %v", err)
	}
	return out
}

func TestCreateAndGetGrid(t *testing.T) {
	ts := newTestServer(t)

	created := createGrid(t, ts, createGridRequest{Text: "a\tb\nc"})
	if created.ID == "" {
		t.Fatal("response should include a workspace ID")
	}
	if len(created.Cells) != 3 {
		t.Errorf("got %d cells, want 3", len(created.Cells))
	}
	if created.Depth != 0 {
		t.Errorf("Depth = %d, want 0", created.Depth)
	}

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get grid: status %d: %s", resp.StatusCode, data)
	}
	var got gridResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Cells) != 3 {
		t.Errorf("got %d cells, want 3", len(got.Cells))
	}
}

func TestCreateGridFromCells(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{Cells: []cellDTO{
		{Row: 2, Col: 3, Text: "x"},
	}})
	if len(created.Cells) != 1 || created.Cells[0].Text != "x" {
		t.Errorf("Cells = %+v, want one cell %q", created.Cells, "x")
	}
}

func TestCreateGridInvalidCoordinate(t *testing.T) {
	ts := newTestServer(t)
	resp, data := doJSON(t, http.MethodPost, ts.URL+"/api/grids", createGridRequest{
		Cells: []cellDTO{{Row: 0, Col: 1, Text: "x"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", resp.StatusCode, data)
	}
	var e errorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatal(err)
	}
	if e.Code != "INVALID_COORDINATE" {
		t.Errorf("Code = %q, want INVALID_COORDINATE", e.Code)
	}
}

func TestGetGridNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/grids/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestSetCells(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{})

	resp, data := doJSON(t, http.MethodPost, ts.URL+"/api/grids/"+created.ID+"/cells", setCellsRequest{
		Cells: []cellDTO{{Row: 5, Col: 5, Text: "v"}, {Row: 1, Col: 1, Text: "w"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var got gridResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Cells) != 2 {
		t.Errorf("got %d cells, want 2", len(got.Cells))
	}

	// Clearing a cell removes it.
	resp, data = doJSON(t, http.MethodPost, ts.URL+"/api/grids/"+created.ID+"/cells", setCellsRequest{
		Cells: []cellDTO{{Row: 5, Col: 5, Text: ""}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Cells) != 1 {
		t.Errorf("got %d cells after clear, want 1", len(got.Cells))
	}
}

func TestAnalysis(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{Cells: []cellDTO{
		{Row: 2, Col: 2, Text: "a"},
		{Row: 3, Col: 3, Text: "b"},
		{Row: 20, Col: 20, Text: "far"},
	}})

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID+"/analysis", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Blocks) != 2 {
		t.Errorf("got %d blocks, want 2", len(result.Blocks))
	}
	if result.CellCount != 3 {
		t.Errorf("CellCount = %d, want 3", result.CellCount)
	}
}

func TestAnalysisMarginOverride(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{Cells: []cellDTO{
		{Row: 5, Col: 5, Text: "a"},
		{Row: 5, Col: 10, Text: "b"},
	}})

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID+"/analysis?margin=5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var result pipeline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Blocks) != 1 {
		t.Errorf("margin 5 should merge the cells into one block, got %d", len(result.Blocks))
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID+"/analysis?margin=banana", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad margin: status %d, want 400", resp.StatusCode)
	}
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{Cells: []cellDTO{
		{Row: 3, Col: 3, Text: "x"},
	}})

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID+"/render", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Contains(data, []byte("graph G {")) {
		t.Error("body should be DOT source")
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID+"/render?format=bmp", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown format: status %d, want 400", resp.StatusCode)
	}
}

func TestEnterAndLeave(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{Cells: []cellDTO{
		{Row: 2, Col: 2, Text: "parent"},
	}})
	url := ts.URL + "/api/grids/" + created.ID

	// Enter an empty cell: seeds a minimal nested grid at depth 1.
	resp, data := doJSON(t, http.MethodPost, url+"/enter", enterRequest{Row: 5, Col: 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("enter: status %d: %s", resp.StatusCode, data)
	}
	var state gridResponse
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Depth != 1 {
		t.Errorf("Depth after enter = %d, want 1", state.Depth)
	}

	// Edit inside the nested grid, then leave.
	resp, data = doJSON(t, http.MethodPost, url+"/cells", setCellsRequest{
		Cells: []cellDTO{{Row: 4, Col: 4, Text: "inner"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set cells: status %d: %s", resp.StatusCode, data)
	}

	resp, data = doJSON(t, http.MethodPost, url+"/leave", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leave: status %d: %s", resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if state.Depth != 0 {
		t.Errorf("Depth after leave = %d, want 0", state.Depth)
	}
	found := false
	for _, c := range state.Cells {
		if c.Row == 2 && c.Col == 2 && c.Text == "parent" {
			found = true
		}
	}
	if !found {
		t.Error("parent cell should be restored after leave")
	}
}

func TestEnterNotNestableConflict(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{Cells: []cellDTO{
		{Row: 2, Col: 2, Text: "plain"},
	}})

	resp, data := doJSON(t, http.MethodPost, ts.URL+"/api/grids/"+created.ID+"/enter", enterRequest{Row: 2, Col: 2})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status %d, want 409: %s", resp.StatusCode, data)
	}

	// The failed enter must not have touched the grid.
	resp, data = doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatal("get after failed enter")
	}
	var state gridResponse
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatal(err)
	}
	if len(state.Cells) != 1 || state.Cells[0].Text != "plain" {
		t.Errorf("grid changed after failed enter: %+v", state.Cells)
	}
}

func TestLeaveAtTopLevelConflict(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/grids/"+created.ID+"/leave", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status %d, want 409", resp.StatusCode)
	}
}

func TestDeleteGrid(t *testing.T) {
	ts := newTestServer(t)
	created := createGrid(t, ts, createGridRequest{})

	resp, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/grids/"+created.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d, want 204", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/grids/"+created.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", resp.StatusCode)
	}
}

func TestListGrids(t *testing.T) {
	ts := newTestServer(t)
	createGrid(t, ts, createGridRequest{Text: "a"})
	createGrid(t, ts, createGridRequest{Text: "b"})

	resp, data := doJSON(t, http.MethodGet, ts.URL+"/api/grids", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, data)
	}
	var out []gridSummary
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Errorf("got %d workspaces, want 2", len(out))
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d, want 200", resp.StatusCode)
	}
}
