package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Textrux/textrux/pkg/errors"
	"github.com/Textrux/textrux/pkg/grid"
	"github.com/Textrux/textrux/pkg/nest"
	"github.com/Textrux/textrux/pkg/observability"
	"github.com/Textrux/textrux/pkg/render/nodelink"
	"github.com/Textrux/textrux/pkg/session"
	"github.com/Textrux/textrux/pkg/structure"
)

// =============================================================================
// DTOs
// =============================================================================

type cellDTO struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

type createGridRequest struct {
	// Text is the grid's native tab-separated serialization. Mutually
	// exclusive with Cells; Text wins when both are present.
	Text    string             `json:"text,omitempty"`
	Cells   []cellDTO          `json:"cells,omitempty"`
	Options *structure.Options `json:"options,omitempty"`
}

type setCellsRequest struct {
	Cells []cellDTO `json:"cells"`
}

type enterRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type gridResponse struct {
	ID        string            `json:"id"`
	Cells     []cellDTO         `json:"cells"`
	Focus     grid.Point        `json:"focus"`
	Depth     int               `json:"depth"`
	Options   structure.Options `json:"options"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type gridSummary struct {
	ID        string    `json:"id"`
	CellCount int       `json:"cell_count"`
	Depth     int       `json:"depth"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toGridResponse(sess *session.Session) gridResponse {
	cells := sess.Grid.Cells()
	out := gridResponse{
		ID:        sess.ID,
		Cells:     make([]cellDTO, 0, len(cells)),
		Focus:     sess.Focus,
		Depth:     nest.Depth(sess.Grid),
		Options:   sess.Options,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
	for _, c := range cells {
		out.Cells = append(out.Cells, cellDTO{Row: c.Point.Row, Col: c.Point.Col, Text: c.Text})
	}
	return out
}

// =============================================================================
// Workspace lifecycle
// =============================================================================

func (s *Server) handleCreateGrid(w http.ResponseWriter, r *http.Request) {
	var req createGridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	g := grid.New(0, 0)
	switch {
	case req.Text != "":
		g.LoadRows(grid.Decode(req.Text))
	case len(req.Cells) > 0:
		for _, c := range req.Cells {
			if err := errors.ValidateCoordinate(c.Row, c.Col); err != nil {
				writeError(w, err)
				return
			}
			g.Set(grid.Point{Row: c.Row, Col: c.Col}, c.Text)
		}
	}

	opts := structure.DefaultOptions()
	if req.Options != nil {
		opts = req.Options.Normalized()
	}

	sess := session.New(g, opts, session.DefaultTTL)
	if err := s.store.Create(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("workspace created", "id", sess.ID, "cells", g.Len())
	writeJSON(w, http.StatusCreated, toGridResponse(sess))
}

func (s *Server) handleListGrids(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]gridSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, gridSummary{
			ID:        sess.ID,
			CellCount: sess.Grid.Len(),
			Depth:     nest.Depth(sess.Grid),
			UpdatedAt: sess.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGridResponse(sess))
}

func (s *Server) handleDeleteGrid(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Cell edits
// =============================================================================

func (s *Server) handleSetCells(w http.ResponseWriter, r *http.Request) {
	var req setCellsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Cells) == 0 {
		writeBadRequest(w, "cells must not be empty")
		return
	}

	sess, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		for _, c := range req.Cells {
			if err := errors.ValidateCoordinate(c.Row, c.Col); err != nil {
				return err
			}
			sess.Grid.Set(grid.Point{Row: c.Row, Col: c.Col}, c.Text)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGridResponse(sess))
}

// =============================================================================
// Analysis and rendering
// =============================================================================

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts, err := analysisOptions(r, sess.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.runner.Analyze(r.Context(), sess.Grid, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts, err := analysisOptions(r, sess.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.runner.Analyze(r.Context(), sess.Grid, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	detailed := r.URL.Query().Get("detailed") == "true"
	dot := nodelink.ToDOT(result.Blocks, result.Joins, result.Clusters, nodelink.Options{Detailed: detailed})

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := nodelink.RenderSVG(dot)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render SVG"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeBadRequest(w, "format must be dot or svg")
	}
}

// analysisOptions applies optional query overrides on top of the
// workspace's stored options.
func analysisOptions(r *http.Request, base structure.Options) (structure.Options, error) {
	margin, err := queryInt(r, "margin", base.Margin)
	if err != nil {
		return structure.Options{}, err
	}
	if err := errors.ValidateMargin(margin); err != nil {
		return structure.Options{}, err
	}
	subMargin, err := queryInt(r, "sub_margin", base.SubMargin)
	if err != nil {
		return structure.Options{}, err
	}
	if err := errors.ValidateMargin(subMargin); err != nil {
		return structure.Options{}, err
	}

	out := base
	out.Margin = margin
	out.SubMargin = subMargin
	if clip := r.URL.Query().Get("clip"); clip != "" {
		out.ClipToBounds = clip == "true"
	}
	return out, nil
}

// =============================================================================
// Nesting protocol
// =============================================================================

func (s *Server) handleEnter(w http.ResponseWriter, r *http.Request) {
	var req enterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var fromDepth, toDepth int
	sess, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		fromDepth = nest.Depth(sess.Grid)
		focus, err := nest.Enter(sess.Grid, grid.Point{Row: req.Row, Col: req.Col})
		if err != nil {
			return err
		}
		sess.Focus = focus
		toDepth = nest.Depth(sess.Grid)
		return nil
	})
	observability.Traversal().OnEnter(r.Context(), fromDepth, toDepth, err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Debug("entered nested grid", "id", sess.ID, "depth", toDepth)
	writeJSON(w, http.StatusOK, toGridResponse(sess))
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var fromDepth, toDepth int
	sess, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		fromDepth = nest.Depth(sess.Grid)
		focus, err := nest.Leave(sess.Grid)
		if err != nil {
			return err
		}
		sess.Focus = focus
		toDepth = nest.Depth(sess.Grid)
		return nil
	})
	observability.Traversal().OnLeave(r.Context(), fromDepth, toDepth, err)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Debug("left nested grid", "id", sess.ID, "depth", toDepth)
	writeJSON(w, http.StatusOK, toGridResponse(sess))
}
