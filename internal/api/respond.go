package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	stderrors "errors"

	"github.com/Textrux/textrux/pkg/errors"
	"github.com/Textrux/textrux/pkg/session"
)

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, session.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:  string(errors.ErrCodeGridNotFound),
			Error: "workspace not found",
		})
		return
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidCoordinate,
		errors.ErrCodeInvalidMargin, errors.ErrCodeInvalidFormat,
		errors.ErrCodeMalformedDataset:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGridNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeNotNestable, errors.ErrCodeNotNested:
		status = http.StatusConflict
	case errors.ErrCodeMarkerNotFound:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}

	writeJSON(w, status, errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:  string(errors.ErrCodeInvalidInput),
		Error: msg,
	})
}

// queryInt reads an optional integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", key, raw)
	}
	return v, nil
}
