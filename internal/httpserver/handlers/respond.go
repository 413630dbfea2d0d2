package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/remote"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the tagged remote failures onto HTTP statuses.
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, remote.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, remote.ErrDuplicateTitle), errors.Is(err, remote.ErrDuplicateURL):
		status = http.StatusConflict
	case errors.Is(err, remote.ErrPasswordMismatch):
		status = http.StatusForbidden
	case errors.Is(err, remote.ErrNoPassword):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyTitle), errors.Is(err, domain.ErrEmptyURL):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		d.Logger.Error("request failed", logger.Error(err))
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// ownerID resolves the acting owner from the X-Owner-ID header or the
// owner query parameter. Authentication proper sits in front of this
// service; the id is trusted as given.
func ownerID(r *http.Request) string {
	if v := r.Header.Get("X-Owner-ID"); v != "" {
		return v
	}
	return r.URL.Query().Get("owner")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return false
	}
	return true
}
