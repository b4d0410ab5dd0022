// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// SearchDependencies defines the interface for catalog text search.
type SearchDependencies interface {
	SearchCourses(ctx context.Context, query string, limit int) ([]CourseInfo, error)
}

// SearchHandler handles course search requests.
type SearchHandler struct {
	deps     SearchDependencies
	maxLimit int
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies, maxLimit int) *SearchHandler {
	return &SearchHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleSearch handles GET /search?q=term&limit=N requests.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.search"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	hits, err := h.deps.SearchCourses(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hits)
}
