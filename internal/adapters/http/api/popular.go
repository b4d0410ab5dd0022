// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// PopularDependencies defines the interface for cold-start queries.
type PopularDependencies interface {
	TopPopular(ctx context.Context, n int) ([]Recommendation, error)
}

// PopularHandler handles globally-popular course requests.
type PopularHandler struct {
	deps     PopularDependencies
	maxLimit int
}

// NewPopularHandler creates a new popular handler.
func NewPopularHandler(deps PopularDependencies, maxLimit int) *PopularHandler {
	return &PopularHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetPopular handles GET /popular?limit=N requests.
func (h *PopularHandler) HandleGetPopular(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_popular"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
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
	recs, err := h.deps.TopPopular(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
