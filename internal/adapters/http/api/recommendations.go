// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/eduhub/recd/internal/domain/recommend"
)

// RecommendationDependencies defines the interface for recommendation queries.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, studentID string, limit int, require bool) ([]Recommendation, error)
}

// RecommendationsHandler handles recommendation requests.
type RecommendationsHandler struct {
	deps     RecommendationDependencies
	maxLimit int
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationDependencies, maxLimit int) *RecommendationsHandler {
	return &RecommendationsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRecommendations handles GET /recommendations/{student_id}?limit=N&require=1 requests.
// Omitting limit falls back to the service default; require=1 turns an empty
// candidate pool into a 404 instead of an empty list.
func (h *RecommendationsHandler) HandleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /recommendations/
	studentID := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	if studentID == "" || strings.Contains(studentID, "/") {
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

	require := false
	switch r.URL.Query().Get("require") {
	case "", "0", "false":
	case "1", "true":
		require = true
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	recs, err := h.deps.Recommend(r.Context(), studentID, limit, require)
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyCatalog) {
			writeError(w, http.StatusNotFound, "empty_catalog", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
