// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eduhub/recd/internal/domain/dedupe"
	"github.com/eduhub/recd/internal/domain/model"
)

// EnrollmentDependencies defines the interface for enrollment ingestion dependencies.
type EnrollmentDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.Enrollment) bool
}

// EnrollmentsHandler handles enrollment requests.
type EnrollmentsHandler struct {
	deps EnrollmentDependencies
}

// NewEnrollmentsHandler creates a new enrollments handler.
func NewEnrollmentsHandler(deps EnrollmentDependencies) *EnrollmentsHandler {
	return &EnrollmentsHandler{deps: deps}
}

// HandlePostEnrollment handles POST /enrollments requests.
func (h *EnrollmentsHandler) HandlePostEnrollment(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_enrollment"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req enrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	e := model.Enrollment{
		EnrollmentID: req.EnrollmentID,
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
	}
	if req.TS != "" {
		// Already validated as RFC3339.
		e.EnrolledAt, _ = time.Parse(time.RFC3339, req.TS)
	}

	// Idempotency check - mark as seen first. The natural key makes a repeat
	// enrollment of the same student in the same course a duplicate even when
	// the client retries with a fresh enrollment id.
	if h.deps.SeenAndRecord(r.Context(), e.Key()) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), e); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), e.Key())
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
