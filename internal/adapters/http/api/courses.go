// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eduhub/recd/internal/adapters/repository"
	"github.com/eduhub/recd/internal/domain/model"
)

// CourseDependencies defines the interface for catalog operations.
type CourseDependencies interface {
	UpsertCourse(ctx context.Context, c model.Course) error
	GetCourse(ctx context.Context, courseID string) (CourseInfo, error)
}

// CoursesHandler handles catalog requests.
type CoursesHandler struct {
	deps CourseDependencies
}

// NewCoursesHandler creates a new courses handler.
func NewCoursesHandler(deps CourseDependencies) *CoursesHandler {
	return &CoursesHandler{deps: deps}
}

// HandlePutCourse handles PUT /courses requests.
func (h *CoursesHandler) HandlePutCourse(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_course"
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	c := model.Course{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Popularity:  req.Popularity,
		IsPublished: req.IsPublished,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := h.deps.UpsertCourse(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "stored", Duplicate: false})
}

// HandleGetCourse handles GET /courses/{course_id} requests.
func (h *CoursesHandler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_course"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /courses/
	courseID := strings.TrimPrefix(r.URL.Path, "/courses/")
	if courseID == "" || strings.Contains(courseID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	info, err := h.deps.GetCourse(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
