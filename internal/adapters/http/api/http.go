// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/eduhub/recd/internal/domain/dedupe"
	"github.com/eduhub/recd/internal/domain/model"
	"github.com/eduhub/recd/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes an enrollment for async processing. Returns false on backpressure.
	Enqueue(ctx context.Context, e model.Enrollment) bool

	// Read operations expose recommendation data.
	Recommend(ctx context.Context, studentID string, limit int, require bool) ([]Recommendation, error)
	Profile(ctx context.Context, studentID string) (StudentProfile, error)
	TopPopular(ctx context.Context, n int) ([]Recommendation, error)
	SearchCourses(ctx context.Context, query string, limit int) ([]CourseInfo, error)

	// Catalog writes and lookups.
	UpsertCourse(ctx context.Context, c model.Course) error
	GetCourse(ctx context.Context, courseID string) (CourseInfo, error)
}

// Read shapes returned by the service layer.
type (
	Recommendation = types.Recommendation
	StudentProfile = types.StudentProfile
	CourseInfo     = types.CourseInfo
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	enrollmentsHandler     *EnrollmentsHandler
	coursesHandler         *CoursesHandler
	recommendationsHandler *RecommendationsHandler
	profileHandler         *ProfileHandler
	popularHandler         *PopularHandler
	searchHandler          *SearchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:          NewHealthHandler(),
		statsHandler:           NewStatsHandler(statsProvider),
		enrollmentsHandler:     NewEnrollmentsHandler(deps),
		coursesHandler:         NewCoursesHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps, maxLimit),
		profileHandler:         NewProfileHandler(deps),
		popularHandler:         NewPopularHandler(deps, maxLimit),
		searchHandler:          NewSearchHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/enrollments", MetricsMiddleware(s.enrollmentsHandler.HandlePostEnrollment, "enrollments"))
	mux.HandleFunc("/courses", MetricsMiddleware(s.coursesHandler.HandlePutCourse, "courses"))
	mux.HandleFunc("/courses/", MetricsMiddleware(s.coursesHandler.HandleGetCourse, "courses"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.recommendationsHandler.HandleGetRecommendations, "recommendations"))
	mux.HandleFunc("/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/popular", MetricsMiddleware(s.popularHandler.HandleGetPopular, "popular"))
	mux.HandleFunc("/search", MetricsMiddleware(s.searchHandler.HandleSearch, "search"))
}

// validate is shared by the request shapes below.
var validate = validator.New() //nolint:gochecknoglobals // validator instances are safe for concurrent use

// enrollmentRequest is the wire shape for POST /enrollments.
type enrollmentRequest struct {
	EnrollmentID string `json:"enrollment_id" validate:"omitempty,max=128"`
	StudentID    string `json:"student_id" validate:"required,max=128"`
	CourseID     string `json:"course_id" validate:"required,max=128"`
	TS           string `json:"ts" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (e enrollmentRequest) validate() error {
	return validate.Struct(e)
}

// courseRequest is the wire shape for PUT /courses.
type courseRequest struct {
	CourseID    string   `json:"course_id" validate:"required,max=128"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags" validate:"dive,required"`
	Popularity  float64  `json:"popularity" validate:"gte=0"`
	IsPublished bool     `json:"is_published"`
}

func (c courseRequest) validate() error {
	return validate.Struct(c)
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
