package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/eduhub/recd/internal/domain/model"
	"github.com/eduhub/recd/pkg/metrics"
)

// MemStore is an in-memory Store guarded by a single RWMutex.
//
// Popularity served for a course is its seeded catalog value plus the number
// of enrollments ingested since. The value is snapshot-time only: a
// recommendation run sees popularity as of its Snapshot call and is never
// updated mid-run.
type MemStore struct {
	mu          sync.RWMutex
	courses     map[string]model.Course
	order       []string                      // catalog insertion order
	enrollments map[string][]model.Enrollment // studentID -> enrollments
	enrollCount map[string]int                // courseID -> ingested enrollments
}

// NewMemStore creates an empty in-memory store. Context is accepted first to
// match the project-wide convention; it is reserved for future use.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		courses:     make(map[string]model.Course),
		enrollments: make(map[string][]model.Enrollment),
		enrollCount: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertCourse inserts or replaces a course. Replacing keeps the insertion
// position and the enrollment-derived popularity accumulated so far.
func (s *MemStore) UpsertCourse(ctx context.Context, c model.Course) error {
	if strings.TrimSpace(c.CourseID) == "" {
		return fmt.Errorf("upsert course: %w", ErrMissingCourse)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.courses[c.CourseID]; !exists {
		s.order = append(s.order, c.CourseID)
	}
	s.courses[c.CourseID] = c
	metrics.UpdateCatalogSize(len(s.courses))
	return nil
}

// Course returns a copy of one course with its current popularity.
func (s *MemStore) Course(ctx context.Context, courseID string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[courseID]
	if !ok {
		return model.Course{}, fmt.Errorf("course %q: %w", courseID, ErrNotFound)
	}
	return s.withPopularity(c), nil
}

// Courses returns the catalog in insertion order.
func (s *MemStore) Courses(ctx context.Context) []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coursesLocked()
}

// AddEnrollment records an enrollment and bumps the course's popularity.
// A dangling course reference is recorded anyway; it surfaces later as a
// broken reference during profile building.
func (s *MemStore) AddEnrollment(ctx context.Context, e model.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enrollments[e.StudentID] = append(s.enrollments[e.StudentID], e)
	s.enrollCount[e.CourseID]++
	metrics.UpdateStudentCount(len(s.enrollments))
	return nil
}

// Snapshot returns copies of the catalog and the student's enrollments.
func (s *MemStore) Snapshot(ctx context.Context, studentID string) ([]model.Course, []model.Enrollment) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := s.coursesLocked()
	own := s.enrollments[studentID]
	enrollments := make([]model.Enrollment, len(own))
	copy(enrollments, own)
	return courses, enrollments
}

// Search matches q against title, description, and tags of published
// courses, case-insensitively, preserving catalog order.
func (s *MemStore) Search(ctx context.Context, q string, limit int) []model.Course {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Course
	for _, id := range s.order {
		c := s.courses[id]
		if !c.IsPublished {
			continue
		}
		if matchesQuery(c, q) {
			out = append(out, s.withPopularity(c))
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// EnrollmentsByCategory aggregates ingested enrollments per course category.
// Enrollments with dangling course references are reported under "unknown".
func (s *MemStore) EnrollmentsByCategory(ctx context.Context) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int)
	for courseID, n := range s.enrollCount {
		category := "unknown"
		if c, ok := s.courses[courseID]; ok && c.Category != "" {
			category = strings.ToLower(c.Category)
		}
		totals[category] += n
	}
	return totals
}

// CourseCount returns the number of catalog courses.
func (s *MemStore) CourseCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.courses)
}

// StudentCount returns the number of students with at least one enrollment.
func (s *MemStore) StudentCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.enrollments)
}

// coursesLocked copies the ordered catalog. Caller holds at least RLock.
func (s *MemStore) coursesLocked() []model.Course {
	out := make([]model.Course, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.withPopularity(s.courses[id]))
	}
	return out
}

// withPopularity copies a course, folding ingested enrollments into its
// popularity. Tags are copied so callers never alias store state.
func (s *MemStore) withPopularity(c model.Course) model.Course {
	out := c
	out.Popularity = c.Popularity + float64(s.enrollCount[c.CourseID])
	out.Tags = append([]string(nil), c.Tags...)
	return out
}

func matchesQuery(c model.Course, q string) bool {
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
