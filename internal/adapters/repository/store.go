// Package repository defines the catalog and enrollment store interface.
//
// This is the in-process stand-in for the document store the engine reads
// from: it holds the course catalog, the enrollment log, and the derived
// per-course popularity. The engine itself never touches the store; it only
// sees the snapshots handed out here.
package repository

import (
	"context"

	"github.com/eduhub/recd/internal/domain/model"
)

// Store provides read/write access to courses and enrollments.
type Store interface {
	// UpsertCourse inserts or replaces a catalog course, keeping the
	// original insertion position on replace.
	UpsertCourse(ctx context.Context, c model.Course) error

	// Course returns a single course. Returns ErrNotFound if unknown.
	Course(ctx context.Context, courseID string) (model.Course, error)

	// Courses returns a copy of the full catalog in insertion order, with
	// each course's popularity as of the call.
	Courses(ctx context.Context) []model.Course

	// AddEnrollment appends an enrollment and bumps the referenced
	// course's popularity. An enrollment whose course is unknown is still
	// recorded; the profile builder treats it as a broken reference.
	AddEnrollment(ctx context.Context, e model.Enrollment) error

	// Snapshot returns the catalog plus the given student's enrollments,
	// both copies the caller may read without coordination.
	Snapshot(ctx context.Context, studentID string) ([]model.Course, []model.Enrollment)

	// Search matches q case-insensitively against course title,
	// description, and tags of published courses, in insertion order.
	Search(ctx context.Context, q string, limit int) []model.Course

	// EnrollmentsByCategory returns per-category enrollment totals.
	EnrollmentsByCategory(ctx context.Context) map[string]int

	// CourseCount and StudentCount report store sizes for stats.
	CourseCount(ctx context.Context) int
	StudentCount(ctx context.Context) int
}
