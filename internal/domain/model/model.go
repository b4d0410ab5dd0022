// Package model contains domain records passed between layers.
package model

import "time"

// Course is one catalog record. Records are treated as immutable for the
// duration of a scoring run; the store hands out copies, never shared state.
type Course struct {
	CourseID    string    // unique identifier
	Title       string    // display title
	Description string    // free-text description, searched but never scored
	Category    string    // single category, e.g. "Programming"
	Tags        []string  // tag set, e.g. ["python", "sql"]
	Popularity  float64   // precomputed demand signal, >= 0
	IsPublished bool      // unpublished courses are never recommended
	UpdatedAt   time.Time // last catalog write
}

// Enrollment links a student to a course. Duplicate (studentID, courseID)
// pairs are rejected at ingestion, not here.
type Enrollment struct {
	EnrollmentID string    // unique id for idempotency, generated when absent
	StudentID    string    // subject identifier
	CourseID     string    // referenced course; may dangle (broken reference)
	EnrolledAt   time.Time // enrollment timestamp
}

// Key returns the natural idempotency key for an enrollment. Two enrollments
// of the same student in the same course are the same enrollment.
func (e Enrollment) Key() string {
	return e.StudentID + "|" + e.CourseID
}
