// Package types contains common types used across the application
package types

import "time"

// Recommendation is one ranked entry returned to clients.
type Recommendation struct {
	Rank     int      `json:"rank"`
	CourseID string   `json:"course_id"`
	Score    float64  `json:"score"`
	Signals  []Signal `json:"signals,omitempty"`
}

// Signal is one weighted term of a recommendation score, kept so clients and
// tests can see how a score was assembled.
type Signal struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Raw    float64 `json:"raw"`
	Value  float64 `json:"value"`
}

// CourseInfo is the read shape of a catalog record returned by course
// lookups and text search.
type CourseInfo struct {
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Popularity  float64   `json:"popularity"`
	IsPublished bool      `json:"is_published"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StudentProfile is the read shape of a student's interest profile.
type StudentProfile struct {
	StudentID       string         `json:"student_id"`
	EnrolledCourses []string       `json:"enrolled_courses"`
	TagCounts       map[string]int `json:"tag_counts"`
	CategoryCounts  map[string]int `json:"category_counts"`
	BrokenRefs      int            `json:"broken_refs,omitempty"`
}
