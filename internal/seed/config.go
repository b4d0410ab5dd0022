package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL          string        // Base URL of the service
	NumStudents      int           // Number of students to enroll
	EnrollPerStudent int           // Maximum enrollments per student
	TopN             int           // Number of recommendations to fetch per sampled student
	Workers          int           // Number of concurrent workers
	Timeout          time.Duration // HTTP request timeout
	Verbose          bool          // Enable verbose logging
}

// CourseRequest is the wire shape for PUT /courses.
type CourseRequest struct {
	CourseID    string   `json:"course_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Popularity  float64  `json:"popularity"`
	IsPublished bool     `json:"is_published"`
}

// EnrollmentRequest is the wire shape for POST /enrollments.
type EnrollmentRequest struct {
	EnrollmentID string `json:"enrollment_id"`
	StudentID    string `json:"student_id"`
	CourseID     string `json:"course_id"`
	TS           string `json:"ts"`
}

// Recommendation mirrors one entry of GET /recommendations/{student_id}.
type Recommendation struct {
	Rank     int     `json:"rank"`
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
}

// AckResponse represents the response from enrollment submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seeding statistics.
type Stats struct {
	CoursesSeeded           int
	EnrollmentsGenerated    int
	EnrollmentsSubmitted    int
	EnrollmentsSuccessful   int
	EnrollmentsDuplicate    int
	EnrollmentsFailed       int
	RecommendationsFetched  int
	RecommendationsNonEmpty int
	StartTime               time.Time
	EndTime                 time.Time
	Duration                time.Duration
}
