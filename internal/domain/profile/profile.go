// Package profile derives per-student interest profiles from enrollment history.
package profile

import (
	"strings"

	"github.com/eduhub/recd/internal/domain/model"
)

// Profile aggregates one student's enrollment history. It is built fresh for
// each scoring run and never persisted.
type Profile struct {
	StudentID      string
	Enrolled       map[string]struct{} // enrolled course ids
	TagCounts      map[string]int      // lower-cased tag -> occurrence count
	CategoryCounts map[string]int      // lower-cased category -> occurrence count
	BrokenRefs     int                 // enrollments skipped because their course is missing
}

// Empty reports whether the student has no usable history. An empty profile
// is a valid state; scoring falls back to global popularity.
func (p Profile) Empty() bool {
	return len(p.Enrolled) == 0
}

// TagCount returns the frequency recorded for a tag, matching the
// normalization applied during Build.
func (p Profile) TagCount(tag string) int {
	return p.TagCounts[strings.ToLower(tag)]
}

// CategoryCount returns the frequency recorded for a category.
func (p Profile) CategoryCount(category string) int {
	return p.CategoryCounts[strings.ToLower(category)]
}

// Build collects the enrollments matching studentID and accumulates tag and
// category frequencies from the referenced courses, one increment per
// occurrence per enrolled course. An enrollment whose course cannot be found
// is a recoverable data-quality condition: it is skipped and counted in
// BrokenRefs, never fatal.
func Build(studentID string, enrollments []model.Enrollment, courses []model.Course) Profile {
	byID := make(map[string]model.Course, len(courses))
	for _, c := range courses {
		byID[c.CourseID] = c
	}

	p := Profile{
		StudentID:      studentID,
		Enrolled:       make(map[string]struct{}),
		TagCounts:      make(map[string]int),
		CategoryCounts: make(map[string]int),
	}
	for _, e := range enrollments {
		if e.StudentID != studentID {
			continue
		}
		course, ok := byID[e.CourseID]
		if !ok {
			p.BrokenRefs++
			continue
		}
		p.Enrolled[course.CourseID] = struct{}{}
		for _, tag := range course.Tags {
			p.TagCounts[strings.ToLower(tag)]++
		}
		if course.Category != "" {
			p.CategoryCounts[strings.ToLower(course.Category)]++
		}
	}
	return p
}
