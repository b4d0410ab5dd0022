// Package repository defines the catalog and enrollment store interface.
package repository

import "github.com/eduhub/recd/internal/domain/model"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCourses seeds the store with an initial catalog, in order.
func WithCourses(courses ...model.Course) Option {
	return func(s *MemStore) {
		for _, c := range courses {
			if c.CourseID == "" {
				continue
			}
			if _, exists := s.courses[c.CourseID]; !exists {
				s.order = append(s.order, c.CourseID)
			}
			s.courses[c.CourseID] = c
		}
	}
}
