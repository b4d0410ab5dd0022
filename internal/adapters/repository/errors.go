package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("course not found")
	ErrMissingCourse = errors.New("course id must not be empty")
)
