// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory enrollment queue.
	QueueSize int `koanf:"queue_size" validate:"gt=0"`

	// WorkerCount sets the number of enrollment apply workers.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size" validate:"gt=0"`

	// DefaultTopN is the recommendation list length when the client
	// does not pass a limit.
	DefaultTopN int `koanf:"default_top_n" validate:"gt=0"`

	// MaxTopN caps GET /recommendations?limit.
	MaxTopN int `koanf:"max_top_n" validate:"gt=0,gtefield=DefaultTopN"`

	// TagWeight, CategoryWeight and PopularityWeight tune the scoring
	// formula. Negative weights are rejected.
	TagWeight        float64 `koanf:"tag_weight" validate:"gte=0"`
	CategoryWeight   float64 `koanf:"category_weight" validate:"gte=0"`
	PopularityWeight float64 `koanf:"popularity_weight" validate:"gte=0"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		QueueSize:        100_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       500_000,
		DefaultTopN:      10,
		MaxTopN:          100,
		TagWeight:        3.0,
		CategoryWeight:   2.0,
		PopularityWeight: 0.5,
	}
	return c
}
