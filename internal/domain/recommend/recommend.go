// Package recommend scores and ranks candidate courses for a student.
//
// The engine is a pure function over a snapshot of enrollment and course
// records: build the student's profile, filter out courses already taken,
// score the rest with a weighted linear combination, and return the top N in
// a total deterministic order. It performs no I/O and holds no per-request
// state, so one Engine serves concurrent requests without coordination.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/eduhub/recd/internal/domain/model"
	"github.com/eduhub/recd/internal/domain/profile"
)

// defaultTopN bounds the result when the caller does not ask for a count.
const defaultTopN = 10

// Signal names used in score breakdowns.
const (
	SignalTags       = "tags"
	SignalCategory   = "category"
	SignalPopularity = "popularity"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights overrides the default signal weights. The weights are
// validated by New.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithDefaultTopN sets the result count used when a request asks for n <= 0.
func WithDefaultTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultTopN = n
		}
	}
}

// Request carries one recommendation invocation. Enrollments and Courses are
// the full already-fetched snapshots; the engine never goes back to a store.
type Request struct {
	StudentID   string
	Enrollments []model.Enrollment
	Courses     []model.Course

	// TopN caps the result; <= 0 falls back to the engine default.
	TopN int

	// RequireResults turns an empty candidate set into ErrEmptyCatalog
	// instead of a valid empty answer.
	RequireResults bool
}

// Signal is one weighted term of a score.
type Signal struct {
	Name   string
	Weight float64
	Raw    float64 // unweighted signal value
	Value  float64 // Weight * Raw
}

// ScoredCandidate pairs a candidate course with its computed score and the
// ordered signal breakdown that produced it.
type ScoredCandidate struct {
	CourseID   string
	Score      float64
	TagOverlap int // distinct candidate tags present in the profile
	Signals    []Signal
}

// Result is the outcome of one recommendation run.
type Result struct {
	StudentID  string
	Candidates []ScoredCandidate
	Profile    profile.Profile // derived profile, exposed for diagnostics
}

// Engine computes deterministic course recommendations.
type Engine struct {
	weights     Weights
	defaultTopN int
}

// New builds an Engine, rejecting invalid weights before any scoring begins.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		weights:     DefaultWeights(),
		defaultTopN: defaultTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.weights.Validate(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return e, nil
}

// Weights returns the engine's configured weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Recommend runs the full pipeline: profile, filter, score, rank, truncate.
// Identical inputs always yield identical output ordering and scores.
func (e *Engine) Recommend(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("recommend cancelled: %w", err)
	}

	prof := profile.Build(req.StudentID, req.Enrollments, req.Courses)

	candidates := filterCandidates(req.Courses, prof)
	if len(candidates) == 0 && req.RequireResults {
		return Result{}, fmt.Errorf("student %s: %w", req.StudentID, ErrEmptyCatalog)
	}

	scored := make([]ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = e.score(c, prof)
	}
	rank(scored)

	n := req.TopN
	if n <= 0 {
		n = e.defaultTopN
	}
	if n < len(scored) {
		scored = scored[:n]
	}

	return Result{
		StudentID:  req.StudentID,
		Candidates: scored,
		Profile:    prof,
	}, nil
}

// filterCandidates drops enrolled and unpublished courses, preserving the
// catalog's insertion order for the candidates that remain.
func filterCandidates(courses []model.Course, prof profile.Profile) []model.Course {
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if !c.IsPublished {
			continue
		}
		if _, enrolled := prof.Enrolled[c.CourseID]; enrolled {
			continue
		}
		out = append(out, c)
	}
	return out
}

// score computes the weighted linear combination for one candidate. Each
// candidate tag contributes its frequency in the profile; the category
// contributes its profile frequency; popularity contributes as-is. For an
// empty profile the first two terms are zero and the score reduces exactly
// to Popularity * weight, the global-popularity fallback.
func (e *Engine) score(c model.Course, prof profile.Profile) ScoredCandidate {
	var tagRaw float64
	overlap := 0
	for _, tag := range c.Tags {
		if n := prof.TagCounts[strings.ToLower(tag)]; n > 0 {
			tagRaw += float64(n)
			overlap++
		}
	}
	catRaw := float64(prof.CategoryCounts[strings.ToLower(c.Category)])

	signals := []Signal{
		{Name: SignalTags, Weight: e.weights.Tag, Raw: tagRaw, Value: e.weights.Tag * tagRaw},
		{Name: SignalCategory, Weight: e.weights.Category, Raw: catRaw, Value: e.weights.Category * catRaw},
		{Name: SignalPopularity, Weight: e.weights.Popularity, Raw: c.Popularity, Value: e.weights.Popularity * c.Popularity},
	}
	score := 0.0
	for _, s := range signals {
		score += s.Value
	}

	return ScoredCandidate{
		CourseID:   c.CourseID,
		Score:      score,
		TagOverlap: overlap,
		Signals:    signals,
	}
}

// rank sorts candidates into a total order: score desc, then raw tag overlap
// desc, then courseID asc. The comparator is total on purpose; source
// document order is not guaranteed stable across stores, so ties must never
// depend on input ordering.
func rank(scored []ScoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TagOverlap != b.TagOverlap {
			return a.TagOverlap > b.TagOverlap
		}
		return a.CourseID < b.CourseID
	})
}

// Popular ranks published courses by global popularity alone, the cold-start
// path for students with no history. Ties resolve by courseID.
func Popular(courses []model.Course, n int) []ScoredCandidate {
	if n <= 0 {
		n = defaultTopN
	}
	scored := make([]ScoredCandidate, 0, len(courses))
	for _, c := range courses {
		if !c.IsPublished {
			continue
		}
		scored = append(scored, ScoredCandidate{CourseID: c.CourseID, Score: c.Popularity})
	}
	rank(scored)
	if n < len(scored) {
		scored = scored[:n]
	}
	return scored
}
