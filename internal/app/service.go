// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	enrollqueue "github.com/eduhub/recd/internal/adapters/mq/queue"
	workerpool "github.com/eduhub/recd/internal/adapters/mq/worker"
	repository "github.com/eduhub/recd/internal/adapters/repository"
	"github.com/eduhub/recd/internal/domain/dedupe"
	"github.com/eduhub/recd/internal/domain/model"
	"github.com/eduhub/recd/internal/domain/profile"
	"github.com/eduhub/recd/internal/domain/recommend"
	"github.com/eduhub/recd/internal/domain/types"
	"github.com/eduhub/recd/pkg/logger"
	"github.com/eduhub/recd/pkg/metrics"
)

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper
	queue   enrollqueue.Queue
	pool    *workerpool.Pool
	engine  *recommend.Engine

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	weights     recommend.Weights
	defaultTopN int
	catalog     []model.Course

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the enrollment queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWeights sets the scoring weights. Validation happens in Start when the
// engine is built.
func WithWeights(w recommend.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithDefaultTopN sets the recommendation count used when a request carries
// no limit.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// WithCatalog seeds the store with an initial set of courses.
func WithCatalog(courses ...model.Course) Option {
	return func(s *Service) {
		s.catalog = courses
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   100_000,
		dedupeSize:  500_000,
		weights:     recommend.DefaultWeights(),
		defaultTopN: 10,
		stopCh:      make(chan struct{}),
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	engine, err := recommend.New(
		recommend.WithWeights(s.weights),
		recommend.WithDefaultTopN(s.defaultTopN),
	)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	s.engine = engine

	s.store = repository.NewMemStore(ctx, repository.WithCourses(s.catalog...))
	s.deduper = dedupe.NewMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = enrollqueue.NewInMemoryQueue(
		enrollqueue.WithCapacity(s.queueSize),
		enrollqueue.WithBufferSize(s.queueSize),
	)

	// Workers drain the queue straight into the store.
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("seedCourses", len(s.catalog)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommendation service...")

	// Stop worker pool
	if s.pool != nil {
		s.pool.Stop()
	}

	// Close queue
	if q, ok := s.queue.(*enrollqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// SeenAndRecord atomically checks if an enrollment key was seen and records
// it if not. Returns true if the key was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordEnrollmentDuplicate()
	}
	return seen
}

// Unrecord removes an enrollment key from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an enrollment for asynchronous processing. An empty
// enrollment id gets a generated one so every stored record stays addressable.
func (s *Service) Enqueue(ctx context.Context, e model.Enrollment) bool {
	if e.EnrollmentID == "" {
		e.EnrollmentID = uuid.NewString()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}

	s.logger.Debug(ctx, "enqueueing enrollment",
		logger.String("enrollmentID", e.EnrollmentID),
		logger.String("studentID", e.StudentID),
		logger.String("courseID", e.CourseID),
	)
	ok := s.queue.Enqueue(ctx, e)
	if ok {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// Recommend returns up to limit ranked course recommendations for a student.
// A limit <= 0 falls back to the configured default. With require set, an
// empty candidate pool surfaces recommend.ErrEmptyCatalog.
func (s *Service) Recommend(ctx context.Context, studentID string, limit int, require bool) ([]types.Recommendation, error) {
	start := time.Now()

	courses, enrollments := s.store.Snapshot(ctx, studentID)
	res, err := s.engine.Recommend(ctx, recommend.Request{
		StudentID:      studentID,
		Enrollments:    enrollments,
		Courses:        courses,
		TopN:           limit,
		RequireResults: require,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyCatalog) {
			metrics.RecordEmptyCatalog()
		}
		return nil, err
	}

	if res.Profile.BrokenRefs > 0 {
		metrics.RecordBrokenReference(res.Profile.BrokenRefs)
		s.logger.Warn(ctx, "profile built with broken references",
			logger.String("studentID", studentID),
			logger.Int("brokenRefs", res.Profile.BrokenRefs),
		)
	}

	out := make([]types.Recommendation, len(res.Candidates))
	for i, c := range res.Candidates {
		out[i] = types.Recommendation{
			Rank:     i + 1,
			CourseID: c.CourseID,
			Score:    c.Score,
			Signals:  toSignals(c.Signals),
		}
	}

	metrics.RecordRecommendationServed()
	metrics.RecordRecommendationLatency(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// Profile returns the interest profile derived from a student's history.
func (s *Service) Profile(ctx context.Context, studentID string) (types.StudentProfile, error) {
	courses, enrollments := s.store.Snapshot(ctx, studentID)
	p := profile.Build(studentID, enrollments, courses)

	enrolled := make([]string, 0, len(p.Enrolled))
	for id := range p.Enrolled {
		enrolled = append(enrolled, id)
	}
	sort.Strings(enrolled)

	if p.BrokenRefs > 0 {
		metrics.RecordBrokenReference(p.BrokenRefs)
	}

	return types.StudentProfile{
		StudentID:       studentID,
		EnrolledCourses: enrolled,
		TagCounts:       p.TagCounts,
		CategoryCounts:  p.CategoryCounts,
		BrokenRefs:      p.BrokenRefs,
	}, nil
}

// TopPopular returns the globally most popular published courses, the
// cold-start answer for students without history.
func (s *Service) TopPopular(ctx context.Context, n int) ([]types.Recommendation, error) {
	if n <= 0 {
		n = s.defaultTopN
	}
	scored := recommend.Popular(s.store.Courses(ctx), n)

	out := make([]types.Recommendation, len(scored))
	for i, c := range scored {
		out[i] = types.Recommendation{
			Rank:     i + 1,
			CourseID: c.CourseID,
			Score:    c.Score,
		}
	}
	return out, nil
}

// SearchCourses runs a case-insensitive substring search over the catalog.
func (s *Service) SearchCourses(ctx context.Context, query string, limit int) ([]types.CourseInfo, error) {
	if limit <= 0 {
		limit = s.defaultTopN
	}
	hits := s.store.Search(ctx, query, limit)

	out := make([]types.CourseInfo, len(hits))
	for i, c := range hits {
		out[i] = toCourseInfo(c)
	}
	return out, nil
}

// UpsertCourse inserts or replaces a catalog record.
func (s *Service) UpsertCourse(ctx context.Context, c model.Course) error {
	return s.store.UpsertCourse(ctx, c)
}

// GetCourse returns one catalog record by id.
func (s *Service) GetCourse(ctx context.Context, courseID string) (types.CourseInfo, error) {
	c, err := s.store.Course(ctx, courseID)
	if err != nil {
		return types.CourseInfo{}, err
	}
	return toCourseInfo(c), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		courseCount := s.store.CourseCount(ctx)
		studentCount := s.store.StudentCount(ctx)

		stats["queueLength"] = queueLen
		stats["courses"] = courseCount
		stats["students"] = studentCount
		stats["enrollmentsByCategory"] = s.store.EnrollmentsByCategory(ctx)

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateCatalogSize(courseCount)
		metrics.UpdateStudentCount(studentCount)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

func toSignals(in []recommend.Signal) []types.Signal {
	out := make([]types.Signal, len(in))
	for i, sig := range in {
		out[i] = types.Signal{
			Name:   sig.Name,
			Weight: sig.Weight,
			Raw:    sig.Raw,
			Value:  sig.Value,
		}
	}
	return out
}

func toCourseInfo(c model.Course) types.CourseInfo {
	return types.CourseInfo{
		CourseID:    c.CourseID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Tags:        c.Tags,
		Popularity:  c.Popularity,
		IsPublished: c.IsPublished,
		UpdatedAt:   c.UpdatedAt,
	}
}
