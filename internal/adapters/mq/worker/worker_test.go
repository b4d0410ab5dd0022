package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/eduhub/recd/internal/adapters/mq/queue"
	worker "github.com/eduhub/recd/internal/adapters/mq/worker"
	model "github.com/eduhub/recd/internal/domain/model"
	logging "github.com/eduhub/recd/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	eventChan  chan queue.Event
	closeError error
	closeOnce  sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		eventChan: make(chan queue.Event, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Event {
	return mq.eventChan
}

func (mq *mockQueue) Close() error {
	mq.closeOnce.Do(func() {
		close(mq.eventChan)
	})
	return mq.closeError
}

func (mq *mockQueue) addEnrollment(e queue.Event) {
	mq.eventChan <- e
}

type mockApplier struct {
	applied map[string]model.Enrollment
	errors  map[string]error
	mu      sync.RWMutex
}

func newMockApplier() *mockApplier {
	return &mockApplier{
		applied: make(map[string]model.Enrollment),
		errors:  make(map[string]error),
	}
}

func (ma *mockApplier) AddEnrollment(ctx context.Context, e model.Enrollment) error {
	ma.mu.Lock()
	defer ma.mu.Unlock()

	if err, exists := ma.errors[e.EnrollmentID]; exists {
		return err
	}

	ma.applied[e.EnrollmentID] = e
	return nil
}

func (ma *mockApplier) setError(enrollmentID string, err error) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.errors[enrollmentID] = err
}

func (ma *mockApplier) getApplied(enrollmentID string) (model.Enrollment, bool) {
	ma.mu.RLock()
	defer ma.mu.RUnlock()
	e, exists := ma.applied[enrollmentID]
	return e, exists
}

func (ma *mockApplier) appliedCount() int {
	ma.mu.RLock()
	defer ma.mu.RUnlock()
	return len(ma.applied)
}

func TestWorker_ProcessEnrollment(t *testing.T) {
	convey.Convey("Given a worker wired to a queue and applier", t, func() {
		_ = logging.Init()
		mq := newMockQueue()
		applier := newMockApplier()
		w := worker.NewInMemoryWorker(mq, applier, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When an enrollment is dequeued", func() {
			mq.addEnrollment(model.Enrollment{EnrollmentID: "e1", StudentID: "user_1", CourseID: "PYT"})

			convey.Convey("Then it is applied to the store", func() {
				convey.So(waitFor(func() bool {
					_, ok := applier.getApplied("e1")
					return ok
				}), convey.ShouldBeTrue)

				got, _ := applier.getApplied("e1")
				convey.So(got.StudentID, convey.ShouldEqual, "user_1")
				convey.So(got.CourseID, convey.ShouldEqual, "PYT")
			})
		})

		convey.Convey("When the applier fails for one enrollment", func() {
			applier.setError("bad", errors.New("store unavailable"))
			mq.addEnrollment(model.Enrollment{EnrollmentID: "bad", StudentID: "user_1", CourseID: "PYT"})
			mq.addEnrollment(model.Enrollment{EnrollmentID: "good", StudentID: "user_2", CourseID: "SQL"})

			convey.Convey("Then later enrollments are still processed", func() {
				convey.So(waitFor(func() bool {
					_, ok := applier.getApplied("good")
					return ok
				}), convey.ShouldBeTrue)

				_, badApplied := applier.getApplied("bad")
				convey.So(badApplied, convey.ShouldBeFalse)
			})
		})
	})
}

func TestWorker_Shutdown(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()
		mq := newMockQueue()
		applier := newMockApplier()
		w := worker.NewInMemoryWorker(mq, applier)

		ctx := context.Background()
		go w.Run(ctx)

		convey.Convey("When shutdown is requested", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it stops cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestWorker_QueueClosed(t *testing.T) {
	convey.Convey("Given a worker on a queue that gets closed", t, func() {
		_ = logging.Init()
		mq := newMockQueue()
		applier := newMockApplier()
		w := worker.NewInMemoryWorker(mq, applier)

		ctx := context.Background()
		go w.Run(ctx)

		mq.addEnrollment(model.Enrollment{EnrollmentID: "e1", StudentID: "user_1", CourseID: "PYT"})
		convey.So(mq.Close(), convey.ShouldBeNil)

		convey.Convey("When the channel drains", func() {
			convey.Convey("Then buffered enrollments are still applied", func() {
				convey.So(waitFor(func() bool {
					_, ok := applier.getApplied("e1")
					return ok
				}), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPool_ProcessesAcrossWorkers(t *testing.T) {
	convey.Convey("Given a pool of workers sharing one queue", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		applier := newMockApplier()
		pool := worker.NewPool(4, q, applier)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When many enrollments are enqueued", func() {
			const total = 50
			for i := 0; i < total; i++ {
				e := model.Enrollment{
					EnrollmentID: fmt.Sprintf("e%d", i),
					StudentID:    fmt.Sprintf("user_%d", i%5),
					CourseID:     "PYT",
				}
				convey.So(q.Enqueue(ctx, e), convey.ShouldBeTrue)
			}

			convey.Convey("Then all of them are eventually applied", func() {
				convey.So(waitFor(func() bool {
					return applier.appliedCount() == total
				}), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the pool shuts down", func() {
			err := pool.Shutdown(ctx)

			convey.Convey("Then it closes the queue and returns", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

// waitFor polls cond until it holds or a short deadline passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
