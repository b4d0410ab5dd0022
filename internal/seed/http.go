package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eduhub/recd/pkg/logger"
)

// HTTP status code constants.
const (
	statusOK       = 200
	statusAccepted = 202
)

// HTTPClient wraps http.Client with a request timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Send performs a request with a JSON body.
func (c *HTTPClient) Send(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// seedCatalog upserts every catalog course through PUT /courses.
func seedCatalog(ctx context.Context, client *HTTPClient, config *Config, catalog []CourseRequest, stats *Stats) error {
	url := config.BaseURL + "/courses"

	for _, course := range catalog {
		resp, err := client.Send(ctx, http.MethodPut, url, course)
		if err != nil {
			return fmt.Errorf("failed to upsert course %s: %w", course.CourseID, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("failed to read upsert response for %s: %w", course.CourseID, err)
		}
		if resp.StatusCode != statusOK {
			return fmt.Errorf("upsert of course %s rejected with status %d: %s", course.CourseID, resp.StatusCode, string(body))
		}
		stats.CoursesSeeded++
	}

	logger.Get().Info(ctx, "catalog seeded", logger.Int("courses", stats.CoursesSeeded))
	return nil
}

// submitEnrollments submits enrollments concurrently using a worker pool.
func submitEnrollments(ctx context.Context, client *HTTPClient, config *Config, enrollments []EnrollmentRequest, stats *Stats) error {
	logger.Get().Info(ctx, "submitting enrollments",
		logger.Int("count", len(enrollments)),
		logger.Int("workers", config.Workers))

	url := config.BaseURL + "/enrollments"

	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	enrollChan := make(chan EnrollmentRequest, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for e := range enrollChan {
				if ctx.Err() != nil {
					return
				}

				atomic.AddInt64(&submitted, 1)
				switch submitSingleEnrollment(ctx, client, url, e) {
				case "success":
					atomic.AddInt64(&successful, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if config.Verbose {
					logger.Get().Debug(ctx, "enrollment submitted",
						logger.String("studentID", e.StudentID),
						logger.String("courseID", e.CourseID),
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))))
				}
			}
		}()
	}

	go func() {
		defer close(enrollChan)
		for _, e := range enrollments {
			select {
			case <-ctx.Done():
				return
			case enrollChan <- e:
			}
		}
	}()

	wg.Wait()

	stats.EnrollmentsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EnrollmentsSuccessful = int(atomic.LoadInt64(&successful))
	stats.EnrollmentsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.EnrollmentsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "enrollment submission completed",
		logger.Int("successful", stats.EnrollmentsSuccessful),
		logger.Int("duplicate", stats.EnrollmentsDuplicate),
		logger.Int("failed", stats.EnrollmentsFailed))
	return nil
}

// submitSingleEnrollment submits one enrollment and classifies the outcome.
func submitSingleEnrollment(ctx context.Context, client *HTTPClient, url string, e EnrollmentRequest) string {
	resp, err := client.Send(ctx, http.MethodPost, url, e)
	if err != nil {
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case statusAccepted:
		return "success"
	case statusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// fetchRecommendations pulls recommendations for a sample of students.
func fetchRecommendations(ctx context.Context, client *HTTPClient, config *Config, students []string, stats *Stats) error {
	sample := students
	const maxSample = 20
	if len(sample) > maxSample {
		sample = sample[:maxSample]
	}

	for _, studentID := range sample {
		url := fmt.Sprintf("%s/recommendations/%s?limit=%d", config.BaseURL, studentID, config.TopN)

		resp, err := client.Get(ctx, url)
		if err != nil {
			return fmt.Errorf("failed to fetch recommendations for %s: %w", studentID, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("failed to read recommendations for %s: %w", studentID, err)
		}
		if resp.StatusCode != statusOK {
			return fmt.Errorf("recommendations for %s rejected with status %d: %s", studentID, resp.StatusCode, string(body))
		}

		var recs []Recommendation
		if err := json.Unmarshal(body, &recs); err != nil {
			return fmt.Errorf("failed to decode recommendations for %s: %w", studentID, err)
		}

		stats.RecommendationsFetched++
		if len(recs) > 0 {
			stats.RecommendationsNonEmpty++
		}

		if config.Verbose && len(recs) > 0 {
			logger.Get().Info(ctx, "top recommendation",
				logger.String("studentID", studentID),
				logger.String("courseID", recs[0].CourseID),
				logger.Float64("score", recs[0].Score))
		}
	}

	logger.Get().Info(ctx, "recommendations verified",
		logger.Int("fetched", stats.RecommendationsFetched),
		logger.Int("nonEmpty", stats.RecommendationsNonEmpty))
	return nil
}
