package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/eduhub/recd/pkg/logger"
)

// processingDelay gives the ingestion pipeline time to drain before the
// read-side verification starts.
const processingDelay = 2 * time.Second

// Run executes a complete seeding pass: catalog, enrollments, verification.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting catalog seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("students", config.NumStudents),
		logger.Int("maxPerStudent", config.EnrollPerStudent),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	catalog := SampleCatalog()
	if err := seedCatalog(ctx, client, config, catalog, stats); err != nil {
		return fmt.Errorf("catalog seeding failed: %w", err)
	}

	enrollments, students, err := GenerateEnrollments(ctx, config, catalog, stats)
	if err != nil {
		return fmt.Errorf("enrollment generation failed: %w", err)
	}

	if err := submitEnrollments(ctx, client, config, enrollments, stats); err != nil {
		return fmt.Errorf("enrollment submission failed: %w", err)
	}

	logger.Get().Info(ctx, "waiting for enrollments to be processed")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(processingDelay):
	}

	if err := fetchRecommendations(ctx, client, config, students, stats); err != nil {
		return fmt.Errorf("recommendation verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final seeding statistics.
func displayFinalStats(stats *Stats) {
	var successRate, perSecond float64

	if stats.EnrollmentsSubmitted > 0 {
		successRate = float64(stats.EnrollmentsSuccessful) / float64(stats.EnrollmentsSubmitted) * 100
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.EnrollmentsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("coursesSeeded", stats.CoursesSeeded),
		logger.Int("enrollmentsGenerated", stats.EnrollmentsGenerated),
		logger.Int("enrollmentsSubmitted", stats.EnrollmentsSubmitted),
		logger.Int("enrollmentsSuccessful", stats.EnrollmentsSuccessful),
		logger.Int("enrollmentsDuplicate", stats.EnrollmentsDuplicate),
		logger.Int("enrollmentsFailed", stats.EnrollmentsFailed),
		logger.Int("recommendationsFetched", stats.RecommendationsFetched),
		logger.Int("recommendationsNonEmpty", stats.RecommendationsNonEmpty),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("enrollmentsPerSecond", perSecond))
}
