package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/eduhub/recd/internal/seed"
	"github.com/eduhub/recd/pkg/logger"
)

// Default configuration constants.
const (
	defaultStudents         = 200
	defaultEnrollPerStudent = 4
	defaultTopN             = 10
	defaultWorkers          = 2 // multiplier for runtime.NumCPU()
	defaultTimeout          = 30 * time.Second
	defaultRunTimeout       = 10 * time.Minute
)

func main() {
	var (
		baseURL          = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numStudents      = flag.Int("students", defaultStudents, "Number of synthetic students to enroll")
		enrollPerStudent = flag.Int("enrollments", defaultEnrollPerStudent, "Maximum enrollments per student")
		topN             = flag.Int("top", defaultTopN, "Number of recommendations to fetch per sampled student")
		workers          = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout          = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose          = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seed.Config{
		BaseURL:          *baseURL,
		NumStudents:      *numStudents,
		EnrollPerStudent: *enrollPerStudent,
		TopN:             *topN,
		Workers:          *workers,
		Timeout:          *timeout,
		Verbose:          *verbose,
	}

	if err := seed.Run(ctx, config); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		return
	}
}
