package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/eduhub/recd/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	interestSplit      = 0.7
)

// interestGroups bias each synthetic student toward one slice of the catalog
// so recommendations have a signal to pick up.
var interestGroups = [][]string{
	{"PYT101", "PYT201", "GO101"},
	{"SQL101", "SQL201"},
	{"DSI301", "DSI401", "PYT101"},
	{"WEB101", "WEB201"},
	{"OPS101", "GO101"},
}

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a random int in [0, n).
func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// GenerateEnrollments creates enrollments for synthetic students. Each student
// mostly picks from one interest group with occasional picks from the rest of
// the catalog.
func GenerateEnrollments(ctx context.Context, config *Config, catalog []CourseRequest, stats *Stats) ([]EnrollmentRequest, []string, error) {
	logger.Get().Info(ctx, "generating enrollments",
		logger.Int("students", config.NumStudents),
		logger.Int("maxPerStudent", config.EnrollPerStudent))

	published := make([]string, 0, len(catalog))
	for _, c := range catalog {
		if c.IsPublished {
			published = append(published, c.CourseID)
		}
	}

	var enrollments []EnrollmentRequest
	students := make([]string, config.NumStudents)

	for i := 0; i < config.NumStudents; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		studentID := "student_" + uuid.NewString()
		students[i] = studentID
		group := interestGroups[randomInt(len(interestGroups))]

		count := 1 + randomInt(config.EnrollPerStudent)
		picked := make(map[string]struct{}, count)
		for len(picked) < count {
			var courseID string
			if randomFloat() < interestSplit {
				courseID = group[randomInt(len(group))]
			} else {
				courseID = published[randomInt(len(published))]
			}
			if _, dup := picked[courseID]; dup {
				// A duplicate pick within one student carries no signal.
				if len(picked) >= len(published) {
					break
				}
				continue
			}
			picked[courseID] = struct{}{}

			enrollments = append(enrollments, EnrollmentRequest{
				EnrollmentID: uuid.NewString(),
				StudentID:    studentID,
				CourseID:     courseID,
				TS:           time.Now().UTC().Format(time.RFC3339),
			})
		}
	}

	stats.EnrollmentsGenerated = len(enrollments)
	logger.Get().Info(ctx, "generated enrollments", logger.Int("count", len(enrollments)))
	return enrollments, students, nil
}
