package seed

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/eduhub/recd/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestSampleCatalog(t *testing.T) {
	Convey("Given the sample catalog", t, func() {
		catalog := SampleCatalog()

		Convey("Then course ids are unique", func() {
			seen := make(map[string]struct{}, len(catalog))
			for _, c := range catalog {
				_, dup := seen[c.CourseID]
				So(dup, ShouldBeFalse)
				seen[c.CourseID] = struct{}{}
			}
		})

		Convey("And every interest group references a published course", func() {
			published := make(map[string]struct{})
			for _, c := range catalog {
				if c.IsPublished {
					published[c.CourseID] = struct{}{}
				}
			}
			for _, group := range interestGroups {
				for _, id := range group {
					_, ok := published[id]
					So(ok, ShouldBeTrue)
				}
			}
		})
	})
}

func TestGenerateEnrollments(t *testing.T) {
	Convey("Given a seeding config", t, func() {
		ctx := context.Background()
		config := &Config{NumStudents: 50, EnrollPerStudent: 4}
		catalog := SampleCatalog()
		stats := &Stats{}

		Convey("When generating enrollments", func() {
			enrollments, students, err := GenerateEnrollments(ctx, config, catalog, stats)

			Convey("Then every student gets at least one enrollment", func() {
				So(err, ShouldBeNil)
				So(students, ShouldHaveLength, 50)
				So(len(enrollments), ShouldBeGreaterThanOrEqualTo, 50)
				So(stats.EnrollmentsGenerated, ShouldEqual, len(enrollments))

				perStudent := make(map[string]int, len(students))
				for _, e := range enrollments {
					perStudent[e.StudentID]++
				}
				for _, s := range students {
					So(perStudent[s], ShouldBeGreaterThanOrEqualTo, 1)
					So(perStudent[s], ShouldBeLessThanOrEqualTo, config.EnrollPerStudent)
				}
			})

			Convey("And every enrollment references a published course", func() {
				So(err, ShouldBeNil)
				published := make(map[string]struct{})
				for _, c := range catalog {
					if c.IsPublished {
						published[c.CourseID] = struct{}{}
					}
				}
				for _, e := range enrollments {
					_, ok := published[e.CourseID]
					So(ok, ShouldBeTrue)
					So(e.EnrollmentID, ShouldNotBeBlank)
					So(e.TS, ShouldNotBeBlank)
				}
			})

			Convey("And a student never enrolls in the same course twice", func() {
				So(err, ShouldBeNil)
				keys := make(map[string]struct{}, len(enrollments))
				for _, e := range enrollments {
					key := e.StudentID + "|" + e.CourseID
					_, dup := keys[key]
					So(dup, ShouldBeFalse)
					keys[key] = struct{}{}
				}
			})
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, _, err := GenerateEnrollments(cancelled, config, catalog, stats)

			So(err, ShouldNotBeNil)
		})
	})
}
