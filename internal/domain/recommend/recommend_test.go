package recommend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/eduhub/recd/internal/domain/model"
	"github.com/eduhub/recd/internal/domain/recommend"
	. "github.com/smartystreets/goconvey/convey"
)

func mustEngine(opts ...recommend.Option) *recommend.Engine {
	e, err := recommend.New(opts...)
	So(err, ShouldBeNil)
	return e
}

func TestEngine_Recommend_Scenario(t *testing.T) {
	Convey("Given the documented regression scenario", t, func() {
		// Profile: tagCounts {python:2, sql:1}, categoryCounts {Programming:2}.
		// Built from two programming courses sharing the python tag.
		courses := []model.Course{
			{CourseID: "P1", Category: "Programming", Tags: []string{"python"}, IsPublished: true},
			{CourseID: "P2", Category: "Programming", Tags: []string{"python", "sql"}, IsPublished: true},
			{CourseID: "A", Category: "Programming", Tags: []string{"python"}, Popularity: 10, IsPublished: true},
			{CourseID: "B", Category: "Data", Tags: []string{"java"}, Popularity: 50, IsPublished: true},
		}
		enrollments := []model.Enrollment{
			{EnrollmentID: "e1", StudentID: "stu", CourseID: "P1"},
			{EnrollmentID: "e2", StudentID: "stu", CourseID: "P2"},
		}
		engine := mustEngine()

		Convey("When recommending with default weights", func() {
			res, err := engine.Recommend(context.Background(), recommend.Request{
				StudentID:   "stu",
				Enrollments: enrollments,
				Courses:     courses,
				TopN:        10,
			})
			So(err, ShouldBeNil)
			So(res.Candidates, ShouldHaveLength, 2)

			byID := map[string]recommend.ScoredCandidate{}
			for _, c := range res.Candidates {
				byID[c.CourseID] = c
			}

			Convey("Then score(A) = 3*2 + 2*2 + 0.5*10 = 15", func() {
				So(byID["A"].Score, ShouldEqual, 15)
			})

			Convey("And score(B) = 0 + 0 + 0.5*50 = 25", func() {
				So(byID["B"].Score, ShouldEqual, 25)
			})

			Convey("And B outranks A despite zero overlap", func() {
				So(res.Candidates[0].CourseID, ShouldEqual, "B")
				So(res.Candidates[1].CourseID, ShouldEqual, "A")
			})

			Convey("And the breakdown explains each term", func() {
				a := byID["A"]
				So(a.Signals, ShouldHaveLength, 3)
				So(a.Signals[0].Name, ShouldEqual, recommend.SignalTags)
				So(a.Signals[0].Value, ShouldEqual, 6)
				So(a.Signals[1].Value, ShouldEqual, 4)
				So(a.Signals[2].Value, ShouldEqual, 5)
				So(a.TagOverlap, ShouldEqual, 1)
			})
		})
	})
}

func TestEngine_Recommend_Exclusion(t *testing.T) {
	Convey("Given a student enrolled in part of the catalog", t, func() {
		courses := []model.Course{
			{CourseID: "PYT", Category: "Programming", Tags: []string{"python"}, Popularity: 5, IsPublished: true},
			{CourseID: "SQL", Category: "Database", Tags: []string{"sql"}, Popularity: 3, IsPublished: true},
			{CourseID: "DSI", Category: "Data", Tags: []string{"python", "data"}, Popularity: 8, IsPublished: true},
			{CourseID: "DRAFT", Category: "Data", Tags: []string{"data"}, Popularity: 99, IsPublished: false},
		}
		enrollments := []model.Enrollment{
			{EnrollmentID: "e1", StudentID: "stu", CourseID: "PYT"},
		}
		engine := mustEngine()

		Convey("When recommending", func() {
			res, err := engine.Recommend(context.Background(), recommend.Request{
				StudentID:   "stu",
				Enrollments: enrollments,
				Courses:     courses,
				TopN:        10,
			})
			So(err, ShouldBeNil)

			Convey("Then no enrolled course is ever returned", func() {
				for _, c := range res.Candidates {
					So(c.CourseID, ShouldNotEqual, "PYT")
				}
			})

			Convey("And unpublished courses are filtered out", func() {
				for _, c := range res.Candidates {
					So(c.CourseID, ShouldNotEqual, "DRAFT")
				}
				So(res.Candidates, ShouldHaveLength, 2)
			})
		})

		Convey("When the student is enrolled in everything published", func() {
			all := []model.Enrollment{
				{EnrollmentID: "e1", StudentID: "stu", CourseID: "PYT"},
				{EnrollmentID: "e2", StudentID: "stu", CourseID: "SQL"},
				{EnrollmentID: "e3", StudentID: "stu", CourseID: "DSI"},
			}

			Convey("Then an empty result is a valid answer by default", func() {
				res, err := engine.Recommend(context.Background(), recommend.Request{
					StudentID:   "stu",
					Enrollments: all,
					Courses:     courses,
				})
				So(err, ShouldBeNil)
				So(res.Candidates, ShouldBeEmpty)
			})

			Convey("But RequireResults surfaces the empty-catalog condition", func() {
				_, err := engine.Recommend(context.Background(), recommend.Request{
					StudentID:      "stu",
					Enrollments:    all,
					Courses:        courses,
					RequireResults: true,
				})
				So(err, ShouldNotBeNil)
				So(errors.Is(err, recommend.ErrEmptyCatalog), ShouldBeTrue)
			})
		})
	})
}

func TestEngine_Recommend_ColdStart(t *testing.T) {
	Convey("Given a student with no history", t, func() {
		courses := []model.Course{
			{CourseID: "C1", Category: "Data", Tags: []string{"data"}, Popularity: 7, IsPublished: true},
			{CourseID: "C2", Category: "Programming", Tags: []string{"go"}, Popularity: 42, IsPublished: true},
			{CourseID: "C3", Category: "Database", Tags: []string{"sql"}, Popularity: 19, IsPublished: true},
		}
		engine := mustEngine()

		Convey("When recommending", func() {
			res, err := engine.Recommend(context.Background(), recommend.Request{
				StudentID: "new-student",
				Courses:   courses,
				TopN:      10,
			})
			So(err, ShouldBeNil)

			Convey("Then scores reduce exactly to popularity * weight", func() {
				So(res.Candidates[0].CourseID, ShouldEqual, "C2")
				So(res.Candidates[0].Score, ShouldEqual, 21)
				So(res.Candidates[1].CourseID, ShouldEqual, "C3")
				So(res.Candidates[1].Score, ShouldEqual, 9.5)
				So(res.Candidates[2].CourseID, ShouldEqual, "C1")
				So(res.Candidates[2].Score, ShouldEqual, 3.5)
			})

			Convey("And the derived profile is empty", func() {
				So(res.Profile.Empty(), ShouldBeTrue)
			})
		})
	})
}

func TestEngine_Recommend_Determinism(t *testing.T) {
	Convey("Given a fixed snapshot", t, func() {
		courses := []model.Course{
			{CourseID: "Z", Category: "Data", Tags: []string{"data", "python"}, Popularity: 4, IsPublished: true},
			{CourseID: "A", Category: "Data", Tags: []string{"python", "data"}, Popularity: 4, IsPublished: true},
			{CourseID: "M", Category: "Programming", Tags: []string{"python"}, Popularity: 12, IsPublished: true},
			{CourseID: "BASE", Category: "Data", Tags: []string{"python", "data"}, IsPublished: true},
		}
		enrollments := []model.Enrollment{
			{EnrollmentID: "e1", StudentID: "stu", CourseID: "BASE"},
		}
		engine := mustEngine()
		req := recommend.Request{StudentID: "stu", Enrollments: enrollments, Courses: courses, TopN: 10}

		Convey("When recommending twice", func() {
			first, err1 := engine.Recommend(context.Background(), req)
			second, err2 := engine.Recommend(context.Background(), req)
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)

			Convey("Then the output is identical", func() {
				So(second.Candidates, ShouldResemble, first.Candidates)
			})
		})

		Convey("When two candidates tie on score and overlap", func() {
			res, err := engine.Recommend(context.Background(), req)
			So(err, ShouldBeNil)

			// Z and A carry identical tags, category, and popularity.
			Convey("Then the lexicographically smaller courseID wins", func() {
				So(res.Candidates, ShouldHaveLength, 3)
				So(res.Candidates[0].CourseID, ShouldEqual, "A")
				So(res.Candidates[1].CourseID, ShouldEqual, "Z")
			})
		})
	})
}

func TestEngine_Recommend_TopN(t *testing.T) {
	Convey("Given a three-course candidate pool", t, func() {
		courses := []model.Course{
			{CourseID: "C1", Popularity: 1, IsPublished: true},
			{CourseID: "C2", Popularity: 2, IsPublished: true},
			{CourseID: "C3", Popularity: 3, IsPublished: true},
		}
		engine := mustEngine()

		Convey("When topN exceeds the pool size", func() {
			res, err := engine.Recommend(context.Background(), recommend.Request{
				StudentID: "stu",
				Courses:   courses,
				TopN:      50,
			})

			Convey("Then the full pool is returned without error", func() {
				So(err, ShouldBeNil)
				So(res.Candidates, ShouldHaveLength, 3)
			})
		})

		Convey("When topN is smaller than the pool", func() {
			res, err := engine.Recommend(context.Background(), recommend.Request{
				StudentID: "stu",
				Courses:   courses,
				TopN:      2,
			})

			Convey("Then only the best two are returned", func() {
				So(err, ShouldBeNil)
				So(res.Candidates, ShouldHaveLength, 2)
				So(res.Candidates[0].CourseID, ShouldEqual, "C3")
				So(res.Candidates[1].CourseID, ShouldEqual, "C2")
			})
		})
	})
}

func TestEngine_Recommend_TagWeightMonotonicity(t *testing.T) {
	Convey("Given one overlapping and one non-overlapping candidate", t, func() {
		courses := []model.Course{
			{CourseID: "BASE", Category: "Programming", Tags: []string{"python"}, IsPublished: true},
			{CourseID: "OVER", Category: "Data", Tags: []string{"python"}, Popularity: 1, IsPublished: true},
			{CourseID: "POP", Category: "Data", Tags: []string{"java"}, Popularity: 100, IsPublished: true},
		}
		enrollments := []model.Enrollment{
			{EnrollmentID: "e1", StudentID: "stu", CourseID: "BASE"},
		}
		req := recommend.Request{StudentID: "stu", Enrollments: enrollments, Courses: courses, TopN: 10}

		Convey("When the tag weight grows past the popularity gap", func() {
			// Gap is 0.5*(100-1) = 49.5, so one tag occurrence needs
			// weight > 49.5 to flip the order.
			low := mustEngine(recommend.WithWeights(recommend.Weights{Tag: 3, Category: 0, Popularity: 0.5}))
			high := mustEngine(recommend.WithWeights(recommend.Weights{Tag: 50, Category: 0, Popularity: 0.5}))

			lowRes, err := low.Recommend(context.Background(), req)
			So(err, ShouldBeNil)
			highRes, err := high.Recommend(context.Background(), req)
			So(err, ShouldBeNil)

			Convey("Then the overlapping candidate overtakes the popular one", func() {
				So(lowRes.Candidates[0].CourseID, ShouldEqual, "POP")
				So(highRes.Candidates[0].CourseID, ShouldEqual, "OVER")
			})

			Convey("And raising the weight never lowered the overlap score", func() {
				So(highRes.Candidates[0].Score, ShouldBeGreaterThan, lowRes.Candidates[1].Score)
			})
		})
	})
}

func TestEngine_New_InvalidWeights(t *testing.T) {
	Convey("Given a negative weight", t, func() {
		_, err := recommend.New(recommend.WithWeights(recommend.Weights{Tag: -1, Category: 2, Popularity: 0.5}))

		Convey("Then construction fails before any scoring", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, recommend.ErrInvalidWeights), ShouldBeTrue)
		})
	})

	Convey("Given zero weights", t, func() {
		_, err := recommend.New(recommend.WithWeights(recommend.Weights{}))

		Convey("Then they are accepted; zero disables a signal", func() {
			So(err, ShouldBeNil)
		})
	})
}

func TestEngine_Recommend_Cancelled(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		engine := mustEngine()

		Convey("Then Recommend returns the context error", func() {
			_, err := engine.Recommend(ctx, recommend.Request{StudentID: "stu"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPopular(t *testing.T) {
	Convey("Given a catalog with mixed popularity", t, func() {
		courses := []model.Course{
			{CourseID: "LOW", Popularity: 1, IsPublished: true},
			{CourseID: "HIGH", Popularity: 30, IsPublished: true},
			{CourseID: "MID", Popularity: 10, IsPublished: true},
			{CourseID: "HIDDEN", Popularity: 500, IsPublished: false},
		}

		Convey("When ranking the popular courses", func() {
			top := recommend.Popular(courses, 2)

			Convey("Then published courses come back by popularity desc", func() {
				So(top, ShouldHaveLength, 2)
				So(top[0].CourseID, ShouldEqual, "HIGH")
				So(top[1].CourseID, ShouldEqual, "MID")
			})
		})

		Convey("When two courses tie", func() {
			tied := []model.Course{
				{CourseID: "B", Popularity: 5, IsPublished: true},
				{CourseID: "A", Popularity: 5, IsPublished: true},
			}
			top := recommend.Popular(tied, 10)

			Convey("Then the smaller courseID ranks first", func() {
				So(top[0].CourseID, ShouldEqual, "A")
				So(top[1].CourseID, ShouldEqual, "B")
			})
		})
	})
}
