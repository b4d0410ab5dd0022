package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/eduhub/recd/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryDeduper_SeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a new key", func() {
			seen := d.SeenAndRecord(ctx, "user_1|PYT")

			Convey("Then it was not seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the same key is seen on the second attempt", func() {
				So(d.SeenAndRecord(ctx, "user_1|PYT"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And a different student/course pair is independent", func() {
				So(d.SeenAndRecord(ctx, "user_2|PYT"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "user_1|SQL"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})
		})
	})
}

func TestMemoryDeduper_Unrecord(t *testing.T) {
	Convey("Given a recorded key", t, func() {
		d := dedupe.NewMemoryDeduper()
		ctx := context.Background()
		d.SeenAndRecord(ctx, "user_1|PYT")

		Convey("When unrecording it", func() {
			d.Unrecord(ctx, "user_1|PYT")

			Convey("Then it can be recorded again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "user_1|PYT"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown key", func() {
			d.Unrecord(ctx, "user_9|XYZ")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestMemoryDeduper_Eviction(t *testing.T) {
	Convey("Given a deduper bounded to three keys", t, func() {
		d := dedupe.NewMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		for i := 1; i <= 3; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("user_%d|PYT", i))
		}

		Convey("When a fourth key arrives", func() {
			seen := d.SeenAndRecord(ctx, "user_4|PYT")

			Convey("Then the oldest key was evicted", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "user_1|PYT"), ShouldBeFalse) // forgotten
			})

			Convey("And newer keys are still remembered", func() {
				So(d.SeenAndRecord(ctx, "user_3|PYT"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "user_4|PYT"), ShouldBeTrue)
			})
		})

		Convey("When a key was unrecorded before eviction", func() {
			d.Unrecord(ctx, "user_2|PYT")
			d.SeenAndRecord(ctx, "user_4|PYT")
			d.SeenAndRecord(ctx, "user_5|PYT")

			Convey("Then eviction skips the stray slot", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "user_4|PYT"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "user_5|PYT"), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryDeduper_Unbounded(t *testing.T) {
	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When recording many keys", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("user_%d|DSI", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "user_0|DSI"), ShouldBeTrue)
			})
		})
	})
}
