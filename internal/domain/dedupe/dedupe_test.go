package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/lifebridge/lifebridge/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-flight run guard", t, func() {
		Convey("When creating a guard with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording match runs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the organ has no run in flight", func() {
				seen := d.SeenAndRecord(context.Background(), "organ-1")

				Convey("Then the run is newly recorded", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And a run is already in flight for the organ", func() {
				So(d.SeenAndRecord(context.Background(), "organ-1"), ShouldBeFalse)
				seen := d.SeenAndRecord(context.Background(), "organ-1")

				Convey("Then the second request is a duplicate", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When a run finishes", func() {
			d := dedupe.NewInMemoryDeduper()
			So(d.SeenAndRecord(context.Background(), "organ-1"), ShouldBeFalse)

			d.Unrecord(context.Background(), "organ-1")

			Convey("Then the organ can be run again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(context.Background(), "organ-1"), ShouldBeFalse)
			})
		})

		Convey("When releasing a key that was never recorded", func() {
			d := dedupe.NewInMemoryDeduper()
			d.Unrecord(context.Background(), "organ-unknown")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When the guard reaches its bound", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			So(d.SeenAndRecord(context.Background(), "organ-1"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "organ-2"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "organ-3"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "organ-4"), ShouldBeFalse)

			Convey("Then the oldest key is evicted FIFO", func() {
				So(d.Size(), ShouldEqual, 3)
				// organ-1 was evicted, so it records as new again.
				So(d.SeenAndRecord(context.Background(), "organ-1"), ShouldBeFalse)
				// organ-4 is still in flight.
				So(d.SeenAndRecord(context.Background(), "organ-4"), ShouldBeTrue)
			})
		})

		Convey("When released keys leave dead slots in the eviction ring", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			So(d.SeenAndRecord(context.Background(), "organ-1"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "organ-2"), ShouldBeFalse)
			d.Unrecord(context.Background(), "organ-1")
			So(d.SeenAndRecord(context.Background(), "organ-3"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "organ-4"), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), "organ-5"), ShouldBeFalse)

			Convey("Then eviction skips dead slots and drops a live key", func() {
				So(d.Size(), ShouldEqual, 3)
				// organ-2 was the oldest live key when the bound was hit.
				So(d.SeenAndRecord(context.Background(), "organ-5"), ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given concurrent run requests for the same organs", t, func() {
		d := dedupe.NewInMemoryDeduper()

		const goroutines = 16
		const organs = 50

		var wg sync.WaitGroup
		newlyRecorded := make([]int, goroutines)

		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < organs; i++ {
					if !d.SeenAndRecord(context.Background(), fmt.Sprintf("organ-%d", i)) {
						newlyRecorded[g]++
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then each organ is recorded exactly once", func() {
			total := 0
			for _, n := range newlyRecorded {
				total += n
			}
			So(total, ShouldEqual, organs)
			So(d.Size(), ShouldEqual, organs)
		})
	})
}
