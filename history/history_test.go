package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/media"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a reference", t, func() {
		ref := media.NewReference("/videos/trip/beach.mp4")
		defer Remove(ref.ID)

		Convey("When a position in the middle is saved", func() {
			So(Save(ref, 60_000, 120_000), ShouldBeNil)

			Convey("It can be looked up", func() {
				entry, ok := Lookup(ref.ID).Get()
				So(ok, ShouldBeTrue)
				So(entry.Position, ShouldEqual, 60_000)
				So(entry.Title, ShouldEqual, "beach")
				So(entry.Progress(), ShouldEqual, 0.5)
			})

			Convey("Positions resumes it", func() {
				pos, ok := Positions{}.Resume(ref)
				So(ok, ShouldBeTrue)
				So(pos, ShouldEqual, 60_000)
			})

			Convey("It is listed", func() {
				entries, err := List()
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})

			Convey("Finishing clears it", func() {
				Positions{}.Remember(ref, 118_000, 120_000)
				So(Lookup(ref.ID).IsAbsent(), ShouldBeTrue)
			})

			Convey("Rewinding to the start clears it", func() {
				So(Save(ref, 1_000, 120_000), ShouldBeNil)
				So(Lookup(ref.ID).IsAbsent(), ShouldBeTrue)
			})

			Convey("Remove deletes it", func() {
				So(Remove(ref.ID), ShouldBeNil)
				_, ok := Positions{}.Resume(ref)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("An unknown duration still saves", func() {
			So(Save(ref, 30_000, 0), ShouldBeNil)
			entry := Lookup(ref.ID).MustGet()
			So(entry.Progress(), ShouldEqual, 0)
		})
	})
}
