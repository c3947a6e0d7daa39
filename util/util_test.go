package util

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		So(SanitizeFilename("my playlist?.lua"), ShouldEqual, "my_playlist_.lua")
		So(SanitizeFilename("a__b"), ShouldEqual, "a_b")
		So(SanitizeFilename("-trip-"), ShouldEqual, "trip")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "video", "videos"), ShouldEqual, "1 video")
		So(Quantify(0, "video", "videos"), ShouldEqual, "0 videos")
	})
}

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/media/Camera/trip.final.mp4"), ShouldEqual, "trip.final")
		So(FileStem("clip"), ShouldEqual, "clip")
	})
}

func TestClamp(t *testing.T) {
	Convey("Clamp", t, func() {
		So(Clamp[int64](-5, 0, 100), ShouldEqual, 0)
		So(Clamp[int64](150, 0, 100), ShouldEqual, 100)
		So(Clamp[int64](42, 0, 100), ShouldEqual, 42)

		Convey("An inverted range collapses to the lower bound", func() {
			So(Clamp[int64](42, 0, -1), ShouldEqual, 0)
		})
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max and Min", t, func() {
		So(Max(3, 9, 1), ShouldEqual, 9)
		So(Min(3, 9, 1), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a directory with a file", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/vlog/dir", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/vlog/dir/file", []byte("x"), 0o644), ShouldBeNil)

		Convey("Delete should remove it recursively", func() {
			So(Delete("/tmp/vlog/dir"), ShouldBeNil)
			So(lo.Must(fs.Exists("/tmp/vlog/dir/file")), ShouldBeFalse)
		})

		Convey("Deleting a missing path should fail", func() {
			So(Delete("/tmp/vlog/none"), ShouldNotBeNil)
		})
	})
}

func TestFormatMillis(t *testing.T) {
	Convey("FormatMillis", t, func() {
		So(FormatMillis(0), ShouldEqual, "0:00")
		So(FormatMillis(-5), ShouldEqual, "0:00")
		So(FormatMillis(61_500), ShouldEqual, "1:01")
		So(FormatMillis(3_723_000), ShouldEqual, "1:02:03")
	})
}
