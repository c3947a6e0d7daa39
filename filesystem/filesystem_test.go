package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestReadDir(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()
		So(API().MkdirAll("/videos/empty", 0o755), ShouldBeNil)
		So(API().WriteFile("/videos/a.mp4", []byte{0}, 0o644), ShouldBeNil)

		Convey("A populated directory should be readable", func() {
			So(ReadDir("/videos"), ShouldBeNil)
		})

		Convey("An empty directory should be readable", func() {
			So(ReadDir("/videos/empty"), ShouldBeNil)
		})

		Convey("A missing directory should fail", func() {
			So(ReadDir("/missing"), ShouldNotBeNil)
		})

		Convey("A read-only backend should still be readable", func() {
			SetReadOnly()
			So(ReadDir("/videos"), ShouldBeNil)
			So(API().WriteFile("/videos/b.mp4", []byte{0}, 0o644), ShouldNotBeNil)
		})
	})
}
