package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStack(t *testing.T) {
	Convey("Given a stack of screens", t, func() {
		var s Stack[string]
		s.Push("videos")
		s.Push("folder")

		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, "folder")
		So(s.Pop(), ShouldEqual, "folder")
		So(s.Pop(), ShouldEqual, "videos")

		Convey("Popping an empty stack returns the zero value", func() {
			So(s.Pop(), ShouldEqual, "")
		})
	})
}
