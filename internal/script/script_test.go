package script

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/filesystem"
	lua "github.com/yuin/gopher-lua"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRun(t *testing.T) {
	Convey("Given a script on disk", t, func() {
		path := "/scripts/answer.lua"
		So(filesystem.API().WriteFile(path, []byte(`answer = 42`), 0o644), ShouldBeNil)
		defer Forget(path)

		Convey("It runs in a fresh state", func() {
			L := lua.NewState()
			defer L.Close()

			So(Run(L, path), ShouldBeNil)
			So(L.GetGlobal("answer").String(), ShouldEqual, "42")
		})

		Convey("The compiled prototype is reused until forgotten", func() {
			first, err := Compile(path)
			So(err, ShouldBeNil)

			So(filesystem.API().WriteFile(path, []byte(`answer = 1`), 0o644), ShouldBeNil)
			second, _ := Compile(path)
			So(second, ShouldEqual, first)

			Forget(path)
			third, _ := Compile(path)
			So(third, ShouldNotEqual, first)
		})

		Convey("Syntax errors are reported", func() {
			broken := "/scripts/broken.lua"
			So(filesystem.API().WriteFile(broken, []byte(`function (`), 0o644), ShouldBeNil)
			_, err := Compile(broken)
			So(err, ShouldNotBeNil)
		})
	})
}
