package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Playlists()", func() {
			path := Playlists()
			So(filepath.Dir(path), ShouldEqual, Config())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("History() should live next to the config file", func() {
			So(filepath.Dir(History()), ShouldEqual, Config())
		})

		Convey("Videos()", func() {
			So(Videos(), ShouldNotBeEmpty)
		})
	})

	Convey("Given a custom config path", t, func() {
		t.Setenv(EnvConfigPath, "/tmp/vlog-custom")

		Convey("Config() should honor it", func() {
			So(Config(), ShouldEqual, "/tmp/vlog-custom")
		})
	})
}
