package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/constant"
)

func TestCompare(t *testing.T) {
	Convey("Compare orders versions by component", t, func() {
		for _, tc := range []struct {
			a, b string
			want int
		}{
			{"0.3.0", "0.3.0", 0},
			{"v1.0.0", "0.9.9", 1},
			{"0.2.10", "0.10.0", -1},
			{"1.2.3", "v1.2.4", -1},
		} {
			got, err := Compare(tc.a, tc.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, tc.want)
		}
	})

	Convey("Malformed versions are rejected", t, func() {
		_, err := Compare("latest", "0.1.0")
		So(err, ShouldNotBeNil)
	})

	Convey("The current version parses", t, func() {
		_, err := Compare(constant.Version, "0.0.0")
		So(err, ShouldBeNil)
		So(releaseURL, ShouldContainSubstring, constant.Repository)
	})
}
