package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given remembered filters", t, func() {
		viper.Set(key.SearchShowQuerySuggestions, true)
		So(Remember("Beach", 1), ShouldBeNil)
		So(Remember("beach sunset", 10), ShouldBeNil)
		So(Remember("  ", 5), ShouldBeNil)

		Convey("Suggestions are ranked and case-insensitive", func() {
			So(SuggestMany("BEA"), ShouldResemble, []string{"beach sunset", "beach"})
			So(Suggest("bea").MustGet(), ShouldEqual, "beach sunset")
		})

		Convey("The exact query is not suggested back", func() {
			So(SuggestMany("beach sunset"), ShouldBeEmpty)
		})

		Convey("Remembering invalidates cached suggestions", func() {
			So(SuggestMany("mount"), ShouldBeEmpty)
			So(Remember("mountains", 1), ShouldBeNil)
			So(SuggestMany("mount"), ShouldResemble, []string{"mountains"})
		})

		Convey("Nothing matches nothing", func() {
			So(Suggest("zzz").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions can be disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			So(SuggestMany("bea"), ShouldBeEmpty)
		})
	})
}
