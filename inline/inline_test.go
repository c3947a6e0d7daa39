package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/media"
)

func init() {
	filesystem.SetMemMapFs()
}

func browser() *library.Browser {
	fs := afero.NewMemMapFs()
	for _, path := range []string{"/v/a/one.mp4", "/v/a/two.mp4", "/v/b/three.mkv", "/v/b/readme.txt"} {
		So(afero.WriteFile(fs, path, []byte("data"), 0o644), ShouldBeNil)
	}

	return library.NewBrowser(fs, library.Options{
		Roots:      []string{"/v"},
		Extensions: []string{".mp4", ".mkv"},
		Sort:       library.SortName,
	})
}

func videos(names ...string) []media.VideoItem {
	out := make([]media.VideoItem, len(names))
	for i, n := range names {
		out[i] = media.VideoItem{Name: n}
	}
	return out
}

func namesOf(vs []media.VideoItem) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func TestParseSelector(t *testing.T) {
	Convey("Given five videos", t, func() {
		all := videos("a", "b", "c", "d", "e")

		cases := map[string][]string{
			"first": {"a"},
			"last":  {"e"},
			"all":   {"a", "b", "c", "d", "e"},
			"2":     {"c"},
			"9":     {},
			"1-3":   {"b", "c", "d"},
			"3-10":  {"d", "e"},
			"4-1":   {},
			"@c@":   {"c"},
		}

		for description, expected := range cases {
			Convey("Selector "+description, func() {
				selector, err := ParseSelector(description)
				So(err, ShouldBeNil)
				So(namesOf(selector(all)), ShouldResemble, expected)
			})
		}

		Convey("Garbage is rejected", func() {
			_, err := ParseSelector("middle")
			So(err, ShouldNotBeNil)
		})

		Convey("Selectors tolerate an empty list", func() {
			for _, description := range []string{"first", "last", "0", "0-2"} {
				selector, err := ParseSelector(description)
				So(err, ShouldBeNil)
				So(selector(nil), ShouldBeEmpty)
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a library", t, func() {
		var buf bytes.Buffer
		options := &Options{Out: &buf, Browser: browser()}

		Convey("Plain output prints one path per line", func() {
			So(Run(context.Background(), options), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines, ShouldResemble, []string{"/v/a/one.mp4", "/v/b/three.mkv", "/v/a/two.mp4"})
		})

		Convey("A folder restricts the listing", func() {
			options.Folder = mo.Some("/v/b")
			So(Run(context.Background(), options), ShouldBeNil)
			So(strings.TrimSpace(buf.String()), ShouldEqual, "/v/b/three.mkv")
		})

		Convey("JSON output carries the query and sizes", func() {
			options.Json = true
			options.Query = "two"
			So(Run(context.Background(), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Query, ShouldEqual, "two")
			So(output.Result, ShouldHaveLength, 1)
			So(output.Result[0].Path, ShouldEqual, "/v/a/two.mp4")
			So(output.Result[0].HumanSize, ShouldEqual, "4 B")
		})

		Convey("An empty JSON result is an empty array", func() {
			options.Json = true
			options.Query = "nothing-like-this"
			So(Run(context.Background(), options), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, `"result":[]`)
		})
	})
}
