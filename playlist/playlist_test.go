package playlist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPlaylist(t *testing.T) {
	Convey("Given a playlist of three items", t, func() {
		a, b, c := media.NewReference("/a.mp4"), media.NewReference("/b.mp4"), media.NewReference("/c.mp4")
		p := New("test", a, b, c)

		Convey("At is bounds-checked", func() {
			So(p.At(1).MustGet().Locator, ShouldEqual, "/b.mp4")
			So(p.At(3).IsAbsent(), ShouldBeTrue)
			So(p.At(-1).IsAbsent(), ShouldBeTrue)
		})

		Convey("Get wraps around in both directions", func() {
			So(p.Get(3).Locator, ShouldEqual, "/a.mp4")
			So(p.Get(7).Locator, ShouldEqual, "/b.mp4")
			So(p.Get(-1).Locator, ShouldEqual, "/c.mp4")
		})

		Convey("Navigation is bounded by the ends", func() {
			So(p.HasPrevious(0), ShouldBeFalse)
			So(p.HasNext(0), ShouldBeTrue)
			So(p.HasNext(2), ShouldBeFalse)
			So(p.HasPrevious(2), ShouldBeTrue)
		})

		Convey("IndexOf finds by id", func() {
			So(p.IndexOf(c.ID), ShouldEqual, 2)
			So(p.IndexOf("nope"), ShouldEqual, -1)
		})

		Convey("The playlist does not alias its input", func() {
			items := []media.Reference{a}
			q := New("alias", items...)
			items[0] = b
			So(q.Get(0).Locator, ShouldEqual, "/a.mp4")
		})
	})
}

func TestPresets(t *testing.T) {
	Convey("Given configured presets with a blank entry", t, func() {
		viper.Set(key.PlaylistPresets, []string{"https://example.com/1.mp4", " ", "https://example.com/2.mp4"})
		defer viper.Set(key.PlaylistPresets, nil)

		p, err := Presets().Playlist(context.Background())
		So(err, ShouldBeNil)
		So(p.Len(), ShouldEqual, 2)
		So(p.Name, ShouldEqual, "presets")

		Convey("Without presets the source is empty", func() {
			viper.Set(key.PlaylistPresets, []string{})
			_, err := Presets().Playlist(context.Background())
			So(errors.Is(err, ErrEmpty), ShouldBeTrue)
		})
	})
}

func TestFiles(t *testing.T) {
	Convey("Given a folder and loose arguments", t, func() {
		fs := filesystem.API()
		So(fs.WriteFile("/videos/trip/b.mp4", []byte{0}, 0o644), ShouldBeNil)
		So(fs.WriteFile("/videos/trip/a.mkv", []byte{0}, 0o644), ShouldBeNil)
		So(fs.WriteFile("/videos/trip/readme.md", []byte{0}, 0o644), ShouldBeNil)

		browser := library.NewBrowser(fs.Fs, library.Options{Extensions: []string{".mp4", ".mkv"}, Sort: library.SortName})

		Convey("Directories expand in order between other arguments", func() {
			p, err := NewFiles(browser, "https://example.com/x.mp4", "/videos/trip", "/videos/missing.mp4").Playlist(context.Background())
			So(err, ShouldBeNil)
			So(p.Len(), ShouldEqual, 4)
			So(p.Get(0).Locator, ShouldEqual, "https://example.com/x.mp4")
			So(p.Get(1).Locator, ShouldEqual, "/videos/trip/a.mkv")
			So(p.Get(2).Locator, ShouldEqual, "/videos/trip/b.mp4")
			So(p.Get(3).Locator, ShouldEqual, "/videos/missing.mp4")
		})

		Convey("A single argument names the playlist", func() {
			p, err := NewFiles(browser, "/videos/trip").Playlist(context.Background())
			So(err, ShouldBeNil)
			So(p.Name, ShouldEqual, "trip")
		})

		Convey("An empty directory is an empty playlist", func() {
			So(fs.MkdirAll("/videos/empty", 0o755), ShouldBeNil)
			_, err := NewFiles(browser, "/videos/empty").Playlist(context.Background())
			So(errors.Is(err, ErrEmpty), ShouldBeTrue)
		})
	})
}

func TestLua(t *testing.T) {
	Convey("Given a playlist script", t, func() {
		path := filepath.Join(where.Playlists(), "demo.lua")
		So(filesystem.API().WriteFile(path, []byte(`
function Playlist()
	return {
		{ url = "https://example.com/a.mp4", title = "A", headers = { Referer = "https://example.com" } },
		{ url = "https://example.com/b.mp4", mime = "video/mp4", id = "b", drm = { scheme = "widevine", license_url = "https://lic.example.com" } },
	}
end
`), 0o644), ShouldBeNil)

		Convey("It is found by name", func() {
			src, err := FindLua("demo")
			So(err, ShouldBeNil)
			So(src.Name(), ShouldEqual, "demo")

			p, err := src.Playlist(context.Background())
			So(err, ShouldBeNil)
			So(p.Len(), ShouldEqual, 2)
			So(p.Get(0).DisplayTitle(), ShouldEqual, "A")
			So(p.Get(0).Headers["Referer"], ShouldEqual, "https://example.com")
			So(p.Get(1).ID, ShouldEqual, "b")
			So(p.Get(1).MimeType, ShouldEqual, "video/mp4")
			So(p.Get(1).DRM.MustGet().Scheme, ShouldEqual, "widevine")
		})

		Convey("It is listed as installed", func() {
			scripts, err := Installed()
			So(err, ShouldBeNil)
			So(scripts, ShouldNotBeEmpty)
		})

		Convey("A missing script is reported", func() {
			_, err := FindLua("nope")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a script without the entry point", t, func() {
		path := filepath.Join(where.Playlists(), "broken.lua")
		So(filesystem.API().WriteFile(path, []byte(`x = 1`), 0o644), ShouldBeNil)

		_, err := NewLua(path).Playlist(context.Background())
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "Playlist")
	})

	Convey("Given a script returning invalid items", t, func() {
		path := filepath.Join(where.Playlists(), "invalid.lua")
		So(filesystem.API().WriteFile(path, []byte(`function Playlist() return { { title = "no url" }, 3 } end`), 0o644), ShouldBeNil)

		_, err := NewLua(path).Playlist(context.Background())
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "url is required")
	})
}
