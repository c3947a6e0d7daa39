package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/player"
)

func init() {
	filesystem.SetMemMapFs()
}

func testBubble(fake *engine.Fake, roots ...string) *statefulBubble {
	fs := filesystem.API().Fs
	_ = afero.WriteFile(fs, "/videos/a.mp4", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "/videos/trip/b.mp4", []byte("b"), 0o644)
	_ = afero.WriteFile(fs, "/videos/notes.txt", []byte("c"), 0o644)

	options := &Options{
		Engine: engine.FakeFactory(fake),
		Player: &player.Options{SampleInterval: 10 * time.Millisecond},
	}
	browser := library.NewBrowser(fs, library.Options{
		Roots:      roots,
		Extensions: []string{".mp4"},
		Sort:       library.SortName,
	})
	return newBubble(options, browser)
}

func TestBubble(t *testing.T) {
	Convey("Given a bubble over a library with two videos", t, func() {
		fake := engine.NewFake()
		b := testBubble(fake, "/videos")
		b.Init()
		So(b.state, ShouldEqual, loadingState)

		Convey("Granted access shows the videos tab", func() {
			b.Update(b.checkPermission()())
			So(b.state, ShouldEqual, videosState)

			b.Update(b.loadVideos()())
			So(b.videosC.Items(), ShouldHaveLength, 2)

			Convey("Tab cycles through the browsing tabs", func() {
				b.Update(tea.KeyMsg{Type: tea.KeyTab})
				So(b.state, ShouldEqual, foldersState)
				b.Update(tea.KeyMsg{Type: tea.KeyTab})
				So(b.state, ShouldEqual, historyState)
				b.Update(tea.KeyMsg{Type: tea.KeyTab})
				So(b.state, ShouldEqual, videosState)
			})

			Convey("Opening a folder lists its videos", func() {
				b.Update(b.loadFolder("/videos/trip")())
				So(b.state, ShouldEqual, folderVideosState)
				So(b.folderVideosC.Items(), ShouldHaveLength, 1)

				b.Update(tea.KeyMsg{Type: tea.KeyEsc})
				So(b.state, ShouldEqual, videosState)
			})

			Convey("Enter plays the selected video and stopping releases the engine", func() {
				b.Update(tea.KeyMsg{Type: tea.KeyEnter})
				So(b.state, ShouldEqual, playerState)
				So(b.session, ShouldNotBeNil)
				So(b.playerUi.Count, ShouldEqual, 2)

				b.stopSession()
				So(b.session, ShouldBeNil)
				So(fake.Closes(), ShouldEqual, 1)
			})
		})

		Convey("Denied access shows the permission screen", func() {
			b := testBubble(fake, "/videos", "/locked")
			b.Update(b.checkPermission()())
			So(b.state, ShouldEqual, permissionState)
			So(b.lastError, ShouldNotBeNil)
			So(b.View(), ShouldContainSubstring, "/locked")
		})
	})
}

func TestNextTrack(t *testing.T) {
	Convey("Given two audio tracks and one subtitle track", t, func() {
		tracks := []engine.Track{
			{ID: 1, Kind: engine.TrackAudio, Selected: true},
			{ID: 2, Kind: engine.TrackAudio},
			{ID: 1, Kind: engine.TrackSubtitle},
		}

		Convey("Audio cycles between its tracks", func() {
			id, ok := nextTrack(tracks, engine.TrackAudio, false)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)

			tracks[0].Selected, tracks[1].Selected = false, true
			id, _ = nextTrack(tracks, engine.TrackAudio, false)
			So(id, ShouldEqual, 1)
		})

		Convey("Subtitles pass through off", func() {
			id, ok := nextTrack(tracks, engine.TrackSubtitle, true)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 1)

			tracks[2].Selected = true
			id, _ = nextTrack(tracks, engine.TrackSubtitle, true)
			So(id, ShouldEqual, -1)
		})

		Convey("Video has nothing to cycle", func() {
			_, ok := nextTrack(tracks, engine.TrackVideo, false)
			So(ok, ShouldBeFalse)
		})
	})
}
