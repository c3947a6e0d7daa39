package player

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/playlist"
)

func init() {
	filesystem.SetMemMapFs()
}

type memoryPositions map[string]int64

func (m memoryPositions) Resume(ref media.Reference) (int64, bool) {
	pos, ok := m[ref.ID]
	return pos, ok
}

func (m memoryPositions) Remember(ref media.Reference, position, _ int64) {
	m[ref.ID] = position
}

func testPlaylist(locators ...string) playlist.Playlist {
	return playlist.New("test", lo.Map(locators, func(l string, _ int) media.Reference {
		return media.NewReference(l)
	})...)
}

// pump applies every event the fake has queued.
func pump(s *Store, f *engine.Fake) {
	for {
		select {
		case ev, ok := <-f.Events():
			if !ok {
				return
			}
			s.HandleEvent(ev)
		default:
			return
		}
	}
}

func ready(s *Store, duration int64) {
	s.HandleEvent(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: duration})
}

func ended(s *Store) {
	s.HandleEvent(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateEnded})
}

func TestStoreSeek(t *testing.T) {
	Convey("Given a store playing one remote video", t, func() {
		fake := engine.NewFake()
		store := NewStore(fake, testPlaylist("https://example.com/a.mp4"), Options{})
		So(store.Open(0), ShouldBeNil)
		pump(store, fake)

		So(store.State().Loading(), ShouldBeTrue)
		So(store.State().Title, ShouldEqual, "a")

		store.Play()
		So(store.State().Playing, ShouldBeTrue)

		Convey("When the engine is ready with a duration of two minutes", func() {
			ready(store, 120_000)
			So(store.Ui().Loading, ShouldBeFalse)

			Convey("Seeking past the end clamps to the duration", func() {
				store.Seek(150_000)
				So(store.State().Position, ShouldEqual, 120_000)
				So(fake.Calls(), ShouldContain, "seek 120000")
			})

			Convey("Seeking before the start clamps to zero", func() {
				store.Seek(-1_000)
				So(store.State().Position, ShouldEqual, 0)
			})

			Convey("Seeking inside the range is idempotent", func() {
				store.Seek(60_000)
				first := store.State()
				store.Seek(60_000)
				So(store.State().Position, ShouldEqual, first.Position)
				So(store.State().Duration, ShouldEqual, first.Duration)
			})

			Convey("Relative seeks use the seek increment", func() {
				store.Seek(30_000)
				store.Forward()
				So(store.State().Position, ShouldEqual, 40_000)
				store.Rewind()
				store.Rewind()
				So(store.State().Position, ShouldEqual, 20_000)
			})
		})

		Convey("Seeking before the duration is known", func() {
			store.Seek(200_000)

			Convey("The position is accepted optimistically", func() {
				So(store.State().Position, ShouldEqual, 200_000)
			})

			Convey("Ready clamps it and re-issues the seek", func() {
				ready(store, 120_000)
				So(store.State().Position, ShouldEqual, 120_000)
				calls := fake.Calls()
				So(calls[len(calls)-1], ShouldEqual, "seek 120000")
			})
		})
	})
}

func TestStoreSampling(t *testing.T) {
	Convey("Given a playing store", t, func() {
		fake := engine.NewFake()
		store := NewStore(fake, testPlaylist("https://example.com/a.mp4"), Options{Autoplay: true})
		So(store.Open(0), ShouldBeNil)
		pump(store, fake)
		ready(store, 120_000)

		So(store.Sampling(), ShouldBeTrue)
		ticket := store.Ticket()

		fake.SetTimeline(5_000, 120_000, 30_000)
		So(store.Sample(ticket), ShouldBeTrue)
		So(store.State().Position, ShouldEqual, 5_000)
		So(store.State().BufferedPosition, ShouldEqual, 30_000)

		Convey("After a pause no position updates are applied", func() {
			store.Pause()
			So(store.Sampling(), ShouldBeFalse)

			fake.SetTimeline(9_000, 120_000, 30_000)
			So(store.Sample(ticket), ShouldBeFalse)
			So(store.Sample(store.Ticket()), ShouldBeFalse)
			So(store.State().Position, ShouldEqual, 5_000)

			Convey("Resuming starts a new sampling run", func() {
				store.Play()
				So(store.Ticket(), ShouldNotEqual, ticket)
				So(store.Sample(ticket), ShouldBeFalse)
				So(store.Sample(store.Ticket()), ShouldBeTrue)
				So(store.State().Position, ShouldEqual, 9_000)
			})
		})

		Convey("An unknown duration from the engine keeps the last known one", func() {
			fake.SetTimeline(8_000, 0, 30_000)
			So(store.Sample(ticket), ShouldBeTrue)
			So(store.State().Duration, ShouldEqual, 120_000)
			So(store.State().Position, ShouldEqual, 8_000)
		})

		Convey("An engine error stops sampling", func() {
			store.HandleEvent(engine.Event{Kind: engine.Error, Err: errors.New("stream closed")})
			So(store.Sampling(), ShouldBeFalse)
			So(store.Ui().Error, ShouldEqual, "stream closed")
		})
	})
}

func TestStoreLoad(t *testing.T) {
	Convey("Given a fresh store", t, func() {
		fake := engine.NewFake()
		store := NewStore(fake, playlist.Playlist{}, Options{})

		Convey("Loading an invalid reference fails without reaching the engine", func() {
			for _, locator := range []string{"", "-fs", "ftp://example.com/a.mp4", "/no/such/file.mkv"} {
				err := store.Load(media.NewReference(locator))
				So(errors.Is(err, ErrMediaLoad), ShouldBeTrue)
				So(errors.Is(err, media.ErrUnresolvable), ShouldBeTrue)

				var loadErr *MediaLoadError
				So(errors.As(err, &loadErr), ShouldBeTrue)
			}

			So(fake.Calls(), ShouldBeEmpty)
			So(store.State().Loaded, ShouldBeFalse)
			So(store.State().State, ShouldEqual, engine.StateIdle)

			Convey("Commands are no-ops", func() {
				store.Play()
				store.Seek(1_000)
				So(fake.Calls(), ShouldBeEmpty)
				So(store.State().Playing, ShouldBeFalse)
			})
		})

		Convey("An invalid load leaves the current item untouched", func() {
			So(store.Load(media.NewReference("https://example.com/a.mp4")), ShouldBeNil)
			pump(store, fake)
			ready(store, 120_000)
			store.Seek(30_000)

			err := store.Load(media.NewReference(""))
			So(errors.Is(err, ErrMediaLoad), ShouldBeTrue)
			So(store.State().Position, ShouldEqual, 30_000)
			So(store.State().State, ShouldEqual, engine.StateReady)
			So(fake.Items(), ShouldHaveLength, 1)
		})

		Convey("A bad start item rejects the playlist", func() {
			err := store.LoadPlaylist(testPlaylist("https://example.com/a.mp4", ""), 1)

			var loadErr *MediaLoadError
			So(errors.As(err, &loadErr), ShouldBeTrue)
			So(loadErr.Index, ShouldEqual, 1)
			So(fake.Calls(), ShouldBeEmpty)
		})

		Convey("A bad later item is reported once it is reached", func() {
			store.options.Autoplay = true
			So(store.LoadPlaylist(testPlaylist("https://example.com/a.mp4", "/missing.mp4", "https://example.com/b.mp4"), 0), ShouldBeNil)
			pump(store, fake)
			So(fake.Items(), ShouldHaveLength, 3)
			So(store.Ui().Error, ShouldBeEmpty)

			ready(store, 60_000)
			ended(store)
			pump(store, fake)

			So(store.State().Index, ShouldEqual, 1)
			So(store.Ui().Error, ShouldContainSubstring, "missing.mp4")
			So(store.State().Playing, ShouldBeFalse)
			So(lo.Count(fake.Calls(), "play"), ShouldEqual, 1)

			Convey("Dismissing it moves on to the next good item", func() {
				store.DismissError()
				pump(store, fake)

				So(store.State().Index, ShouldEqual, 2)
				So(store.Ui().Error, ShouldBeEmpty)
				So(store.State().Playing, ShouldBeTrue)
			})
		})

		Convey("An empty playlist is rejected", func() {
			So(errors.Is(store.Open(0), playlist.ErrEmpty), ShouldBeTrue)
		})
	})
}

func TestStorePlaylist(t *testing.T) {
	Convey("Given a store with two items", t, func() {
		fake := engine.NewFake()
		store := NewStore(fake, testPlaylist("https://example.com/a.mp4", "https://example.com/b.mp4"), Options{Autoplay: true})
		So(store.Open(0), ShouldBeNil)
		pump(store, fake)
		ready(store, 60_000)

		So(store.Ui().HasNext, ShouldBeTrue)
		So(store.Ui().HasPrevious, ShouldBeFalse)

		Convey("The end of the first item advances to the second", func() {
			ended(store)
			pump(store, fake)

			So(store.State().Index, ShouldEqual, 1)
			So(store.State().Title, ShouldEqual, "b")
			So(store.State().Position, ShouldEqual, 0)
			So(store.Ui().Ended, ShouldBeFalse)
			So(store.State().Playing, ShouldBeTrue)

			_, done := store.Finished()
			So(done, ShouldBeFalse)

			Convey("The end of the last item finishes the session", func() {
				ready(store, 60_000)
				ended(store)

				result, done := store.Finished()
				So(done, ShouldBeTrue)
				So(result.EndBy, ShouldEqual, EndByCompletion)
				So(result.Index, ShouldEqual, 1)
				So(result.Position.IsAbsent(), ShouldBeTrue)
				So(store.Sampling(), ShouldBeFalse)
			})

			Convey("Previous near the start goes back an item", func() {
				store.Previous()
				pump(store, fake)
				So(store.State().Index, ShouldEqual, 0)
			})

			Convey("Previous later in the item restarts it", func() {
				ready(store, 60_000)
				store.Seek(20_000)
				store.Previous()
				pump(store, fake)
				So(store.State().Index, ShouldEqual, 1)
				So(store.State().Position, ShouldEqual, 0)
			})
		})

		Convey("Dismissing an error moves to the next item", func() {
			store.HandleEvent(engine.Event{Kind: engine.Error, Err: errors.New("bad stream")})
			store.DismissError()
			pump(store, fake)

			So(store.State().Index, ShouldEqual, 1)
			So(store.Ui().Error, ShouldBeEmpty)

			Convey("On the last item it finishes the session", func() {
				store.HandleEvent(engine.Event{Kind: engine.Error, Err: errors.New("bad stream")})
				store.DismissError()

				result, done := store.Finished()
				So(done, ShouldBeTrue)
				So(result.EndBy, ShouldEqual, EndByUser)
			})

			Convey("Skipping it on the last item completes the playlist", func() {
				store.HandleEvent(engine.Event{Kind: engine.Error, Err: errors.New("bad stream")})
				store.SkipError()

				result, done := store.Finished()
				So(done, ShouldBeTrue)
				So(result.EndBy, ShouldEqual, EndByCompletion)
				So(result.Index, ShouldEqual, 1)
			})
		})

		Convey("Next past the last item does nothing", func() {
			store.Next()
			pump(store, fake)
			store.Next()
			pump(store, fake)
			So(store.State().Index, ShouldEqual, 1)
			So(lo.Count(fake.Calls(), "next"), ShouldEqual, 1)
		})
	})
}

func TestStoreToggles(t *testing.T) {
	Convey("Given a loaded store", t, func() {
		fake := engine.NewFake()
		store := NewStore(fake, testPlaylist("https://example.com/a.mp4"), Options{})
		So(store.Open(0), ShouldBeNil)
		pump(store, fake)

		Convey("Fullscreen forces landscape and leaving it restores the default", func() {
			store.ToggleFullscreen()
			So(store.Ui().Fullscreen, ShouldBeTrue)
			So(store.Ui().Orientation, ShouldEqual, OrientationLandscape)

			store.ToggleFullscreen()
			So(store.Ui().Orientation, ShouldEqual, OrientationSystemDefault)
		})

		Convey("Orientation flips between portrait and landscape", func() {
			store.ToggleOrientation()
			So(store.Ui().Orientation, ShouldEqual, OrientationLandscape)
			store.ToggleOrientation()
			So(store.Ui().Orientation, ShouldEqual, OrientationPortrait)
		})

		Convey("Zoom is forwarded to the engine", func() {
			store.ToggleZoom()
			So(store.Ui().Resize, ShouldEqual, ResizeZoom)
			So(fake.Calls(), ShouldContain, "zoom true")
			store.ToggleZoom()
			So(store.Ui().Resize, ShouldEqual, ResizeFit)
		})

		Convey("Lock only changes the UI", func() {
			calls := len(fake.Calls())
			store.ToggleLock()
			So(store.Ui().Locked, ShouldBeTrue)
			So(fake.Calls(), ShouldHaveLength, calls)
		})

		Convey("Speed and volume are clamped", func() {
			store.SetSpeed(10)
			So(store.State().Speed, ShouldEqual, 4)
			So(fake.Calls(), ShouldContain, "speed 4.00")

			store.SetVolume(-3)
			So(store.State().Volume, ShouldEqual, 0)
		})

		Convey("Selecting a track marks it", func() {
			store.HandleEvent(engine.Event{Kind: engine.TracksChanged, Tracks: []engine.Track{
				{ID: 1, Kind: engine.TrackAudio, Selected: true},
				{ID: 2, Kind: engine.TrackAudio},
				{ID: 1, Kind: engine.TrackSubtitle},
			}})

			store.SelectTrack(engine.TrackAudio, 2)
			tracks := store.Ui().Tracks
			So(tracks[0].Selected, ShouldBeFalse)
			So(tracks[1].Selected, ShouldBeTrue)
			So(tracks[2].Selected, ShouldBeFalse)
		})

		Convey("Engine failures become errors", func() {
			fake.FailWith = errors.New("socket gone")
			store.Play()
			So(store.State().Playing, ShouldBeFalse)
			So(store.Ui().Error, ShouldContainSubstring, "socket gone")
		})
	})
}

func TestStoreResume(t *testing.T) {
	Convey("Given a saved position", t, func() {
		ref := media.NewReference("https://example.com/a.mp4")
		positions := memoryPositions{ref.ID: 45_000}

		fake := engine.NewFake()
		store := NewStore(fake, playlist.New("test", ref), Options{Positions: positions, Resume: true, Save: true})
		So(store.Open(0), ShouldBeNil)
		pump(store, fake)

		Convey("It is restored on the first ready", func() {
			So(store.State().Position, ShouldEqual, 0)
			ready(store, 120_000)
			So(store.State().Position, ShouldEqual, 45_000)
			So(fake.Calls(), ShouldContain, "seek 45000")

			Convey("Finishing saves the current position", func() {
				store.Seek(70_000)
				So(store.Close(), ShouldBeNil)
				So(positions[ref.ID], ShouldEqual, 70_000)
			})
		})
	})
}

func TestStoreClose(t *testing.T) {
	Convey("Play, pause and teardown release the engine once", t, func() {
		fake := engine.NewFake()
		store := NewStore(fake, testPlaylist("https://example.com/a.mp4"), Options{})
		So(store.Open(0), ShouldBeNil)
		pump(store, fake)
		ready(store, 120_000)

		store.Play()
		store.Pause()
		So(store.Close(), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		So(fake.Closes(), ShouldEqual, 1)
		So(store.Sampling(), ShouldBeFalse)

		result, done := store.Finished()
		So(done, ShouldBeTrue)
		So(result.EndBy, ShouldEqual, EndByUser)

		Convey("Commands after close are ignored", func() {
			calls := len(fake.Calls())
			store.Play()
			store.Seek(10)
			So(fake.Calls(), ShouldHaveLength, calls)
		})
	})
}

func TestResultJSON(t *testing.T) {
	Convey("Results omit what is unknown", t, func() {
		raw, err := json.Marshal(Result{EndBy: EndByCompletion, Index: 1})
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, `{"end_by":"playback_completion","index":1}`)

		raw, err = json.Marshal(Result{EndBy: EndByUser, Position: mo.Some[int64](5_000)})
		So(err, ShouldBeNil)
		So(string(raw), ShouldEqual, `{"end_by":"user","index":0,"position":5000}`)
	})
}
