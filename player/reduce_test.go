package player

import (
	"errors"
	"math/rand"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/engine"
)

func randomEvent(r *rand.Rand) engine.Event {
	switch r.Intn(7) {
	case 0:
		return engine.Event{Kind: engine.IsPlayingChanged, Playing: r.Intn(2) == 0}
	case 1:
		return engine.Event{Kind: engine.PlaybackStateChanged, State: engine.State(r.Intn(4)), Duration: r.Int63n(200_000)}
	case 2:
		return engine.Event{Kind: engine.PositionDiscontinuity, Position: r.Int63n(300_000) - 50_000}
	case 3:
		return engine.Event{Kind: engine.DurationChanged, Duration: r.Int63n(200_000) - 10_000}
	case 4:
		return engine.Event{Kind: engine.TracksChanged, Tracks: []engine.Track{{ID: 1, Kind: engine.TrackAudio}}}
	case 5:
		return engine.Event{Kind: engine.MediaItemTransition, Index: r.Intn(3)}
	default:
		return engine.Event{Kind: engine.Error, Err: errors.New("decoder failed")}
	}
}

func TestReduceLoading(t *testing.T) {
	Convey("For random event sequences", t, func() {
		r := rand.New(rand.NewSource(42))

		for run := 0; run < 200; run++ {
			state := InitialState()
			state.Loaded = true
			loading := false

			for i := 0; i < 50; i++ {
				ev := randomEvent(r)
				state = Reduce(state, ev)

				switch ev.Kind {
				case engine.PlaybackStateChanged:
					loading = ev.State == engine.StateBuffering
				case engine.Error:
					loading = false
				}

				if Project(state, Toggles{}).Loading != loading {
					So(Project(state, Toggles{}).Loading, ShouldEqual, loading)
				}
				if state.Position < 0 || (state.Duration > 0 && state.Position > state.Duration) {
					So(state.Position, ShouldBeBetweenOrEqual, 0, state.Duration)
				}
				if state.Duration < 0 {
					So(state.Duration, ShouldBeGreaterThanOrEqualTo, 0)
				}
			}
		}

		So(true, ShouldBeTrue)
	})
}

func TestReduce(t *testing.T) {
	Convey("Given a loaded state", t, func() {
		state := InitialState()
		state.Loaded = true

		Convey("Ready records a known duration", func() {
			state = Reduce(state, engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: 90_000})
			So(state.Duration, ShouldEqual, 90_000)

			Convey("Ended stops playback at the end", func() {
				state.Playing = true
				state = Reduce(state, engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateEnded})
				So(state.Playing, ShouldBeFalse)
				So(state.Position, ShouldEqual, 90_000)
				So(Project(state, Toggles{}).Ended, ShouldBeTrue)
			})

			Convey("Discontinuities are clamped", func() {
				state = Reduce(state, engine.Event{Kind: engine.PositionDiscontinuity, Position: 100_000})
				So(state.Position, ShouldEqual, 90_000)
				state = Reduce(state, engine.Event{Kind: engine.PositionDiscontinuity, Position: -1})
				So(state.Position, ShouldEqual, 0)
			})
		})

		Convey("Ready with a shorter duration clamps the position", func() {
			state = Reduce(state, engine.Event{Kind: engine.PositionDiscontinuity, Position: 150_000})
			So(state.Position, ShouldEqual, 150_000)

			state = Reduce(state, engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: 120_000})
			So(state.Duration, ShouldEqual, 120_000)
			So(state.Position, ShouldEqual, 120_000)
		})

		Convey("Negative durations normalise to zero", func() {
			state = Reduce(state, engine.Event{Kind: engine.DurationChanged, Duration: -5})
			So(state.Duration, ShouldEqual, 0)
		})

		Convey("Playing requires loaded media", func() {
			state.Loaded = false
			state = Reduce(state, engine.Event{Kind: engine.IsPlayingChanged, Playing: true})
			So(state.Playing, ShouldBeFalse)
		})

		Convey("Errors stop playback and clear loading", func() {
			state.Playing = true
			state = Reduce(state, engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateBuffering})
			So(state.Loading(), ShouldBeTrue)

			state = Reduce(state, engine.Event{Kind: engine.Error, Err: errors.New("network unreachable")})
			So(state.Loading(), ShouldBeFalse)
			So(state.Playing, ShouldBeFalse)
			So(state.Error, ShouldEqual, "network unreachable")

			Convey("A new item clears the error", func() {
				state = Reduce(state, engine.Event{Kind: engine.MediaItemTransition, Index: 1})
				So(state.Error, ShouldBeEmpty)
				So(state.Index, ShouldEqual, 1)
			})
		})

		Convey("Reduce does not alias the event's tracks", func() {
			tracks := []engine.Track{{ID: 1, Kind: engine.TrackSubtitle}}
			state = Reduce(state, engine.Event{Kind: engine.TracksChanged, Tracks: tracks})
			tracks[0].ID = 7
			So(state.Tracks[0].ID, ShouldEqual, 1)
		})
	})
}

func TestUiState(t *testing.T) {
	Convey("Project reports navigation and fractions", t, func() {
		state := InitialState()
		state.Loaded = true
		state.Index, state.Count = 1, 3
		state.Position, state.Duration, state.BufferedPosition = 30_000, 120_000, 60_000

		ui := Project(state, Toggles{Locked: true})
		So(ui.HasNext, ShouldBeTrue)
		So(ui.HasPrevious, ShouldBeTrue)
		So(ui.Locked, ShouldBeTrue)
		So(ui.Progress(), ShouldEqual, 0.25)
		So(ui.Buffered(), ShouldEqual, 0.5)

		state.Duration = 0
		So(Project(state, Toggles{}).Progress(), ShouldEqual, 0)
	})
}
