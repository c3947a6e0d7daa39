package player

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vlog-app/vlog/engine"
)

type outcome struct {
	result Result
	err    error
}

func start(ctx context.Context, session *Session) <-chan outcome {
	out := make(chan outcome, 1)
	go func() {
		result, err := session.Run(ctx)
		out <- outcome{result, err}
	}()
	return out
}

// waitFor reads updates until one satisfies cond.
func waitFor(session *Session, cond func(UiState) bool) bool {
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ui, ok := <-session.Updates():
			if !ok {
				return false
			}
			if cond(ui) {
				return true
			}
		case <-timeout:
			return false
		}
	}
}

func TestSession(t *testing.T) {
	Convey("Given a session over a fake engine", t, func() {
		fake := engine.NewFake()
		options := Options{SampleInterval: 5 * time.Millisecond, Autoplay: true}
		session := NewSession(engine.FakeFactory(fake), testPlaylist("https://example.com/a.mp4"), 0, options)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		out := start(ctx, session)

		So(waitFor(session, func(ui UiState) bool { return ui.Playing }), ShouldBeTrue)

		Convey("Sampling publishes engine positions while playing", func() {
			fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: 120_000})
			fake.SetTimeline(7_000, 120_000, 20_000)
			So(waitFor(session, func(ui UiState) bool { return ui.Position == 7_000 }), ShouldBeTrue)

			Convey("Commands run on the session goroutine", func() {
				So(session.Send(func(s *Store) { s.Pause() }), ShouldBeTrue)
				So(waitFor(session, func(ui UiState) bool { return !ui.Playing }), ShouldBeTrue)
			})
		})

		Convey("Reaching the end finishes with completion", func() {
			fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: 120_000})
			fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateEnded})

			o := <-out
			So(o.err, ShouldBeNil)
			So(o.result.EndBy, ShouldEqual, EndByCompletion)
			So(fake.Closes(), ShouldEqual, 1)
		})

		Convey("Cancelling the context releases the engine once", func() {
			session.Send(func(s *Store) { s.Pause() })
			cancel()

			o := <-out
			So(o.err, ShouldBeNil)
			So(o.result.EndBy, ShouldEqual, EndByUser)
			So(fake.Closes(), ShouldEqual, 1)

			Convey("Nothing can be sent afterwards", func() {
				So(session.Send(func(*Store) {}), ShouldBeFalse)
				<-session.Done()
			})
		})

		Convey("Finishing from a command ends the run", func() {
			session.Send(func(s *Store) { s.Finish() })

			o := <-out
			So(o.result.EndBy, ShouldEqual, EndByUser)
			So(o.result.Position.IsPresent(), ShouldBeTrue)
			So(fake.Closes(), ShouldEqual, 1)
		})
	})
}

func TestSessionFailures(t *testing.T) {
	Convey("An engine that cannot start is reported", t, func() {
		factory := func(context.Context) (engine.Engine, error) { return nil, errors.New("mpv not found") }
		session := NewSession(factory, testPlaylist("https://example.com/a.mp4"), 0, Options{})

		_, err := session.Run(context.Background())
		So(errors.Is(err, ErrEngine), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "mpv not found")
	})

	Convey("A playlist that cannot load releases the engine", t, func() {
		fake := engine.NewFake()
		session := NewSession(engine.FakeFactory(fake), testPlaylist(""), 0, Options{})

		_, err := session.Run(context.Background())
		So(errors.Is(err, ErrMediaLoad), ShouldBeTrue)
		So(fake.Closes(), ShouldEqual, 1)
	})

	Convey("Failed items are skipped when errors are dismissed automatically", t, func() {
		fake := engine.NewFake()
		session := NewSession(engine.FakeFactory(fake), testPlaylist("https://example.com/a.mp4", "https://example.com/b.mp4"), 0, Options{Autoplay: true})
		session.DismissErrors = true
		out := start(context.Background(), session)

		fake.Emit(engine.Event{Kind: engine.Error, Err: errors.New("404")})
		So(waitFor(session, func(ui UiState) bool { return ui.Index == 1 }), ShouldBeTrue)

		fake.Emit(engine.Event{Kind: engine.Error, Err: errors.New("404")})
		o := <-out
		So(o.err, ShouldBeNil)
		So(o.result.EndBy, ShouldEqual, EndByCompletion)
		So(o.result.Index, ShouldEqual, 1)
	})

	Convey("An unresolvable item in the middle is skipped", t, func() {
		fake := engine.NewFake()
		pl := testPlaylist("https://example.com/a.mp4", "/missing.mp4", "https://example.com/b.mp4")
		session := NewSession(engine.FakeFactory(fake), pl, 0, Options{Autoplay: true})
		session.DismissErrors = true
		out := start(context.Background(), session)

		So(waitFor(session, func(ui UiState) bool { return ui.Playing }), ShouldBeTrue)
		So(fake.Items(), ShouldHaveLength, 3)

		fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: 60_000})
		fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateEnded})
		So(waitFor(session, func(ui UiState) bool { return ui.Index == 2 && ui.Playing }), ShouldBeTrue)

		fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateReady, Duration: 60_000})
		fake.Emit(engine.Event{Kind: engine.PlaybackStateChanged, State: engine.StateEnded})

		o := <-out
		So(o.err, ShouldBeNil)
		So(o.result.EndBy, ShouldEqual, EndByCompletion)
		So(o.result.Index, ShouldEqual, 2)
	})
}
