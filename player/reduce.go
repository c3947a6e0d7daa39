package player

import (
	"github.com/vlog-app/vlog/engine"
)

// Reduce folds one engine event into the playback state. It has no side effects.
func Reduce(s PlaybackState, ev engine.Event) PlaybackState {
	switch ev.Kind {
	case engine.IsPlayingChanged:
		s.Playing = ev.Playing && s.Loaded

	case engine.PlaybackStateChanged:
		s.State = ev.State
		switch ev.State {
		case engine.StateReady:
			if ev.Duration > 0 {
				s.Duration = ev.Duration
			}
			s.Position = clampPosition(s.Position, s.Duration)
		case engine.StateEnded:
			s.Playing = false
			if s.Duration > 0 {
				s.Position = s.Duration
			}
		case engine.StateIdle:
			s.Playing = false
		}

	case engine.PositionDiscontinuity:
		s.Position = clampPosition(ev.Position, s.Duration)

	case engine.DurationChanged:
		s.Duration = max(ev.Duration, 0)
		s.Position = clampPosition(s.Position, s.Duration)

	case engine.TracksChanged:
		s.Tracks = append([]engine.Track(nil), ev.Tracks...)

	case engine.MediaItemTransition:
		s.Index = ev.Index
		s.Position, s.Duration, s.BufferedPosition = 0, 0, 0
		s.Tracks = nil
		s.Error = ""

	case engine.Error:
		s.Error = "unknown playback error"
		if ev.Err != nil {
			s.Error = ev.Err.Error()
		}
		s.Playing = false
		s.State = engine.StateIdle
	}

	return s
}

// clampPosition bounds position to [0, duration]; an unknown duration only bounds below.
func clampPosition(position, duration int64) int64 {
	position = max(position, 0)
	if duration > 0 {
		position = min(position, duration)
	}
	return position
}
