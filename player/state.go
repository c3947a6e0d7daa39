// Package player implements the playback state machine that sits between the UI and an engine.
//
// A Store holds one PlaybackState per session. Engine events are folded in by the pure
// Reduce function and user commands are forwarded to the engine. The UI only ever sees
// UiState values built by Project.
package player

import (
	"github.com/vlog-app/vlog/engine"
)

// PlaybackState is the store's view of the engine. Times are in milliseconds.
type PlaybackState struct {
	State            engine.State
	Position         int64
	Duration         int64
	BufferedPosition int64
	Volume           int
	Speed            float64
	Playing          bool
	Loaded           bool
	Index            int
	Count            int
	Title            string
	Tracks           []engine.Track
	Error            string
}

// InitialState is the state of a store with nothing loaded.
func InitialState() PlaybackState {
	return PlaybackState{
		State:  engine.StateIdle,
		Volume: 100,
		Speed:  1,
	}
}

// Loading is true while the engine is buffering.
func (s PlaybackState) Loading() bool {
	return s.State == engine.StateBuffering
}

// Orientation is the requested screen orientation.
type Orientation int

const (
	OrientationSystemDefault Orientation = iota
	OrientationPortrait
	OrientationLandscape
)

func (o Orientation) String() string {
	switch o {
	case OrientationPortrait:
		return "portrait"
	case OrientationLandscape:
		return "landscape"
	default:
		return "system"
	}
}

// Resize is how the video fills the viewport.
type Resize int

const (
	ResizeFit Resize = iota
	ResizeZoom
)

func (r Resize) String() string {
	if r == ResizeZoom {
		return "zoom"
	}
	return "fit"
}

// Toggles are the UI-only switches of the player screen.
type Toggles struct {
	Fullscreen  bool
	Orientation Orientation
	Locked      bool
	Resize      Resize
}

// UiState is everything the player screen renders.
type UiState struct {
	Playing          bool
	Loading          bool
	Ended            bool
	Position         int64
	Duration         int64
	BufferedPosition int64
	Speed            float64
	Volume           int
	Error            string
	Title            string
	Index            int
	Count            int
	HasNext          bool
	HasPrevious      bool
	Tracks           []engine.Track

	Toggles
}

// Project derives the UI state from the playback state and toggles.
func Project(state PlaybackState, toggles Toggles) UiState {
	return UiState{
		Playing:          state.Playing,
		Loading:          state.Loading(),
		Ended:            state.State == engine.StateEnded,
		Position:         state.Position,
		Duration:         state.Duration,
		BufferedPosition: state.BufferedPosition,
		Speed:            state.Speed,
		Volume:           state.Volume,
		Error:            state.Error,
		Title:            state.Title,
		Index:            state.Index,
		Count:            state.Count,
		HasNext:          state.Loaded && state.Index+1 < state.Count,
		HasPrevious:      state.Loaded && state.Index > 0,
		Tracks:           state.Tracks,
		Toggles:          toggles,
	}
}

// Progress is the played fraction in [0, 1].
func (u UiState) Progress() float64 {
	if u.Duration <= 0 {
		return 0
	}
	return min(max(float64(u.Position)/float64(u.Duration), 0), 1)
}

// Buffered is the buffered fraction in [0, 1].
func (u UiState) Buffered() float64 {
	if u.Duration <= 0 {
		return 0
	}
	return min(max(float64(u.BufferedPosition)/float64(u.Duration), 0), 1)
}
