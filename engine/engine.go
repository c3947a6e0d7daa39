// Package engine adapts external playback engines to a small command and event interface.
//
// An Engine is owned by a single player session. Commands are plain method calls and
// every change the engine observes is reported on the Events channel, which is closed
// once the engine goes away.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/vlog-app/vlog/media"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("engine closed")

// State is the playback lifecycle reported by the engine.
type State int

const (
	StateIdle State = iota
	StateBuffering
	StateReady
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuffering:
		return "buffering"
	case StateReady:
		return "ready"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Kind discriminates Event payloads.
type Kind int

const (
	IsPlayingChanged Kind = iota + 1
	PlaybackStateChanged
	PositionDiscontinuity
	DurationChanged
	TracksChanged
	MediaItemTransition
	Error
)

func (k Kind) String() string {
	switch k {
	case IsPlayingChanged:
		return "is-playing-changed"
	case PlaybackStateChanged:
		return "playback-state-changed"
	case PositionDiscontinuity:
		return "position-discontinuity"
	case DurationChanged:
		return "duration-changed"
	case TracksChanged:
		return "tracks-changed"
	case MediaItemTransition:
		return "media-item-transition"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a change reported by the engine. Only the fields relevant to Kind are set.
// Times are in milliseconds.
type Event struct {
	Kind     Kind
	Playing  bool
	State    State
	Position int64
	Duration int64
	Index    int
	Tracks   []Track
	Err      error
}

// TrackKind is the type of an elementary stream.
type TrackKind string

const (
	TrackVideo    TrackKind = "video"
	TrackAudio    TrackKind = "audio"
	TrackSubtitle TrackKind = "sub"
)

// Track is one selectable stream of the current media.
type Track struct {
	ID       int       `json:"id"`
	Kind     TrackKind `json:"type"`
	Language string    `json:"lang,omitempty"`
	Title    string    `json:"title,omitempty"`
	Selected bool      `json:"selected"`
}

// Label renders the track for selection menus.
func (t Track) Label() string {
	label := fmt.Sprintf("#%d", t.ID)
	if t.Language != "" {
		label += " " + t.Language
	}
	if t.Title != "" {
		label += " " + t.Title
	}
	return label
}

// Engine is a black-box media engine. Implementations are not required to be safe
// for concurrent command calls; Position, Duration and BufferedPosition must be cheap.
type Engine interface {
	// Load replaces the engine playlist and prepares the item at start.
	Load(items []media.Reference, start int) error
	Play() error
	Pause() error
	// SeekTo jumps to an absolute position in milliseconds.
	SeekTo(position int64) error
	Next() error
	Previous() error
	SetSpeed(speed float64) error
	SetVolume(volume int) error
	// SetZoom switches between fitting and filling the viewport.
	SetZoom(zoom bool) error
	// SelectTrack selects a track by id; a negative id disables the kind.
	SelectTrack(kind TrackKind, id int) error
	Position() int64
	Duration() int64
	BufferedPosition() int64
	Events() <-chan Event
	Close() error
}

// Factory acquires a fresh engine for one session.
type Factory func(ctx context.Context) (Engine, error)
