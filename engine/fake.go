package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/vlog-app/vlog/media"
)

// Fake is an in-memory Engine. Commands are recorded and navigation emits the
// transitions a real engine would; every other event is pushed with Emit.
type Fake struct {
	mu       sync.Mutex
	calls    []string
	items    []media.Reference
	index    int
	position int64
	duration int64
	buffered int64
	closes   int
	closed   bool
	// FailWith makes every subsequent command fail.
	FailWith error

	events chan Event
}

// NewFake returns an idle fake engine.
func NewFake() *Fake {
	return &Fake{events: make(chan Event, 256)}
}

// FakeFactory always hands out the given fake.
func FakeFactory(f *Fake) Factory {
	return func(context.Context) (Engine, error) { return f, nil }
}

func (f *Fake) record(format string, args ...any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.FailWith
}

// Calls returns the commands received so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Closes reports how many times Close has been called.
func (f *Fake) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Items returns the playlist last passed to Load.
func (f *Fake) Items() []media.Reference {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items
}

// Emit publishes ev as if the engine reported it. Dropped after Close.
func (f *Fake) Emit(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.events <- ev
	}
}

// SetTimeline sets the values returned by Position, Duration and BufferedPosition.
func (f *Fake) SetTimeline(position, duration, buffered int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position, f.duration, f.buffered = position, duration, buffered
}

func (f *Fake) transition(index int) {
	f.mu.Lock()
	f.index = index
	f.position, f.duration, f.buffered = 0, 0, 0
	f.mu.Unlock()
	f.Emit(Event{Kind: MediaItemTransition, Index: index})
}

func (f *Fake) Load(items []media.Reference, start int) error {
	if err := f.record("load %d %d", len(items), start); err != nil {
		return err
	}
	f.mu.Lock()
	f.items = append([]media.Reference(nil), items...)
	f.mu.Unlock()
	f.transition(start)
	return nil
}

func (f *Fake) Play() error  { return f.record("play") }
func (f *Fake) Pause() error { return f.record("pause") }

func (f *Fake) SeekTo(position int64) error {
	if err := f.record("seek %d", position); err != nil {
		return err
	}
	f.mu.Lock()
	f.position = position
	f.mu.Unlock()
	return nil
}

func (f *Fake) Next() error {
	if err := f.record("next"); err != nil {
		return err
	}
	f.mu.Lock()
	next, ok := f.index+1, f.index+1 < len(f.items)
	f.mu.Unlock()
	if ok {
		f.transition(next)
	}
	return nil
}

func (f *Fake) Previous() error {
	if err := f.record("previous"); err != nil {
		return err
	}
	f.mu.Lock()
	prev, ok := f.index-1, f.index > 0
	f.mu.Unlock()
	if ok {
		f.transition(prev)
	}
	return nil
}

func (f *Fake) SetSpeed(speed float64) error          { return f.record("speed %.2f", speed) }
func (f *Fake) SetVolume(volume int) error            { return f.record("volume %d", volume) }
func (f *Fake) SetZoom(zoom bool) error               { return f.record("zoom %t", zoom) }
func (f *Fake) SelectTrack(k TrackKind, id int) error { return f.record("track %s %d", k, id) }

func (f *Fake) Position() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *Fake) Duration() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *Fake) BufferedPosition() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buffered
}

func (f *Fake) Events() <-chan Event { return f.events }

// Close closes the events channel on the first call and counts every call.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}
