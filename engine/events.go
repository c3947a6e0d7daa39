package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vlog-app/vlog/log"
)

// ErrPlayback wraps failures reported by the engine while playing.
var ErrPlayback = errors.New("playback failed")

// observed are the mpv properties the listener subscribes to, in observe id order.
var observed = []string{
	"core-idle",
	"paused-for-cache",
	"eof-reached",
	"idle-active",
	"duration",
	"time-pos",
	"demuxer-cache-time",
	"track-list",
	"playlist-pos",
}

// timeline caches the latest reported times so sampling never blocks on IPC.
type timeline struct {
	position atomic.Int64
	duration atomic.Int64
	buffered atomic.Int64
}

func (t *timeline) reset() {
	t.position.Store(0)
	t.duration.Store(0)
	t.buffered.Store(0)
}

func millis(data json.RawMessage) (int64, bool) {
	var seconds *float64
	if err := json.Unmarshal(data, &seconds); err != nil || seconds == nil {
		return 0, false
	}
	if math.IsNaN(*seconds) || *seconds < 0 {
		return 0, true
	}
	return int64(math.Round(*seconds * 1000)), true
}

// translator turns raw mpv messages into engine events.
type translator struct {
	timeline *timeline
	loaded   bool
	caching  bool
}

func (t *translator) translate(msg ipcMessage) []Event {
	switch msg.Event {
	case "property-change":
		return t.property(msg.Name, msg.Data)
	case "start-file":
		t.loaded = true
		t.timeline.reset()
		return []Event{{Kind: PlaybackStateChanged, State: StateBuffering}}
	case "seek":
		return []Event{{Kind: PlaybackStateChanged, State: StateBuffering}}
	case "playback-restart":
		if t.caching {
			return nil
		}
		return []Event{
			{Kind: PlaybackStateChanged, State: StateReady, Duration: t.timeline.duration.Load()},
			{Kind: PositionDiscontinuity, Position: t.timeline.position.Load()},
		}
	case "end-file":
		switch msg.Reason {
		case "eof":
			return []Event{{Kind: PlaybackStateChanged, State: StateEnded}}
		case "error":
			return []Event{{Kind: Error, Err: fmt.Errorf("%w: %s", ErrPlayback, msg.FileError)}}
		}
	}
	return nil
}

func (t *translator) property(name string, data json.RawMessage) []Event {
	switch name {
	case "core-idle":
		var idle bool
		if json.Unmarshal(data, &idle) != nil {
			return nil
		}
		return []Event{{Kind: IsPlayingChanged, Playing: !idle && t.loaded}}
	case "paused-for-cache":
		var caching bool
		if json.Unmarshal(data, &caching) != nil || !t.loaded {
			return nil
		}
		t.caching = caching
		if caching {
			return []Event{{Kind: PlaybackStateChanged, State: StateBuffering}}
		}
		return []Event{{Kind: PlaybackStateChanged, State: StateReady, Duration: t.timeline.duration.Load()}}
	case "eof-reached":
		var eof bool
		if json.Unmarshal(data, &eof) != nil || !eof {
			return nil
		}
		return []Event{{Kind: PlaybackStateChanged, State: StateEnded}}
	case "idle-active":
		var idle bool
		if json.Unmarshal(data, &idle) != nil || !idle {
			return nil
		}
		t.loaded = false
		return []Event{{Kind: PlaybackStateChanged, State: StateIdle}}
	case "duration":
		ms, ok := millis(data)
		if !ok {
			return nil
		}
		t.timeline.duration.Store(ms)
		return []Event{{Kind: DurationChanged, Duration: ms}}
	case "time-pos":
		if ms, ok := millis(data); ok {
			t.timeline.position.Store(ms)
		}
	case "demuxer-cache-time":
		if ms, ok := millis(data); ok {
			t.timeline.buffered.Store(ms)
		}
	case "track-list":
		var tracks []Track
		if json.Unmarshal(data, &tracks) != nil {
			return nil
		}
		return []Event{{Kind: TracksChanged, Tracks: tracks}}
	case "playlist-pos":
		var index int
		if json.Unmarshal(data, &index) != nil || index < 0 {
			return nil
		}
		return []Event{{Kind: MediaItemTransition, Index: index}}
	}
	return nil
}

// listener owns the persistent IPC connection on which properties are observed.
// Observations are per connection, so the subscriptions are written on the same socket that is read.
type listener struct {
	conn       net.Conn
	translator translator
	events     chan Event
	stop       chan struct{}
	stopOnce   sync.Once
	// observe sees every event before it is published.
	observe func(Event)
}

func newListener(socketPath string, tl *timeline, observe func(Event)) (*listener, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, ipcCommand{Command: []any{"observe_property", i + 1, name}}); err != nil {
			conn.Close()
			return nil, fmt.Errorf("observe %s: %w", name, err)
		}
	}

	return &listener{
		conn:       conn,
		translator: translator{timeline: tl},
		events:     make(chan Event, 64),
		stop:       make(chan struct{}),
		observe:    observe,
	}, nil
}

// run reads until the connection fails or Close is called, then closes the events channel.
func (l *listener) run() {
	defer close(l.events)

	var lines lineSplitter
	buf := make([]byte, readBufSize)

	for {
		select {
		case <-l.stop:
			return
		default:
		}

		if err := l.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := l.conn.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			log.Debugf("mpv event listener stopped: %v", err)
			return
		}

		for _, line := range lines.feed(buf[:n]) {
			var msg ipcMessage
			if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
				continue
			}

			for _, ev := range l.translator.translate(msg) {
				if l.observe != nil {
					l.observe(ev)
				}
				select {
				case l.events <- ev:
				case <-l.stop:
					return
				}
			}
		}
	}
}

func (l *listener) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
		_ = l.conn.Close()
	})
}
