package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/playlist"
	"github.com/vlog-app/vlog/util"
)

const (
	minSpeed = 0.25
	maxSpeed = 4.0
	// Previous restarts the current item instead when past this position.
	restartThreshold = 3_000
)

// Positions persists resume positions.
type Positions interface {
	Resume(ref media.Reference) (int64, bool)
	Remember(ref media.Reference, position, duration int64)
}

// Options tune a store.
type Options struct {
	SampleInterval time.Duration
	SeekIncrement  int64
	Autoplay       bool
	// Positions is consulted when Resume or Save is set.
	Positions Positions
	Resume    bool
	Save      bool
}

// OptionsFromConfig reads the player.* and history.* keys.
func OptionsFromConfig(positions Positions) Options {
	return Options{
		SampleInterval: time.Duration(viper.GetInt(key.PlayerSampleInterval)) * time.Millisecond,
		SeekIncrement:  viper.GetInt64(key.PlayerSeekIncrement),
		Autoplay:       viper.GetBool(key.PlayerAutoplay),
		Positions:      positions,
		Resume:         viper.GetBool(key.HistoryResume),
		Save:           viper.GetBool(key.HistorySave),
	}
}

type pendingSeek struct {
	target int64
	// issued is false for resume positions that have not been sent to the engine yet
	issued bool
}

// Store owns the playback state of one session. It is not safe for concurrent use:
// all methods must be called from the goroutine that owns the session.
type Store struct {
	engine   engine.Engine
	playlist playlist.Playlist
	options  Options

	state   PlaybackState
	toggles Toggles
	pending mo.Option[pendingSeek]
	// ticket changes whenever sampling starts or stops, invalidating queued ticks
	ticket   uint64
	finished mo.Option[Result]
	// playOnTransition resumes playback once the engine has moved to the next item
	playOnTransition bool
	// unresolved holds the items that failed to resolve, reported when reached
	unresolved map[int]error

	closeOnce sync.Once
	closeErr  error
	closed    bool
}

// NewStore creates a store that will play pl through eng.
func NewStore(eng engine.Engine, pl playlist.Playlist, options Options) *Store {
	if options.SampleInterval <= 0 {
		options.SampleInterval = time.Second
	}
	if options.SeekIncrement <= 0 {
		options.SeekIncrement = 10_000
	}

	return &Store{
		engine:   eng,
		playlist: pl,
		options:  options,
		state:    InitialState(),
	}
}

// State returns a copy of the playback state.
func (s *Store) State() PlaybackState { return s.state }

// Ui projects the current state for rendering.
func (s *Store) Ui() UiState { return Project(s.state, s.toggles) }

// Playlist returns the resolved playlist.
func (s *Store) Playlist() playlist.Playlist { return s.playlist }

// Options returns the effective options.
func (s *Store) Options() Options { return s.options }

// Ticket identifies the current sampling run.
func (s *Store) Ticket() uint64 { return s.ticket }

// Sampling reports whether periodic sampling should run.
func (s *Store) Sampling() bool {
	return s.state.Playing && !s.closed && s.finished.IsAbsent()
}

// Finished returns the result once the session is over.
func (s *Store) Finished() (Result, bool) { return s.finished.Get() }

// Current returns the reference being played.
func (s *Store) Current() mo.Option[media.Reference] {
	return s.playlist.At(s.state.Index)
}

// Open loads the store's playlist starting at index start.
func (s *Store) Open(start int) error {
	return s.LoadPlaylist(s.playlist, start)
}

// Load replaces the playlist with ref alone.
func (s *Store) Load(ref media.Reference) error {
	return s.LoadPlaylist(playlist.New(ref.DisplayTitle(), ref), 0)
}

// LoadPlaylist resolves the items of pl and hands them to the engine. Only the start
// item has to resolve: any other bad item is reported as an error once it is reached.
// On failure nothing changes and a *MediaLoadError is returned.
func (s *Store) LoadPlaylist(pl playlist.Playlist, start int) error {
	if s.closed || s.finished.IsPresent() {
		return &MediaLoadError{Index: start, Err: engine.ErrClosed}
	}
	if pl.Empty() {
		return &MediaLoadError{Index: start, Err: playlist.ErrEmpty}
	}
	if start < 0 || start >= pl.Len() {
		return &MediaLoadError{Index: start, Err: fmt.Errorf("start index %d out of range", start)}
	}

	resolved := make([]media.Reference, pl.Len())
	unresolved := make(map[int]error)
	for i, ref := range pl.Items {
		r, err := media.Resolve(ref)
		if err != nil {
			if i == start {
				return &MediaLoadError{Ref: ref, Index: i, Err: err}
			}
			log.WithFields(log.Fields{"index": i, "locator": ref.Locator}).Warn("unresolvable item: ", err)
			unresolved[i] = err
		}
		resolved[i] = r
	}

	if err := s.engine.Load(resolved, start); err != nil {
		return &MediaLoadError{Ref: resolved[start], Index: start, Err: fmt.Errorf("%w: %w", ErrEngine, err)}
	}

	s.remember(s.state)
	s.playlist = playlist.New(pl.Name, resolved...)
	s.unresolved = unresolved

	prev := s.state
	next := InitialState()
	next.Volume, next.Speed = prev.Volume, prev.Speed
	next.State = engine.StateBuffering
	next.Loaded = true
	next.Index = start
	next.Count = s.playlist.Len()
	next.Title = resolved[start].DisplayTitle()

	s.pending = mo.None[pendingSeek]()
	s.queueResume(start)
	s.commit(prev, next)

	log.WithFields(log.Fields{"playlist": pl.Name, "items": pl.Len(), "start": start}).Info("playlist loaded")

	if s.options.Autoplay {
		s.Play()
	}
	return nil
}

// HandleEvent applies an engine event.
func (s *Store) HandleEvent(ev engine.Event) {
	if s.closed || s.finished.IsPresent() {
		return
	}

	prev := s.state
	next := Reduce(prev, ev)

	if ev.Kind == engine.MediaItemTransition {
		if ev.Index != prev.Index {
			s.remember(prev)
			s.pending = mo.None[pendingSeek]()
			s.queueResume(ev.Index)
			// a new item is loading
			if next.State == engine.StateEnded {
				next.State = engine.StateBuffering
			}
		}
		next.Title = s.playlist.At(ev.Index).OrEmpty().DisplayTitle()
	}
	next.Count = s.playlist.Len()

	if ev.Kind == engine.Error {
		log.WithFields(log.Fields{"index": prev.Index}).Error("engine error: ", next.Error)
	}

	s.commit(prev, next)

	if ev.Kind != engine.MediaItemTransition {
		return
	}

	if err, ok := s.unresolved[ev.Index]; ok {
		s.playOnTransition = false
		ref := s.playlist.At(ev.Index).OrEmpty()
		s.HandleEvent(engine.Event{Kind: engine.Error, Err: &MediaLoadError{Ref: ref, Index: ev.Index, Err: err}})
		return
	}

	if s.playOnTransition {
		s.playOnTransition = false
		s.Play()
	}
}

// commit installs next and runs the side effects of the transition.
func (s *Store) commit(prev, next PlaybackState) {
	s.state = next

	if prev.Playing != next.Playing {
		s.ticket++
	}

	if next.State == engine.StateReady {
		s.reconcileSeek()
	}

	if next.State == engine.StateEnded && prev.State != engine.StateEnded {
		s.ended()
	}
}

func (s *Store) ended() {
	s.remember(s.state)

	if s.playlist.HasNext(s.state.Index) {
		s.advance()
		return
	}
	s.finish(EndByCompletion)
}

// fail records a command failure as an engine error.
func (s *Store) fail(err error) {
	s.HandleEvent(engine.Event{Kind: engine.Error, Err: fmt.Errorf("%w: %w", ErrEngine, err)})
}

func (s *Store) ready() bool {
	return s.state.Loaded && !s.closed && s.finished.IsAbsent()
}

// Play resumes playback. Playing an ended item restarts it.
func (s *Store) Play() {
	if !s.ready() {
		return
	}

	if s.state.State == engine.StateEnded {
		s.Seek(0)
	}

	if err := s.engine.Play(); err != nil {
		s.fail(err)
		return
	}

	next := s.state
	next.Playing = true
	s.commit(s.state, next)
}

// Pause stops playback and sampling.
func (s *Store) Pause() {
	if !s.ready() {
		return
	}

	if err := s.engine.Pause(); err != nil {
		s.fail(err)
		return
	}

	next := s.state
	next.Playing = false
	s.commit(s.state, next)
}

func (s *Store) TogglePlay() {
	if s.state.Playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// Seek moves to position, clamped to [0, duration]. While the duration is unknown the
// target is kept and clamped again once the engine is ready.
func (s *Store) Seek(position int64) {
	if !s.ready() {
		return
	}

	target := max(position, 0)
	if d := s.state.Duration; d > 0 {
		target = min(target, d)
		s.pending = mo.None[pendingSeek]()
	} else {
		s.pending = mo.Some(pendingSeek{target: target, issued: true})
	}

	if err := s.engine.SeekTo(target); err != nil {
		s.fail(err)
		return
	}
	s.state.Position = target
}

// SeekBy seeks relative to the current position.
func (s *Store) SeekBy(delta int64) {
	s.Seek(s.state.Position + delta)
}

// Forward skips ahead by the seek increment.
func (s *Store) Forward() { s.SeekBy(s.options.SeekIncrement) }

// Rewind skips back by the seek increment.
func (s *Store) Rewind() { s.SeekBy(-s.options.SeekIncrement) }

func (s *Store) reconcileSeek() {
	p, ok := s.pending.Get()
	if !ok {
		return
	}
	s.pending = mo.None[pendingSeek]()

	target := clampPosition(p.target, s.state.Duration)
	if !p.issued || target != p.target {
		if err := s.engine.SeekTo(target); err != nil {
			s.fail(err)
			return
		}
	}
	s.state.Position = target
}

func (s *Store) queueResume(index int) {
	if s.options.Positions == nil || !s.options.Resume {
		return
	}

	ref, ok := s.playlist.At(index).Get()
	if !ok {
		return
	}

	if position, ok := s.options.Positions.Resume(ref); ok && position > 0 {
		s.pending = mo.Some(pendingSeek{target: position})
	}
}

func (s *Store) remember(state PlaybackState) {
	if s.options.Positions == nil || !s.options.Save || !state.Loaded {
		return
	}

	if ref, ok := s.playlist.At(state.Index).Get(); ok {
		s.options.Positions.Remember(ref, state.Position, state.Duration)
	}
}

// Sample refreshes the times from the engine. Ticks from a stale run, or arriving
// while not playing, are dropped and Sample reports false.
func (s *Store) Sample(ticket uint64) bool {
	if ticket != s.ticket || !s.Sampling() {
		return false
	}

	// the engine reports 0 while the duration is unknown
	if d := s.engine.Duration(); d > 0 {
		s.state.Duration = d
	}
	s.state.Position = clampPosition(s.engine.Position(), s.state.Duration)
	s.state.BufferedPosition = max(s.engine.BufferedPosition(), 0)
	return true
}

// Next moves to the following playlist item, if any.
func (s *Store) Next() {
	if !s.ready() || !s.playlist.HasNext(s.state.Index) {
		return
	}

	if err := s.engine.Next(); err != nil {
		s.fail(err)
	}
}

// advance moves to the next item without user interaction. The engine pauses at the
// end of an item, so playback is resumed once the transition arrives.
func (s *Store) advance() {
	s.playOnTransition = s.options.Autoplay
	s.Next()
}

// Previous restarts the current item when past the first seconds or when it is the
// first item, and moves to the preceding item otherwise.
func (s *Store) Previous() {
	if !s.ready() {
		return
	}

	if s.state.Position > restartThreshold || !s.playlist.HasPrevious(s.state.Index) {
		s.Seek(0)
		return
	}

	if err := s.engine.Previous(); err != nil {
		s.fail(err)
	}
}

// ToggleFullscreen enters fullscreen in landscape and leaves it to the system orientation.
func (s *Store) ToggleFullscreen() {
	s.toggles.Fullscreen = !s.toggles.Fullscreen
	if s.toggles.Fullscreen {
		s.toggles.Orientation = OrientationLandscape
	} else {
		s.toggles.Orientation = OrientationSystemDefault
	}
}

func (s *Store) ToggleOrientation() {
	if s.toggles.Orientation == OrientationLandscape {
		s.toggles.Orientation = OrientationPortrait
	} else {
		s.toggles.Orientation = OrientationLandscape
	}
}

func (s *Store) ToggleLock() {
	s.toggles.Locked = !s.toggles.Locked
}

// ToggleZoom switches between fitting and filling the viewport.
func (s *Store) ToggleZoom() {
	zoom := s.toggles.Resize != ResizeZoom
	if s.ready() {
		if err := s.engine.SetZoom(zoom); err != nil {
			s.fail(err)
			return
		}
	}

	if zoom {
		s.toggles.Resize = ResizeZoom
	} else {
		s.toggles.Resize = ResizeFit
	}
}

// SetSpeed changes the playback rate within [0.25, 4].
func (s *Store) SetSpeed(speed float64) {
	if !s.ready() {
		return
	}

	speed = util.Clamp(speed, minSpeed, maxSpeed)
	if err := s.engine.SetSpeed(speed); err != nil {
		s.fail(err)
		return
	}
	s.state.Speed = speed
}

// SetVolume changes the volume within [0, 100].
func (s *Store) SetVolume(volume int) {
	if !s.ready() {
		return
	}

	volume = util.Clamp(volume, 0, 100)
	if err := s.engine.SetVolume(volume); err != nil {
		s.fail(err)
		return
	}
	s.state.Volume = volume
}

// SelectTrack selects a track of the given kind; a negative id disables the kind.
func (s *Store) SelectTrack(kind engine.TrackKind, id int) {
	if !s.ready() {
		return
	}

	if err := s.engine.SelectTrack(kind, id); err != nil {
		s.fail(err)
		return
	}

	tracks := make([]engine.Track, len(s.state.Tracks))
	for i, t := range s.state.Tracks {
		if t.Kind == kind {
			t.Selected = t.ID == id
		}
		tracks[i] = t
	}
	s.state.Tracks = tracks
}

// DismissError acknowledges the current error and moves on to the next item,
// or finishes the session on behalf of the user when there is none.
func (s *Store) DismissError() { s.dismiss(EndByUser) }

// SkipError dismisses the current error without the user. A failed last item
// completes the playlist.
func (s *Store) SkipError() { s.dismiss(EndByCompletion) }

func (s *Store) dismiss(last EndReason) {
	if s.state.Error == "" || s.closed || s.finished.IsPresent() {
		return
	}

	s.state.Error = ""
	if s.state.Loaded && s.playlist.HasNext(s.state.Index) {
		s.advance()
		return
	}
	s.finish(last)
}

// Finish ends the session on behalf of the user.
func (s *Store) Finish() {
	s.finish(EndByUser)
}

func (s *Store) finish(reason EndReason) {
	if s.finished.IsPresent() {
		return
	}

	result := Result{EndBy: reason, Index: s.state.Index}
	if reason == EndByUser && s.state.Loaded {
		s.remember(s.state)
		result.Position = mo.Some(s.state.Position)
		if s.state.Duration > 0 {
			result.Duration = mo.Some(s.state.Duration)
		}
	}

	s.finished = mo.Some(result)
	s.ticket++

	log.WithFields(log.Fields{"end_by": reason, "index": result.Index}).Info("session finished")
}

// Close finishes the session if needed and releases the engine. Only the first call
// reaches the engine.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.finish(EndByUser)
		s.closed = true
		s.ticket++
		s.closeErr = s.engine.Close()
	})
	return s.closeErr
}
