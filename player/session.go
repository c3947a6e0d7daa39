package player

import (
	"context"
	"fmt"
	"time"

	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/playlist"
)

// Command is run by the session goroutine with exclusive access to the store.
type Command func(*Store)

// Session plays a playlist from start to finish. The engine is acquired when Run
// starts and released on every way out of it.
type Session struct {
	factory  engine.Factory
	playlist playlist.Playlist
	start    int
	options  Options

	// DismissErrors skips failed items without waiting for the user.
	DismissErrors bool

	commands chan Command
	updates  chan UiState
	done     chan struct{}
}

func NewSession(factory engine.Factory, pl playlist.Playlist, start int, options Options) *Session {
	return &Session{
		factory:  factory,
		playlist: pl,
		start:    start,
		options:  options,
		commands: make(chan Command, 16),
		updates:  make(chan UiState, 1),
		done:     make(chan struct{}),
	}
}

// Send queues cmd for the session goroutine. It reports false once the session is over.
func (s *Session) Send(cmd Command) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.commands <- cmd:
		return true
	case <-s.done:
		return false
	}
}

// Updates delivers the latest UiState. Older states are dropped when the reader
// falls behind. The channel is closed when Run returns.
func (s *Session) Updates() <-chan UiState { return s.updates }

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) publish(ui UiState) {
	select {
	case s.updates <- ui:
		return
	default:
	}

	select {
	case <-s.updates:
	default:
	}

	select {
	case s.updates <- ui:
	default:
	}
}

// Run owns the store until the session finishes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) (Result, error) {
	defer close(s.updates)
	defer close(s.done)

	eng, err := s.factory(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	store := NewStore(eng, s.playlist, s.options)
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing engine: ", err)
		}
	}()

	if err := store.Open(s.start); err != nil {
		return Result{}, err
	}
	s.publish(store.Ui())

	interval := store.Options().SampleInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ticket := store.Ticket()
	events := eng.Events()

	for {
		if result, ok := store.Finished(); ok {
			return result, nil
		}

		var tick <-chan time.Time
		if store.Sampling() {
			if store.Ticket() != ticket {
				ticket = store.Ticket()
				ticker.Reset(interval)
				select {
				case <-ticker.C:
				default:
				}
			}
			tick = ticker.C
		}

		select {
		case <-ctx.Done():
			log.Info("session cancelled")
			store.Finish()
		case ev, ok := <-events:
			if !ok {
				log.Warn("engine went away")
				events = nil
				store.Finish()
				break
			}
			store.HandleEvent(ev)
			if s.DismissErrors && store.State().Error != "" {
				log.WithFields(log.Fields{"index": store.State().Index}).Warn("skipping failed item: ", store.State().Error)
				store.SkipError()
			}
		case cmd := <-s.commands:
			cmd(store)
		case <-tick:
			if !store.Sample(ticket) {
				continue
			}
		}

		s.publish(store.Ui())
	}
}
