package engine

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPVOptions configures how the mpv process is launched.
type MPVOptions struct {
	// Executable defaults to "mpv".
	Executable string
	// Args are appended after the built-in arguments.
	Args []string
	// SocketDir holds the IPC socket; defaults to os.TempDir().
	SocketDir string
}

// MPVOptionsFromConfig reads player.engine and player.engine_args.
func MPVOptionsFromConfig() MPVOptions {
	return MPVOptions{
		Executable: viper.GetString(key.PlayerEngine),
		Args:       viper.GetStringSlice(key.PlayerEngineArgs),
		SocketDir:  where.Temp(),
	}
}

// MPV drives an mpv process over its JSON-IPC socket.
type MPV struct {
	options    MPVOptions
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *listener
	timeline   timeline

	mu     sync.Mutex // serializes socket writes
	closed bool

	itemsMu sync.Mutex
	items   []media.Reference

	closeOnce sync.Once
	closeErr  error
}

// NewMPV creates an MPV engine. The process is not started until Start.
func NewMPV(options MPVOptions) *MPV {
	if options.Executable == "" {
		options.Executable = "mpv"
	}
	if options.SocketDir == "" {
		options.SocketDir = os.TempDir()
	}
	return &MPV{
		options: options,
		exited:  make(chan struct{}),
	}
}

// MPVFactory returns a Factory that starts a new mpv process per session.
func MPVFactory(options MPVOptions) Factory {
	return func(ctx context.Context) (Engine, error) {
		m := NewMPV(options)
		if err := m.Start(ctx); err != nil {
			return nil, err
		}
		return m, nil
	}
}

func (m *MPV) args() []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + m.socketPath,
		"--force-window=yes",
		"--idle=yes",
		// the player decides what happens at the end of each item
		"--keep-open=yes",
		"--pause",
	}
	return append(args, m.options.Args...)
}

// Start launches mpv idle and subscribes to its events.
func (m *MPV) Start(ctx context.Context) error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(m.options.SocketDir, fmt.Sprintf("vlog-%x.sock", randomBytes))

	m.cmd = exec.CommandContext(ctx, m.options.Executable, m.args()...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.options.Executable, err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	l, err := newListener(m.socketPath, &m.timeline, m.onEvent)
	if err != nil {
		_ = m.Close()
		return err
	}
	m.listener = l
	go l.run()

	log.WithFields(log.Fields{"socket": m.socketPath, "pid": m.cmd.Process.Pid}).Info("mpv started")
	return nil
}

func (m *MPV) waitForSocket(ctx context.Context) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// onEvent runs on the listener goroutine.
func (m *MPV) onEvent(ev Event) {
	if ev.Kind != MediaItemTransition {
		return
	}

	m.itemsMu.Lock()
	item, err := lo.Nth(m.items, ev.Index)
	m.itemsMu.Unlock()
	if err != nil {
		return
	}

	if _, err = m.sendCommand("set_property", "force-media-title", sanitizeTitle(item.DisplayTitle())); err != nil {
		log.Warnf("set media title: %v", err)
	}
}

func (m *MPV) Load(items []media.Reference, start int) error {
	if len(items) == 0 {
		return errors.New("empty playlist")
	}
	if start < 0 || start >= len(items) {
		return fmt.Errorf("start index %d out of range [0, %d)", start, len(items))
	}

	m.itemsMu.Lock()
	m.items = append([]media.Reference(nil), items...)
	m.itemsMu.Unlock()

	if fields := headerFields(items); fields != "" {
		if _, err := m.sendCommand("set_property", "http-header-fields", fields); err != nil {
			return fmt.Errorf("set headers: %w", err)
		}
	}

	for i, item := range items {
		mode := "append"
		if i == 0 {
			mode = "replace"
		}
		if _, err := m.sendCommand("loadfile", item.Locator, mode); err != nil {
			return fmt.Errorf("load %s: %w", item.Locator, err)
		}
		if drm, ok := item.DRM.Get(); ok {
			log.WithFields(log.Fields{"scheme": drm.Scheme, "license": drm.LicenseURL}).Debug("drm descriptor left to mpv")
		}
	}

	if start != 0 {
		if _, err := m.sendCommand("set_property", "playlist-pos", start); err != nil {
			return fmt.Errorf("select item %d: %w", start, err)
		}
	}
	return nil
}

// headerFields joins the request headers of all items into mpv's http-header-fields syntax.
// Later items override earlier ones for the same header.
func headerFields(items []media.Reference) string {
	merged := make(map[string]string)
	for _, item := range items {
		for k, v := range item.Headers {
			merged[k] = v
		}
	}

	keys := lo.Keys(merged)
	sort.Strings(keys)

	return strings.Join(lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprintf("%s: %s", k, strings.ReplaceAll(merged[k], ",", "%2C"))
	}), ",")
}

func (m *MPV) Play() error {
	_, err := m.sendCommand("set_property", "pause", false)
	return err
}

func (m *MPV) Pause() error {
	_, err := m.sendCommand("set_property", "pause", true)
	return err
}

func (m *MPV) SeekTo(position int64) error {
	_, err := m.sendCommand("seek", float64(position)/1000, "absolute+exact")
	return err
}

func (m *MPV) Next() error {
	_, err := m.sendCommand("playlist-next", "force")
	return err
}

func (m *MPV) Previous() error {
	_, err := m.sendCommand("playlist-prev", "force")
	return err
}

func (m *MPV) SetSpeed(speed float64) error {
	_, err := m.sendCommand("set_property", "speed", speed)
	return err
}

func (m *MPV) SetVolume(volume int) error {
	_, err := m.sendCommand("set_property", "volume", volume)
	return err
}

func (m *MPV) SetZoom(zoom bool) error {
	panscan := 0.0
	if zoom {
		panscan = 1.0
	}
	_, err := m.sendCommand("set_property", "panscan", panscan)
	return err
}

func (m *MPV) SelectTrack(kind TrackKind, id int) error {
	property := map[TrackKind]string{
		TrackVideo:    "vid",
		TrackAudio:    "aid",
		TrackSubtitle: "sid",
	}[kind]
	if property == "" {
		return fmt.Errorf("unknown track kind %q", kind)
	}

	var value any = id
	if id < 0 {
		value = "no"
	}
	_, err := m.sendCommand("set_property", property, value)
	return err
}

func (m *MPV) Position() int64         { return m.timeline.position.Load() }
func (m *MPV) Duration() int64         { return m.timeline.duration.Load() }
func (m *MPV) BufferedPosition() int64 { return m.timeline.buffered.Load() }

// Events is closed when mpv exits or the engine is closed.
func (m *MPV) Events() <-chan Event {
	if m.listener == nil {
		closed := make(chan Event)
		close(closed)
		return closed
	}
	return m.listener.events
}

// Close quits mpv, force-killing it if it does not exit in time. Safe to call more than once.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.close()
	})
	return m.closeErr
}

func (m *MPV) close() error {
	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand("quit")

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	if m.listener != nil {
		m.listener.Close()
	}

	var err error
	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		err = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	log.Infof("mpv stopped")
	return err
}

// sanitizeTitle flattens a title into a single IPC-safe line.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
