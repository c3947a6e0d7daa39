// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/vlog-app/vlog/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state
	// locked hides every player binding except unlocking
	locked bool

	quit, forceQuit,
	confirm, back, retry, remove, reveal,
	switchTab, search, acceptSearchSuggestion,
	up, down, left, right,
	top, bottom,
	playPause, seekForward, seekBackward,
	next, previous,
	zoom, lock, fullscreen, orientation,
	faster, slower, louder, quieter,
	audioTrack, subtitleTrack,
	dismiss,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(style.AccentColor)("enter"), style.Fg(style.AccentColor)("play")),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		retry: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "request again"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		reveal: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "show in file manager"),
		),
		switchTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch tab"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept suggestion"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+10s"),
		),
		seekBackward: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-10s"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		zoom: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "zoom"),
		),
		lock: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lock"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		orientation: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "rotate"),
		),
		faster: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "faster"),
		),
		slower: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "slower"),
		),
		louder: key.NewBinding(
			key.WithKeys("+", "=", "up"),
			key.WithHelp("+", "volume up"),
		),
		quieter: key.NewBinding(
			key.WithKeys("-", "down"),
			key.WithHelp("-", "volume down"),
		),
		audioTrack: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "audio track"),
		),
		subtitleTrack: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "subtitles"),
		),
		dismiss: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "dismiss"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit))
	case permissionState:
		return to2(h(k.retry, k.quit))
	case videosState, folderVideosState:
		return h(k.confirm, k.switchTab, k.search, k.back), h(k.confirm, k.switchTab, k.search, k.reveal, k.top, k.bottom, k.back)
	case foldersState:
		return h(withDescription(k.confirm, "open"), k.switchTab, k.back), h(withDescription(k.confirm, "open"), k.switchTab, k.reveal, k.back)
	case historyState:
		return to2(h(withDescription(k.confirm, "resume"), k.remove, k.switchTab, k.back))
	case searchState:
		return to2(h(withDescription(k.confirm, "filter"), k.acceptSearchSuggestion, k.back))
	case playerState:
		if k.locked {
			return to2(h(withDescription(k.lock, "unlock")))
		}
		return h(k.playPause, k.seekBackward, k.seekForward, k.next, k.previous, k.lock, k.back),
			h(k.playPause, k.seekBackward, k.seekForward, k.next, k.previous, k.zoom, k.lock, k.fullscreen, k.orientation, k.faster, k.slower, k.louder, k.quieter, k.audioTrack, k.subtitleTrack, k.back)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
