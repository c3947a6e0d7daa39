// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/internal/ui"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/permission"
	"github.com/vlog-app/vlog/player"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/util"
)

// statefulBubble encapsulates the application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC      spinner.Model
	inputC        textinput.Model
	videosC       list.Model
	foldersC      list.Model
	folderVideosC list.Model
	historyC      list.Model
	progressC     progress.Model
	helpC         help.Model

	browser *library.Browser
	gate    *permission.Gate

	videos         []media.VideoItem
	selectedFolder mo.Option[media.FolderItem]

	session       *player.Session
	cancelSession context.CancelFunc
	playerUi      player.UiState
	lastResult    mo.Option[player.Result]

	progressStatus string
	lastError      error

	width, height    int
	searchSuggestion mo.Option[string]
	notifier         *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, recording the previous state for back navigation.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Do not push these states to history
	if !lo.Contains([]state{
		loadingState,
		permissionState,
		searchState,
	}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// switchTab replaces the current browsing tab without growing the history.
func (b *statefulBubble) switchTab(s state) {
	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) lists() []*list.Model {
	return []*list.Model{&b.videosC, &b.foldersC, &b.folderVideosC, &b.historyC}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	for _, l := range b.lists() {
		l.SetSize(listWidth, listHeight)
		l.Help.Width = listWidth
	}

	b.progressC.Width = listWidth
	b.inputC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

func (b *statefulBubble) startLoading(status string) tea.Cmd {
	b.loading = true
	b.progressStatus = status
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
	b.progressStatus = ""
}

func newBubble(options *Options, browser *library.Browser) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		browser:       browser,
		gate:          permission.NewGate(browser.Fs(), browser.Roots()),
		notifier:      &ui.Model{},
		options:       options,
	}

	makeList := func(title string, titleColor lipgloss.Color) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(titleColor).Padding(0, 1)
		listC.Styles.NoItems = paddingStyle
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetFilteringEnabled(false)
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Filter videos (%s v%s)", constant.Vlog, constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = "> "

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.videosC = makeList("Videos", style.VideosColor)
	bubble.videosC.SetStatusBarItemName("video", "videos")

	bubble.foldersC = makeList("Folders", style.FoldersColor)
	bubble.foldersC.SetStatusBarItemName("folder", "folders")

	bubble.folderVideosC = makeList("Folder", style.FolderColor)
	bubble.folderVideosC.SetStatusBarItemName("video", "videos")

	bubble.historyC = makeList("Continue Watching", style.HistoryColor)
	bubble.historyC.SetStatusBarItemName("entry", "entries")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}

// initialTab is the browsing state shown once access is granted.
func (b *statefulBubble) initialTab() state {
	switch {
	case b.options.Continue:
		return historyState
	case b.options.Folders:
		return foldersState
	default:
		return videosState
	}
}
