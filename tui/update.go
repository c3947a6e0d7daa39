// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/player"
	"github.com/vlog-app/vlog/query"
)

const (
	volumeStep = 5
	speedStep  = 0.25
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// notifications are plain strings
	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if b.loading {
			var tick tea.Cmd
			b.spinnerC, tick = b.spinnerC.Update(msg)
			return b, tea.Batch(cmd, tick)
		}
		return b, cmd
	case error:
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case permissionResultMsg:
		b.stopLoading()
		if msg.err != nil {
			b.lastError = msg.err
			b.setState(permissionState)
			return b, cmd
		}
		b.setState(b.initialTab())
		return b, tea.Batch(cmd, b.loadVideos(), b.loadFolders(), b.loadHistory())
	case videosLoadedMsg:
		b.videos = msg
		b.videosC.Title = "Videos"
		return b, tea.Batch(cmd, b.videosC.SetItems(videoItems(msg)))
	case foldersLoadedMsg:
		items := lo.Map(msg, func(f media.FolderItem, _ int) list.Item { return &listItem{internal: f} })
		return b, tea.Batch(cmd, b.foldersC.SetItems(items))
	case folderLoadedMsg:
		b.stopLoading()
		b.selectedFolder = mo.Some(media.FolderItem(msg))
		b.folderVideosC.Title = msg.Name
		b.folderVideosC.ResetSelected()
		b.newState(folderVideosState)
		return b, tea.Batch(cmd, b.folderVideosC.SetItems(videoItems(msg.Videos)))
	case historyLoadedMsg:
		items := lo.Map(msg, func(e *history.Entry, _ int) list.Item { return &listItem{internal: e} })
		return b, tea.Batch(cmd, b.historyC.SetItems(items))
	case playerUpdateMsg:
		if msg.session != b.session {
			return b, cmd
		}
		b.playerUi = msg.ui
		b.keymap.locked = msg.ui.Locked
		return b, tea.Batch(cmd, waitForUpdate(msg.session))
	case sessionEndedMsg:
		return b, tea.Batch(cmd, b.onSessionEnded(msg))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			b.stopSession()
			return b, tea.Quit
		}
	}

	var next tea.Cmd
	switch b.state {
	case permissionState:
		next = b.updatePermission(msg)
	case videosState:
		next = b.updateVideos(msg)
	case foldersState:
		next = b.updateFolders(msg)
	case folderVideosState:
		next = b.updateFolderVideos(msg)
	case historyState:
		next = b.updateHistory(msg)
	case searchState:
		next = b.updateSearch(msg)
	case playerState:
		next = b.updatePlayer(msg)
	case errorState:
		next = b.updateError(msg)
	}

	return b, tea.Batch(cmd, next)
}

// cycleTab moves to the browsing tab after the current one.
func (b *statefulBubble) cycleTab() {
	_, index, ok := lo.FindIndexOf(browsingStates, func(s state) bool { return s == b.state })
	if !ok {
		return
	}
	b.switchTab(browsingStates[(index+1)%len(browsingStates)])
}

// wrapCursor makes up and down wrap around the ends of l.
func (b *statefulBubble) wrapCursor(l *list.Model, msg tea.KeyMsg) bool {
	n := len(l.Items())
	if n == 0 {
		return false
	}

	switch {
	case bubblesKey.Matches(msg, b.keymap.up) && l.Index() == 0:
		l.Select(n - 1)
		return true
	case bubblesKey.Matches(msg, b.keymap.down) && l.Index() == n-1:
		l.Select(0)
		return true
	}
	return false
}

func (b *statefulBubble) updatePermission(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.retry):
			b.setState(loadingState)
			return tea.Batch(b.startLoading("Checking library access"), b.checkPermission())
		case bubblesKey.Matches(msg, b.keymap.quit, b.keymap.back):
			return tea.Quit
		}
	}
	return nil
}

func (b *statefulBubble) updateVideos(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if b.wrapCursor(&b.videosC, msg) {
			return nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.switchTab):
			b.cycleTab()
			return nil
		case bubblesKey.Matches(msg, b.keymap.reveal):
			return b.reveal(b.videosC.SelectedItem())
		case bubblesKey.Matches(msg, b.keymap.search):
			b.inputC.SetValue("")
			b.inputC.Focus()
			b.newState(searchState)
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.videosC.SelectedItem() == nil {
				return nil
			}
			return b.startSession(playlistFrom(b.videosC.Title, b.videosC.Items()), b.videosC.Index())
		case bubblesKey.Matches(msg, b.keymap.back):
			// clears an applied filter first
			if len(b.videosC.Items()) != len(b.videos) {
				b.videosC.Title = "Videos"
				b.videosC.ResetSelected()
				return b.videosC.SetItems(videoItems(b.videos))
			}
			return tea.Quit
		}
	}

	b.videosC, cmd = b.videosC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateFolders(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if b.wrapCursor(&b.foldersC, msg) {
			return nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.switchTab):
			b.cycleTab()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.foldersC.SelectedItem() == nil {
				return nil
			}
			folder := b.foldersC.SelectedItem().(*listItem).internal.(media.FolderItem)
			return tea.Batch(b.startLoading("Opening "+folder.Name), b.loadFolder(folder.Path))
		case bubblesKey.Matches(msg, b.keymap.reveal):
			return b.reveal(b.foldersC.SelectedItem())
		case bubblesKey.Matches(msg, b.keymap.back):
			return tea.Quit
		}
	}

	b.foldersC, cmd = b.foldersC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateFolderVideos(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if b.wrapCursor(&b.folderVideosC, msg) {
			return nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.folderVideosC.SelectedItem() == nil {
				return nil
			}
			return b.startSession(playlistFrom(b.folderVideosC.Title, b.folderVideosC.Items()), b.folderVideosC.Index())
		case bubblesKey.Matches(msg, b.keymap.reveal):
			return b.reveal(b.folderVideosC.SelectedItem())
		case bubblesKey.Matches(msg, b.keymap.back):
			b.selectedFolder = mo.None[media.FolderItem]()
			b.previousState()
			return nil
		}
	}

	b.folderVideosC, cmd = b.folderVideosC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if b.wrapCursor(&b.historyC, msg) {
			return nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.switchTab):
			b.cycleTab()
			return nil
		case bubblesKey.Matches(msg, b.keymap.remove):
			if b.historyC.SelectedItem() == nil {
				return nil
			}
			entry := b.historyC.SelectedItem().(*listItem).internal.(*history.Entry)
			if err := history.Remove(entry.ID); err != nil {
				log.Warn("removing history entry: ", err)
			}
			return b.loadHistory()
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.historyC.SelectedItem() == nil {
				return nil
			}
			return b.startSession(playlistFrom(b.historyC.Title, b.historyC.Items()), b.historyC.Index())
		case bubblesKey.Matches(msg, b.keymap.back):
			return tea.Quit
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			q := b.inputC.Value()
			if q != "" {
				go func() {
					if err := query.Remember(q, 1); err != nil {
						log.Warn("remembering query: ", err)
					}
				}()
			}

			filtered := library.Filter(b.videos, q)
			b.videosC.Title = "Videos"
			if q != "" {
				b.videosC.Title = fmt.Sprintf("Videos - %s", q)
			}
			b.videosC.ResetSelected()
			b.inputC.Blur()
			b.previousState()
			return b.videosC.SetItems(videoItems(filtered))
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.searchSuggestion = mo.None[string]()
			b.inputC.CursorEnd()
			return nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.inputC.Blur()
			b.previousState()
			return nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" {
		if suggestion, ok := query.Suggest(b.inputC.Value()).Get(); ok && suggestion != b.inputC.Value() {
			b.searchSuggestion = mo.Some(suggestion)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
	} else {
		b.searchSuggestion = mo.None[string]()
	}

	return cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	k := b.keymap
	ui := b.playerUi

	if ui.Error != "" {
		switch {
		case bubblesKey.Matches(msgKey, k.dismiss):
			b.send(func(s *player.Store) { s.DismissError() })
		case bubblesKey.Matches(msgKey, k.back, k.quit):
			b.send(func(s *player.Store) { s.Finish() })
		}
		return nil
	}

	if k.locked {
		if bubblesKey.Matches(msgKey, k.lock) {
			k.locked = false
			b.send(func(s *player.Store) { s.ToggleLock() })
		}
		return nil
	}

	switch {
	case bubblesKey.Matches(msgKey, k.back, k.quit):
		b.send(func(s *player.Store) { s.Finish() })
	case bubblesKey.Matches(msgKey, k.playPause):
		b.send(func(s *player.Store) { s.TogglePlay() })
	case bubblesKey.Matches(msgKey, k.seekForward):
		b.send(func(s *player.Store) { s.Forward() })
	case bubblesKey.Matches(msgKey, k.seekBackward):
		b.send(func(s *player.Store) { s.Rewind() })
	case bubblesKey.Matches(msgKey, k.next):
		b.send(func(s *player.Store) { s.Next() })
	case bubblesKey.Matches(msgKey, k.previous):
		b.send(func(s *player.Store) { s.Previous() })
	case bubblesKey.Matches(msgKey, k.zoom):
		b.send(func(s *player.Store) { s.ToggleZoom() })
	case bubblesKey.Matches(msgKey, k.lock):
		k.locked = true
		b.send(func(s *player.Store) { s.ToggleLock() })
	case bubblesKey.Matches(msgKey, k.fullscreen):
		b.send(func(s *player.Store) { s.ToggleFullscreen() })
	case bubblesKey.Matches(msgKey, k.orientation):
		b.send(func(s *player.Store) { s.ToggleOrientation() })
	case bubblesKey.Matches(msgKey, k.faster):
		speed := ui.Speed + speedStep
		b.send(func(s *player.Store) { s.SetSpeed(speed) })
	case bubblesKey.Matches(msgKey, k.slower):
		speed := ui.Speed - speedStep
		b.send(func(s *player.Store) { s.SetSpeed(speed) })
	case bubblesKey.Matches(msgKey, k.louder):
		volume := ui.Volume + volumeStep
		b.send(func(s *player.Store) { s.SetVolume(volume) })
	case bubblesKey.Matches(msgKey, k.quieter):
		volume := ui.Volume - volumeStep
		b.send(func(s *player.Store) { s.SetVolume(volume) })
	case bubblesKey.Matches(msgKey, k.audioTrack):
		if id, ok := nextTrack(ui.Tracks, engine.TrackAudio, false); ok {
			b.send(func(s *player.Store) { s.SelectTrack(engine.TrackAudio, id) })
		}
	case bubblesKey.Matches(msgKey, k.subtitleTrack):
		if id, ok := nextTrack(ui.Tracks, engine.TrackSubtitle, true); ok {
			b.send(func(s *player.Store) { s.SelectTrack(engine.TrackSubtitle, id) })
		}
	case bubblesKey.Matches(msgKey, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		}
	}
	return nil
}
