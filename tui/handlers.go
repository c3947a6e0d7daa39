// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/auth"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/internal/ui"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/open"
	"github.com/vlog-app/vlog/player"
	"github.com/vlog-app/vlog/playlist"
)

const sessionStopTimeout = 5 * time.Second

type (
	permissionResultMsg struct{ err error }
	videosLoadedMsg     []media.VideoItem
	foldersLoadedMsg    []media.FolderItem
	folderLoadedMsg     media.FolderItem
	historyLoadedMsg    []*history.Entry

	playerUpdateMsg struct {
		session *player.Session
		ui      player.UiState
	}

	sessionEndedMsg struct {
		session *player.Session
		result  player.Result
		err     error
	}
)

func (b *statefulBubble) checkPermission() tea.Cmd {
	return func() tea.Msg {
		return permissionResultMsg{err: b.gate.Check(context.Background())}
	}
}

func (b *statefulBubble) loadVideos() tea.Cmd {
	return func() tea.Msg {
		return videosLoadedMsg(b.browser.Videos(context.Background()))
	}
}

func (b *statefulBubble) loadFolders() tea.Cmd {
	return func() tea.Msg {
		return foldersLoadedMsg(b.browser.Folders(context.Background()))
	}
}

func (b *statefulBubble) loadFolder(dir string) tea.Cmd {
	return func() tea.Msg {
		return folderLoadedMsg(b.browser.Folder(context.Background(), dir))
	}
}

func (b *statefulBubble) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := history.List()
		if err != nil {
			log.Warn("loading history: ", err)
		}
		return historyLoadedMsg(entries)
	}
}

func videoItems(videos []media.VideoItem) []list.Item {
	return lo.Map(videos, func(v media.VideoItem, _ int) list.Item {
		return &listItem{internal: v}
	})
}

// playlistFrom turns the items of a list into a playlist in display order.
func playlistFrom(name string, items []list.Item) playlist.Playlist {
	refs := lo.FilterMap(items, func(item list.Item, _ int) (media.Reference, bool) {
		switch e := item.(*listItem).internal.(type) {
		case media.VideoItem:
			return e.Reference(), true
		case *history.Entry:
			return auth.Apply(media.NewReference(e.Locator).WithTitle(e.Title)), true
		default:
			return media.Reference{}, false
		}
	})
	return playlist.New(name, refs...)
}

// startSession plays pl from start in a session owned by its own goroutine.
func (b *statefulBubble) startSession(pl playlist.Playlist, start int) tea.Cmd {
	b.stopSession()

	ctx, cancel := context.WithCancel(context.Background())
	session := player.NewSession(b.options.Engine, pl, start, *b.options.Player)

	b.session = session
	b.cancelSession = cancel
	b.playerUi = player.UiState{Loading: true, Count: pl.Len(), Index: start, Title: pl.At(start).OrEmpty().DisplayTitle()}
	b.keymap.locked = false
	b.newState(playerState)

	ended := make(chan sessionEndedMsg, 1)
	go func() {
		result, err := session.Run(ctx)
		ended <- sessionEndedMsg{session: session, result: result, err: err}
	}()

	log.WithFields(log.Fields{"playlist": pl.Name, "start": start}).Info("starting player session")

	return tea.Batch(
		waitForUpdate(session),
		func() tea.Msg { return <-ended },
	)
}

func waitForUpdate(session *player.Session) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-session.Updates()
		if !ok {
			return nil
		}
		return playerUpdateMsg{session: session, ui: state}
	}
}

// send runs cmd on the session goroutine.
func (b *statefulBubble) send(cmd player.Command) {
	if b.session != nil {
		b.session.Send(cmd)
	}
}

// stopSession cancels the running session and waits for the engine to be released.
func (b *statefulBubble) stopSession() {
	if b.session == nil {
		return
	}

	b.cancelSession()
	select {
	case <-b.session.Done():
	case <-time.After(sessionStopTimeout):
		log.Warn("player session did not stop in time")
	}

	b.session = nil
	b.cancelSession = nil
}

func (b *statefulBubble) onSessionEnded(msg sessionEndedMsg) tea.Cmd {
	if msg.session != b.session {
		return nil
	}

	b.session = nil
	b.cancelSession()
	b.cancelSession = nil
	b.keymap.locked = false

	b.previousState()
	if msg.err != nil {
		b.raiseError(msg.err)
		return nil
	}

	b.lastResult = mo.Some(msg.result)

	notice := fmt.Sprintf("%s finished (%s)", icon.Get(icon.Success), msg.result.EndBy)
	return tea.Batch(b.loadHistory(), ui.Notify(notice))
}

// reveal shows the selected video or folder in the file manager.
func (b *statefulBubble) reveal(item list.Item) tea.Cmd {
	if item == nil {
		return nil
	}

	var path string
	switch e := item.(*listItem).internal.(type) {
	case media.VideoItem:
		path = e.Path
	case media.FolderItem:
		path = e.Path
	default:
		return nil
	}

	if err := open.Reveal(path); err != nil {
		return func() tea.Msg { return err }
	}
	return ui.Notify("Opened " + path)
}

// nextTrack returns the track of kind that follows the selected one. When allowOff is
// set, the cycle passes through -1, which disables the kind.
func nextTrack(tracks []engine.Track, kind engine.TrackKind, allowOff bool) (int, bool) {
	ids := lo.FilterMap(tracks, func(t engine.Track, _ int) (int, bool) {
		return t.ID, t.Kind == kind
	})
	if allowOff {
		ids = append(ids, -1)
	}
	if len(ids) == 0 {
		return 0, false
	}

	selected, ok := lo.Find(tracks, func(t engine.Track) bool {
		return t.Kind == kind && t.Selected
	})
	current := -1
	if ok {
		current = selected.ID
	}

	_, index, found := lo.FindIndexOf(ids, func(id int) bool { return id == current })
	if !found {
		return ids[0], true
	}
	return ids[(index+1)%len(ids)], true
}
