// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/key"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/util"
)

// listItem implements the list.Item interface, wrapping various domain models for terminal display.
type listItem struct {
	internal interface{}
}

func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case media.VideoItem:
		return icon.Get(icon.Video) + " " + e.DisplayName()
	case media.FolderItem:
		return icon.Get(icon.Folder) + " " + e.Name
	case *history.Entry:
		return e.Title
	default:
		return t.FilterValue()
	}
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case media.VideoItem:
		description := e.Describe()
		if viper.GetBool(key.TUIShowPaths) {
			description += " · " + style.Faint(e.Path)
		}
		return description
	case media.FolderItem:
		return fmt.Sprintf("%s · %s", util.Quantify(len(e.Videos), "video", "videos"), humanize.Bytes(uint64(e.Size())))
	case *history.Entry:
		progress := lipgloss.NewStyle().Foreground(style.ResumeColor).Render(fmt.Sprintf("%.0f%%", e.Progress()*100))
		return fmt.Sprintf("%s / %s %s · %s", util.FormatMillis(e.Position), util.FormatMillis(e.Duration), progress, humanize.Time(e.SavedAt))
	default:
		return ""
	}
}

// FilterValue returns the string used for list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case media.VideoItem:
		return e.DisplayName()
	case media.FolderItem:
		return e.Name
	case *history.Entry:
		return e.Title
	case string:
		return e
	default:
		return ""
	}
}
