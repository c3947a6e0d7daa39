// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/permission"
	"github.com/vlog-app/vlog/player"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	dialogStyle           = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(style.ErrorColor).
				Padding(0, 1)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case permissionState:
		output = b.viewPermission()
	case videosState:
		output = listExtraPaddingStyle.Render(b.videosC.View())
	case foldersState:
		output = listExtraPaddingStyle.Render(b.foldersC.View())
	case folderVideosState:
		output = listExtraPaddingStyle.Render(b.folderVideosC.View())
	case historyState:
		output = listExtraPaddingStyle.Render(b.historyC.View())
	case searchState:
		output = b.viewSearch()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewPermission() string {
	lines := []string{
		style.ErrorTitle("Library access"),
		"",
		icon.Get(icon.Lock) + " vlog needs to read your video folders.",
		"",
	}

	var denied *permission.DeniedError
	if b.lastError != nil && errors.As(b.lastError, &denied) {
		for _, root := range denied.Roots {
			lines = append(lines, "  "+style.Fg(style.ErrorColor)(root))
		}
	} else if b.lastError != nil {
		lines = append(lines, wrap.String(b.lastError.Error(), b.width))
	}

	lines = append(lines, "", style.Faint("Fix the permissions, then press r to request access again."))
	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Filter Videos"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint("tab: "+suggestion))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) playerStatus(ui player.UiState) string {
	var parts []string

	switch {
	case ui.Loading:
		parts = append(parts, b.spinnerC.View()+" "+style.Badge(style.BufferingColor)("buffering"))
	case ui.Ended:
		parts = append(parts, style.Badge(style.EndedColor)(icon.Get(icon.Success)+" ended"))
	case ui.Playing:
		parts = append(parts, style.Badge(style.PlayingColor)(icon.Get(icon.Play)+" playing"))
	default:
		parts = append(parts, style.Badge(style.PausedColor)(icon.Get(icon.Pause)+" paused"))
	}

	if ui.Locked {
		parts = append(parts, icon.Get(icon.Lock)+" locked")
	}
	if ui.Fullscreen {
		parts = append(parts, icon.Get(icon.Fullscreen)+" fullscreen")
	}

	parts = append(parts,
		ui.Orientation.String(),
		ui.Resize.String(),
		fmt.Sprintf("%gx", ui.Speed),
		fmt.Sprintf("vol %d%%", ui.Volume),
	)

	return strings.Join(parts, " · ")
}

func trackSummary(tracks []engine.Track, kind engine.TrackKind) string {
	selected, ok := lo.Find(tracks, func(t engine.Track) bool { return t.Kind == kind && t.Selected })
	if !ok {
		return "off"
	}
	return selected.Label()
}

func (b *statefulBubble) viewPlayer() string {
	ui := b.playerUi

	position := util.FormatMillis(ui.Position)
	duration := "--:--"
	if ui.Duration > 0 {
		duration = util.FormatMillis(ui.Duration)
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(icon.Get(icon.Video) + " " + style.Fg(style.AccentColor)(ui.Title)),
		style.Faint(fmt.Sprintf("%d / %d", ui.Index+1, max(ui.Count, 1))),
		"",
		b.progressC.ViewAs(ui.Progress()),
		fmt.Sprintf("%s / %s  %s", position, duration, style.Faint(fmt.Sprintf("buffered %.0f%%", ui.Buffered()*100))),
		"",
		b.playerStatus(ui),
		style.Faint(fmt.Sprintf("audio: %s · subtitles: %s", trackSummary(ui.Tracks, engine.TrackAudio), trackSummary(ui.Tracks, engine.TrackSubtitle))),
	}

	if ui.Error != "" {
		dialog := dialogStyle.Render(strings.Join([]string{
			style.ErrorTitle("Playback error"),
			"",
			wrap.String(ui.Error, max(b.width-4, 10)),
			"",
			lo.Ternary(ui.HasNext, style.Keycap("enter")+style.Faint(" next item · ")+style.Keycap("esc")+style.Faint(" close"), style.Keycap("enter")+style.Faint(" close")),
		}, "\n"))
		lines = append(lines, "", dialog)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorBody := errorStyle.Render(b.lastError.Error())
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
