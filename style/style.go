// Package style provides small render functions on top of lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vlog-app/vlog/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a function that renders its input in c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a function that renders its input at most max cells wide.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().MaxWidth(max).Render(s) }
}

var (
	Faint  = func(s string) string { return New().Faint(true).Render(s) }
	Bold   = func(s string) string { return New().Bold(true).Render(s) }
	Italic = func(s string) string { return New().Italic(true).Render(s) }
)

// Title renders a screen heading.
var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle renders the heading of error screens and dialogs.
var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), ErrorColor).Padding(0, 1).Render(s)
}

// Badge renders a short label on a colored block, e.g. the playback state.
func Badge(bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(Base, bg).Bold(true).Padding(0, 1).Render(s) }
}

// Keycap renders a key name in help hints.
func Keycap(key string) string {
	return Colored(Text, "").Bold(true).Render(key)
}
