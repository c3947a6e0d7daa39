// Package color holds the terminal colors used by the CLI and the TUI.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI index or a hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors follow the user's terminal theme. The CLI uses these.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiBlue   = New("12")
	HiPurple = New("13")
)

// Theme colors are fixed hex values. The TUI uses these.
var (
	Base     = New("#1e1e2e")
	Text     = New("#cdd6f4")
	Overlay  = New("#6c7086")
	Mauve    = New("#cba6f7")
	Rose     = New("#f38ba8")
	Peach    = New("#fab387")
	Amber    = New("#f9e2af")
	Mint     = New("#a6e3a1")
	Sky      = New("#89dceb")
	Lavender = New("#b4befe")
	Cornflow = New("#89b4fa")
)
