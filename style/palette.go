package style

import "github.com/vlog-app/vlog/color"

// Roles map theme colors to what they mean on screen.
var (
	Base        = color.Base
	Text        = color.Text
	AccentColor = color.Mauve
	ErrorColor  = color.Rose
	FaintColor  = color.Overlay

	// list titles, one per browse tab
	VideosColor  = color.Lavender
	FoldersColor = color.Peach
	FolderColor  = color.Amber
	HistoryColor = color.Cornflow

	// playback badges
	PlayingColor   = color.Mint
	PausedColor    = color.Amber
	BufferingColor = color.Sky
	EndedColor     = color.Overlay

	ResumeColor = color.Amber
)
