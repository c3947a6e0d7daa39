// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vlog-app/vlog/engine"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/library"
	"github.com/vlog-app/vlog/player"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Folders opens the folders tab instead of the videos tab.
	Folders bool
	// Continue opens the resume history.
	Continue bool
	// Roots overrides library.roots when not empty.
	Roots []string

	// Engine and Player default to mpv and the configured player options.
	Engine engine.Factory
	Player *player.Options
}

func (o *Options) withDefaults() *Options {
	out := *o
	if out.Engine == nil {
		out.Engine = engine.MPVFactory(engine.MPVOptionsFromConfig())
	}
	if out.Player == nil {
		opts := player.OptionsFromConfig(history.Positions{})
		out.Player = &opts
	}
	return &out
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	options = options.withDefaults()

	libraryOptions := library.OptionsFromConfig()
	if len(options.Roots) > 0 {
		libraryOptions.Roots = options.Roots
	}

	bubble := newBubble(options, library.NewBrowser(filesystem.API(), libraryOptions))

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	bubble.stopSession()
	return err
}
