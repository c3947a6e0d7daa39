// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init checks library access first; browsing starts once it is granted.
func (b *statefulBubble) Init() tea.Cmd {
	b.setState(loadingState)
	return tea.Batch(b.startLoading("Checking library access"), b.checkPermission())
}
