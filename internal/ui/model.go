// Package ui shows short-lived notifications at the bottom of a bubbletea view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vlog-app/vlog/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// Model holds the notification being shown, if any.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// ClearNotificationMsg hides notifications older than Lifetime.
type ClearNotificationMsg struct{}

// Notify returns a command that shows msg.
func Notify(msg string) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

func clearLater() tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{}
	})
}

// Update shows string messages and clears them once they expire.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notification = msg
		m.notifiedAt = time.Now()
		return clearLater()
	case ClearNotificationMsg:
		// a newer notification keeps its own timer
		if time.Since(m.notifiedAt) >= Lifetime {
			m.notification = ""
		}
	}
	return nil
}

// Notification returns the visible notification.
func (m *Model) Notification() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
