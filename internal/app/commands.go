package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg refreshes relative times shown in the status bar.
type TickMsg time.Time

// TickCmd returns a command that sends TickMsg after a minute.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
