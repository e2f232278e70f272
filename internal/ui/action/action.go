// Package action carries store actions through the bubbletea update loop.
package action

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/store"
)

// Msg wraps a store action with the name of the component or worker that
// produced it. The app dispatches the action when it receives the message.
type Msg struct {
	Source string // "attachcomment", "postlist", "effects", etc.
	Action store.Action
}

// Ensure Msg implements tea.Msg (compile-time check).
var _ tea.Msg = Msg{}

// Cmd returns a command that delivers action as a Msg from source.
// A nil action yields a nil command.
func Cmd(source string, a store.Action) tea.Cmd {
	if a == nil {
		return nil
	}
	return func() tea.Msg {
		return Msg{Source: source, Action: a}
	}
}
