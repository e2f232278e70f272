package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/effects"
	"github.com/llehouerou/issuelink/internal/ui"
	"github.com/llehouerou/issuelink/internal/ui/action"
	"github.com/llehouerou/issuelink/internal/ui/postlist"
	"github.com/llehouerou/issuelink/internal/ui/statusbar"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case action.Msg:
		return m.handleAction(msg)

	case TickMsg:
		return m, TickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input messages belong to the modal.
	if m.modalVisible() {
		_, cmd := m.Modal.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.Width, m.Height = msg.Width, msg.Height
	listHeight := max(msg.Height-ui.StatusBarHeight, 0)

	m.listConn.SetOwnProps(postlist.OwnProps{Width: msg.Width, Height: listHeight})
	own := m.modalConn.OwnProps()
	own.Width, own.Height = msg.Width, msg.Height
	m.modalConn.SetOwnProps(own)
	m.statusConn.SetOwnProps(statusbar.OwnProps{Width: msg.Width})
	return m, nil
}

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	if msg.Action != nil {
		m.logger.Debug("action received", "source", msg.Source, "type", msg.Action.ActionType())
		m.store.Dispatch(msg.Action)
	}
	cmd := m.Modal.TakeCmd()
	if msg.Source == effects.Source && m.runner != nil {
		return m, tea.Batch(m.runner.Wait(), cmd)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.modalVisible() {
		_, cmd := m.Modal.Update(msg)
		return m, cmd
	}
	if msg.String() == "q" {
		return m.quit()
	}
	// Opening the modal from the list focuses its input.
	m.List.Update(msg)
	return m, m.Modal.TakeCmd()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Close()
	m.logger.Info("quitting")
	return m, tea.Quit
}

func (m Model) modalVisible() bool {
	return m.modalConn.Mounted() && m.Modal.Props().Visible
}

