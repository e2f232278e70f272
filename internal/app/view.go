package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/issuelink/internal/ui/popup"
)

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	base := lipgloss.JoinVertical(lipgloss.Left, m.List.View(), m.Status.View())
	if !m.modalVisible() {
		return base
	}

	modal := popup.RenderBordered(m.Modal.View(), m.Width, m.Height, popup.SizeModal)
	return popup.Compose(base, modal, m.Width)
}
