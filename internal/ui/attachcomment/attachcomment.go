// Package attachcomment provides the attach-message-to-issue modal and its
// binding to the application store.
package attachcomment

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/ui"
	"github.com/llehouerou/issuelink/internal/ui/popup"
	"github.com/llehouerou/issuelink/internal/ui/render"
	"github.com/llehouerou/issuelink/internal/ui/styles"
)

// Source names the component in logs and messages.
const Source = "attachcomment"

// DefaultTitle is the modal title when the owner gives none.
const DefaultTitle = "Attach Message to Jira"

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// Model renders the modal from the props it was last given.
type Model struct {
	ui.Base
	props Props
	input textinput.Model
	cmd   tea.Cmd // blink started by focusing, not yet returned
}

// New creates a hidden modal.
func New() *Model {
	ti := textinput.New()
	ti.Placeholder = "ABC-123"
	ti.CharLimit = 64
	ti.Prompt = "> "
	return &Model{input: ti}
}

// SetProps implements connect.Receiver. Opening the modal, or retargeting
// it to another post, clears the issue key.
func (m *Model) SetProps(p Props) {
	prev := m.props
	m.props = p
	m.SetSize(p.Width, p.Height)
	m.input.Width = max(popup.ContentWidth(p.Width, popup.SizeModal)-4, 8)

	switch {
	case !p.Visible:
		m.input.Blur()
	case !prev.Visible || postID(prev.Post) != postID(p.Post):
		m.input.Reset()
		m.cmd = m.input.Focus()
	}
}

// TakeCmd returns the command produced by the last props change, if any,
// and forgets it. Owners that dispatch outside Update return it themselves.
func (m *Model) TakeCmd() tea.Cmd {
	cmd := m.cmd
	m.cmd = nil
	return cmd
}

// Props returns the props last delivered.
func (m *Model) Props() Props {
	return m.props
}

// Ready reports whether the modal has everything needed to submit.
func (m *Model) Ready() bool {
	return m.props.Post != nil && m.props.CurrentTeam != nil
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if !m.props.Visible {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if m.props.Close != nil {
				m.props.Close()
			}
			return m, m.TakeCmd()
		case "enter":
			m.submit()
			return m, m.TakeCmd()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.TakeCmd())
}

// submit creates at most one request at a time; Enter is ignored while a
// request is in flight.
func (m *Model) submit() {
	if m.props.Submitting {
		return
	}
	key := NormalizeIssueKey(m.input.Value())
	if key == "" || !m.Ready() || m.props.Create == nil {
		return
	}
	m.props.Create(appstate.AttachRequest{
		PostID:   m.props.Post.ID,
		IssueKey: key,
		TeamID:   m.props.CurrentTeam.ID,
	})
}

// NormalizeIssueKey trims and upper-cases an issue key.
func NormalizeIssueKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// View implements popup.Popup. A hidden modal renders nothing.
func (m *Model) View() string {
	if !m.props.Visible {
		return ""
	}
	t := styles.T()
	title := t.Heading(m.props.Title)
	if !m.Ready() {
		return title + "\n\n" + t.S().Muted.Render("Loading…")
	}

	width := max(popup.ContentWidth(m.Width(), popup.SizeModal), 20)
	post := m.props.Post
	from := t.S().Muted.Render(render.Truncate(
		"@"+post.Username+" in "+m.props.CurrentTeam.DisplayName, width))
	message := t.S().Base.Render(render.Excerpt(post.Message, width))
	hint := t.S().Subtle.Render("enter: attach • esc: cancel")
	if m.props.Submitting {
		hint = t.S().Muted.Render("Attaching… • esc: close")
	}

	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(from + "\n")
	b.WriteString(message + "\n\n")
	b.WriteString(t.S().Title.Render("Issue key") + "\n")
	b.WriteString(m.input.View() + "\n\n")
	b.WriteString(hint)
	return b.String()
}

func postID(p *appstate.Post) string {
	if p == nil {
		return ""
	}
	return p.ID
}
