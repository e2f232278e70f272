// Package statusbar shows the outcome of the latest attach request.
package statusbar

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/connect"
	"github.com/llehouerou/issuelink/internal/errmsg"
	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui"
	"github.com/llehouerou/issuelink/internal/ui/render"
	"github.com/llehouerou/issuelink/internal/ui/styles"
)

// Source names the component in logs.
const Source = "statusbar"

const idleHint = "a: attach message • q: quit"

// OwnProps are given by the owner.
type OwnProps struct {
	Width int
}

// Projected is read from the store.
type Projected struct {
	Pending  *appstate.AttachRequest
	Last     *appstate.Attachment
	Recorded int
}

// Props are the merged props. The status bar dispatches nothing.
type Props struct {
	Width    int
	Pending  *appstate.AttachRequest
	Last     *appstate.Attachment
	Recorded int
}

// Connected is the status bar bound to the application store.
type Connected = connect.Connected[appstate.State, OwnProps, Projected, struct{}, Props]

// Project reads the status bar's props from state.
func Project(s appstate.State) Projected {
	return Projected{
		Pending:  appstate.PendingAttachment(s),
		Last:     appstate.LastAttachment(s),
		Recorded: len(appstate.RecentAttachments(s)),
	}
}

// MergeProps combines own and projected props.
func MergeProps(own OwnProps, p Projected, _ struct{}) Props {
	return Props{Width: own.Width, Pending: p.Pending, Last: p.Last, Recorded: p.Recorded}
}

// Connect binds m to src.
func Connect(src connect.Source[appstate.State], m *Model, opts connect.Options[OwnProps, Projected]) *Connected {
	if opts.Equal == nil {
		opts.Equal = connect.Shallow[Projected]
	}
	if opts.Name == "" {
		opts.Name = Source
	}
	var receiver connect.Receiver[Props]
	if m != nil {
		receiver = m
	}
	return connect.Connect[appstate.State, OwnProps, Projected, struct{}, Props](
		src, receiver, Project, func(store.Dispatch) struct{} { return struct{}{} }, MergeProps, opts)
}

// Model renders a single bordered line.
type Model struct {
	ui.Base
	props Props
	now   func() time.Time
}

// New creates a status bar. A nil now uses time.Now.
func New(now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	return &Model{now: now}
}

// SetProps implements connect.Receiver.
func (m *Model) SetProps(p Props) {
	m.props = p
	m.SetSize(p.Width, ui.StatusBarHeight)
}

// Text returns the unstyled status line.
func (m *Model) Text() string {
	switch last := m.props.Last; {
	case m.props.Pending != nil:
		return fmt.Sprintf("Attaching to %s…", m.props.Pending.IssueKey)
	case last == nil:
		return idleHint
	case last.Status == appstate.StatusFailed:
		return errmsg.FormatWith(errmsg.OpAttachComment, last.IssueKey, errors.New(last.Error))
	default:
		return fmt.Sprintf("Attached to %s %s", last.IssueKey,
			humanize.RelTime(last.CreatedAt, m.now(), "ago", "from now"))
	}
}

// View renders the status line inside a panel border.
func (m *Model) View() string {
	width := max(m.Width(), 10)
	inner := width - 2 // border

	t := styles.T()
	style := t.S().Muted
	switch {
	case m.props.Pending != nil:
		style = t.S().Warning
	case m.props.Last != nil && m.props.Last.Status == appstate.StatusFailed:
		style = t.S().Error
	case m.props.Last != nil:
		style = t.S().Success
	}

	right := ""
	if m.props.Recorded > 0 {
		right = t.S().Subtle.Render(humanize.Comma(int64(m.props.Recorded)) + " recorded")
	}
	left := style.Render(render.Truncate(m.Text(), max(inner-lipgloss.Width(right)-1, 1)))
	return t.S().Panel.Width(inner).Render(render.Row(left, right, inner))
}
