// Package postlist shows the workspace's posts and opens the attach modal
// for the selected one.
package postlist

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/connect"
	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui"
	"github.com/llehouerou/issuelink/internal/ui/cursor"
	"github.com/llehouerou/issuelink/internal/ui/render"
	"github.com/llehouerou/issuelink/internal/ui/styles"
)

// Source names the component in logs.
const Source = "postlist"

const timeLayout = "Jan 02 15:04"

// OwnProps are given by the list's owner.
type OwnProps struct {
	Width, Height int
}

// Projected is the part of the props derived from the store.
type Projected struct {
	Posts       []*appstate.Post
	CurrentTeam *appstate.Team
}

// Actions are the bound action creators.
type Actions struct {
	Open func(postID string)
}

// Props are the merged props delivered to the Model.
type Props struct {
	Width, Height int
	Posts         []*appstate.Post
	CurrentTeam   *appstate.Team
	Open          func(postID string)
}

// Connected is the post list bound to the application store.
type Connected = connect.Connected[appstate.State, OwnProps, Projected, Actions, Props]

// Project reads the list's props from state.
func Project(s appstate.State) Projected {
	return Projected{
		Posts:       appstate.Posts(s),
		CurrentTeam: appstate.CurrentTeam(s),
	}
}

// Equal compares projections by record identity. The reducer keeps
// untouched records, so unchanged posts compare equal.
func Equal(a, b Projected) bool {
	if a.CurrentTeam != b.CurrentTeam || len(a.Posts) != len(b.Posts) {
		return false
	}
	for i := range a.Posts {
		if a.Posts[i] != b.Posts[i] {
			return false
		}
	}
	return true
}

// BindActions binds Open to the modal-opening action.
func BindActions(dispatch store.Dispatch) Actions {
	return Actions{
		Open: func(postID string) {
			dispatch(appstate.OpenAttachCommentModal(postID))
		},
	}
}

// MergeProps lays projected and bound fields over own props.
func MergeProps(own OwnProps, p Projected, a Actions) Props {
	return Props{
		Width:       own.Width,
		Height:      own.Height,
		Posts:       p.Posts,
		CurrentTeam: p.CurrentTeam,
		Open:        a.Open,
	}
}

// Connect binds m to src. A nil opts.Equal defaults to Equal.
func Connect(src connect.Source[appstate.State], m *Model, opts connect.Options[OwnProps, Projected]) *Connected {
	if opts.Equal == nil {
		opts.Equal = Equal
	}
	if opts.Name == "" {
		opts.Name = Source
	}
	var receiver connect.Receiver[Props]
	if m != nil {
		receiver = m
	}
	return connect.Connect[appstate.State, OwnProps, Projected, Actions, Props](
		src, receiver, Project, BindActions, MergeProps, opts)
}

// Model is a cursor-driven list of posts.
type Model struct {
	ui.Base
	props  Props
	cursor cursor.Cursor
}

// New creates an empty list.
func New() *Model {
	return &Model{cursor: cursor.New(ui.ScrollMargin)}
}

// SetProps implements connect.Receiver. The cursor follows the selected
// post when the list changes around it.
func (m *Model) SetProps(p Props) {
	selected := m.Selected()
	m.props = p
	m.SetSize(p.Width, p.Height)

	n, h := len(p.Posts), m.listHeight()
	if selected != nil {
		for i, post := range p.Posts {
			if post.ID == selected.ID {
				m.cursor.Jump(i, n, h)
				return
			}
		}
	}
	m.cursor.ClampToBounds(n, h)
}

// Selected returns the post under the cursor, or nil.
func (m *Model) Selected() *appstate.Post {
	pos := m.cursor.Pos()
	if pos < 0 || pos >= len(m.props.Posts) {
		return nil
	}
	return m.props.Posts[pos]
}

func (m *Model) listHeight() int {
	return m.ListHeight(ui.PanelOverhead)
}

// Update handles navigation and opening the modal.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "a", "enter":
		if p := m.Selected(); p != nil && m.props.Open != nil {
			m.props.Open(p.ID)
		}
	default:
		m.cursor.HandleKey(key.String(), len(m.props.Posts), m.listHeight())
	}
	return m, nil
}

// View renders the list in a bordered panel.
func (m *Model) View() string {
	if m.Width() < 4 || m.Height() < ui.PanelOverhead {
		return ""
	}
	t := styles.T()
	inner := m.Width() - 2

	header := "Messages"
	if team := m.props.CurrentTeam; team != nil {
		header += " · " + team.DisplayName
	}
	lines := []string{
		t.Heading(render.Truncate(header, inner)),
		t.S().Subtle.Render(strings.Repeat("─", inner)),
	}

	posts := m.props.Posts
	start, end := m.cursor.VisibleRange(len(posts), m.listHeight())
	if len(posts) == 0 {
		lines = append(lines, t.S().Muted.Render("No messages"))
	}
	for i := start; i < end; i++ {
		line := render.TruncateAndPad(row(posts[i], inner), inner)
		if i == m.cursor.Pos() {
			line = t.S().Cursor.Render(line)
		} else {
			line = t.S().Base.Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < m.Height()-ui.BorderHeight {
		lines = append(lines, "")
	}

	return t.S().Panel.Width(inner).Render(strings.Join(lines, "\n"))
}

func row(p *appstate.Post, width int) string {
	stamp := ""
	if !p.CreateAt.IsZero() {
		stamp = p.CreateAt.Format(timeLayout) + "  "
	}
	prefix := stamp + "@" + p.Username
	if p.RootID != "" && p.ParentID != "" {
		prefix = stamp + "↳ @" + p.Username
	}
	return prefix + "  " + render.Excerpt(p.Message, max(width-len(prefix)-2, 1))
}
