package postlist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/connect"
	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui/testutil"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func post(id string, minutes int, msg string) appstate.Post {
	return appstate.Post{ID: id, Username: "bob", Message: msg, CreateAt: t0.Add(time.Duration(minutes) * time.Minute)}
}

func setup(t *testing.T) (*store.Store[appstate.State], *Model, *Connected) {
	t.Helper()
	st := store.New(appstate.Reduce, appstate.Initial())
	st.Dispatch(appstate.ReceiveTeams(appstate.Team{ID: "t1", Name: "eng", DisplayName: "Eng"}))
	st.Dispatch(appstate.SelectTeam("t1"))
	st.Dispatch(appstate.ReceivePosts(post("p1", 0, "first"), post("p2", 1, "second"), post("p3", 2, "third")))

	m := New()
	conn := Connect(st, m, connect.Options[OwnProps, Projected]{Own: OwnProps{Width: 60, Height: 12}})
	conn.Mount()
	t.Cleanup(conn.Unmount)
	return st, m, conn
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEqual(t *testing.T) {
	a, b := &appstate.Post{ID: "a"}, &appstate.Post{ID: "a"}
	team := &appstate.Team{ID: "t1"}

	tests := []struct {
		name string
		x, y Projected
		want bool
	}{
		{"both empty", Projected{}, Projected{}, true},
		{"same pointers", Projected{Posts: []*appstate.Post{a}, CurrentTeam: team}, Projected{Posts: []*appstate.Post{a}, CurrentTeam: team}, true},
		{"equal values different records", Projected{Posts: []*appstate.Post{a}}, Projected{Posts: []*appstate.Post{b}}, false},
		{"length differs", Projected{Posts: []*appstate.Post{a}}, Projected{}, false},
		{"team differs", Projected{CurrentTeam: team}, Projected{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.x, tt.y))
		})
	}
}

func TestOpenSelected(t *testing.T) {
	st, m, _ := setup(t)

	m.Update(key("j"))
	m.Update(key("a"))

	assert.True(t, appstate.IsAttachCommentModalVisible(st.GetState()))
	assert.Equal(t, "p2", appstate.AttachCommentModalPostID(st.GetState()))
}

func TestOpenDispatchesOnce(t *testing.T) {
	rec := &testutil.Recorder[appstate.State]{}
	st := store.New(appstate.Reduce, appstate.Initial(), rec.Middleware())
	st.Dispatch(appstate.ReceivePosts(post("p1", 0, "hi")))
	rec.Reset()
	m := New()
	conn := Connect(st, m, connect.Options[OwnProps, Projected]{Own: OwnProps{Width: 40, Height: 10}})
	conn.Mount()
	defer conn.Unmount()

	m.Update(key("enter"))

	require.Len(t, rec.Actions(), 1)
	assert.Equal(t, appstate.OpenAttachCommentModal("p1"), rec.Actions()[0])
}

func TestOpenOnEmptyListDoesNothing(t *testing.T) {
	st := store.New(appstate.Reduce, appstate.Initial())
	m := New()
	conn := Connect(st, m, connect.Options[OwnProps, Projected]{Own: OwnProps{Width: 40, Height: 10}})
	conn.Mount()
	defer conn.Unmount()

	m.Update(key("a"))

	assert.False(t, appstate.IsAttachCommentModalVisible(st.GetState()))
	assert.Contains(t, testutil.StripANSI(m.View()), "No messages")
}

func TestCursorFollowsSelectedPost(t *testing.T) {
	st, m, _ := setup(t)
	m.Update(key("down"))
	require.Equal(t, "p2", m.Selected().ID)

	// An older post arrives and lands before the selection
	st.Dispatch(appstate.ReceivePosts(post("p0", -5, "older")))

	assert.Equal(t, "p2", m.Selected().ID)
}

func TestUnrelatedChangeDoesNotRerender(t *testing.T) {
	st, _, conn := setup(t)
	renders := conn.Renders()

	st.Dispatch(appstate.OpenAttachCommentModal("p1"))
	st.Dispatch(appstate.CloseAttachCommentModal())
	st.Dispatch(appstate.ReceivePosts())

	assert.Equal(t, renders, conn.Renders())
}

func TestView(t *testing.T) {
	_, m, _ := setup(t)

	view := testutil.StripANSI(m.View())

	assert.Contains(t, view, "Messages · Eng")
	assert.Contains(t, view, "Mar 01 09:00  @bob  first")
	assert.Contains(t, view, "@bob  third")
	assert.Len(t, strings.Split(strings.TrimRight(view, "\n"), "\n"), 12)
}

func TestUnmountStopsUpdates(t *testing.T) {
	st, m, conn := setup(t)
	conn.Unmount()

	st.Dispatch(appstate.ReceivePosts(post("p9", 10, "late")))

	assert.Len(t, m.props.Posts, 3)
	assert.Zero(t, st.SubscriberCount())
}
