package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/attach"
	"github.com/llehouerou/issuelink/internal/config"
	"github.com/llehouerou/issuelink/internal/effects"
	"github.com/llehouerou/issuelink/internal/outbox"
	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui/action"
	"github.com/llehouerou/issuelink/internal/ui/testutil"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		SiteURL:  "https://chat.example.com",
		Username: "alice",
		Workspace: config.WorkspaceConfig{
			Teams: []config.TeamConfig{{ID: "t1", Name: "eng", DisplayName: "Eng"}},
			Posts: []config.PostConfig{
				{ID: "p1", Username: "bob", Message: "hi", CreateAt: "2024-03-01T09:00:00Z"},
				{ID: "p2", Username: "carol", Message: "there", CreateAt: "2024-03-01T09:05:00Z"},
			},
		},
	}
}

// newTestModel wires the store like main does, with effects run by runner
// when given and inline otherwise.
func newTestModel(t *testing.T, ob outbox.Interface, runner *effects.Runner) Model {
	t.Helper()
	var spawner effects.Spawner
	if runner != nil {
		spawner = runner
	}
	settings := attach.Settings{SiteURL: "https://chat.example.com", Username: "alice", Now: func() time.Time { return testNow }}
	st := store.New(appstate.Reduce, appstate.Initial(), attach.Middleware(ob, spawner, settings, nil))
	if err := Seed(st, testConfig(), ob, nil); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	m := New(Deps{Store: st, Runner: runner, Now: func() time.Time { return testNow }})
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatal("Update should return Model")
	}
	return result, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdate_WindowSizeMsg_ResizesComponents(t *testing.T) {
	m := newTestModel(t, outbox.NewMock(), nil)

	if m.Width != 100 || m.Height != 30 {
		t.Errorf("size = %dx%d, want 100x30", m.Width, m.Height)
	}
	if w, h := m.List.Size(); w != 100 || h != 27 {
		t.Errorf("list size = %dx%d, want 100x27", w, h)
	}
	if m.Modal.Props().Width != 100 {
		t.Errorf("modal width = %d, want 100", m.Modal.Props().Width)
	}
}

func TestSeed_LoadsWorkspace(t *testing.T) {
	m := newTestModel(t, outbox.NewMock(), nil)
	s := m.store.GetState()

	if team := appstate.CurrentTeam(s); team == nil || team.ID != "t1" {
		t.Errorf("current team = %+v, want t1 from first configured team", team)
	}
	if got := len(appstate.Posts(s)); got != 2 {
		t.Errorf("posts = %d, want 2", got)
	}
}

func TestSeed_LoadsRecentAttachments(t *testing.T) {
	ob := outbox.NewMock()
	if _, err := ob.Enqueue(appstate.Attachment{PostID: "p1", IssueKey: "OLD-1", CreatedAt: testNow}); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, ob, nil)

	last := appstate.LastAttachment(m.store.GetState())
	if last == nil || last.IssueKey != "OLD-1" {
		t.Errorf("last = %+v, want OLD-1", last)
	}
}

func TestSeed_InvalidPostTime(t *testing.T) {
	cfg := testConfig()
	cfg.Workspace.Posts[0].CreateAt = "soon"
	st := store.New(appstate.Reduce, appstate.Initial())

	if err := Seed(st, cfg, nil, nil); err == nil {
		t.Error("expected error for invalid create_at")
	}
}

type failingOutbox struct{ *outbox.Mock }

func (failingOutbox) Recent(int) ([]appstate.Attachment, error) { return nil, errors.New("locked") }

func TestSeed_OutboxErrorIsNotFatal(t *testing.T) {
	st := store.New(appstate.Reduce, appstate.Initial())

	if err := Seed(st, testConfig(), failingOutbox{outbox.NewMock()}, nil); err != nil {
		t.Errorf("Seed returned %v, want nil", err)
	}
	if appstate.LastAttachment(st.GetState()) != nil {
		t.Error("no attachments expected")
	}
}

func TestAttachFlow_Inline(t *testing.T) {
	ob := outbox.NewMock()
	m := newTestModel(t, ob, nil)

	m, _ = update(t, m, keyMsg("a"))
	if !m.modalVisible() {
		t.Fatal("a should open the modal")
	}
	if got := appstate.AttachCommentModalPostID(m.store.GetState()); got != "p1" {
		t.Errorf("modal post = %q, want p1", got)
	}
	if !strings.Contains(testutil.StripANSI(m.View()), "Attach Message to Jira") {
		t.Error("modal not rendered over the list")
	}

	m, _ = update(t, m, keyMsg("abc-7"))
	m, _ = update(t, m, keyMsg("enter"))

	if m.modalVisible() {
		t.Error("modal should close after a successful attach")
	}
	last := appstate.LastAttachment(m.store.GetState())
	if last == nil || last.IssueKey != "ABC-7" || last.Status != appstate.StatusSent {
		t.Fatalf("last = %+v", last)
	}
	if !strings.Contains(last.Body, "https://chat.example.com/eng/pl/p1") {
		t.Errorf("body = %q", last.Body)
	}
	if !strings.Contains(testutil.StripANSI(m.View()), "Attached to ABC-7 now") {
		t.Error("status bar should report the attachment")
	}
}

func TestAttachFlow_Runner(t *testing.T) {
	ob := outbox.NewMock()
	runner := effects.NewRunner(1)
	defer runner.Close()
	m := newTestModel(t, ob, runner)

	m, _ = update(t, m, keyMsg("j"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("XY-1"))
	m, _ = update(t, m, keyMsg("enter"))

	if appstate.PendingAttachment(m.store.GetState()) == nil {
		t.Fatal("request should be pending until the runner reports")
	}
	if !strings.Contains(testutil.StripANSI(m.View()), "Attaching to XY-1") {
		t.Error("status bar should show the pending request")
	}

	msg := runner.Wait()()
	am, ok := msg.(action.Msg)
	if !ok || am.Source != effects.Source {
		t.Fatalf("runner delivered %#v", msg)
	}
	m, cmd := update(t, m, am)
	if cmd == nil {
		t.Error("runner results should re-arm the wait command")
	}

	last := appstate.LastAttachment(m.store.GetState())
	if last == nil || last.PostID != "p2" || last.Status != appstate.StatusSent {
		t.Errorf("last = %+v, want sent attachment for p2", last)
	}
}

func TestAttachFlow_SecondEnterWhilePendingRecordsOnce(t *testing.T) {
	ob := outbox.NewMock()
	runner := effects.NewRunner(2)
	defer runner.Close()
	m := newTestModel(t, ob, runner)

	m, _ = update(t, m, keyMsg("a"))
	m, _ = update(t, m, keyMsg("abc-1"))
	m, _ = update(t, m, keyMsg("enter"))
	m, _ = update(t, m, keyMsg("enter"))

	am, ok := runner.Wait()().(action.Msg)
	if !ok {
		t.Fatal("runner should deliver the first result")
	}
	m, _ = update(t, m, am)

	rows, err := ob.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("outbox rows = %d, want 1", len(rows))
	}
	if m.modalVisible() {
		t.Error("modal should close after the attach succeeds")
	}
}

func TestOpeningModalReturnsBlinkCmd(t *testing.T) {
	m := newTestModel(t, outbox.NewMock(), nil)

	m, cmd := update(t, m, keyMsg("a"))
	if cmd == nil {
		t.Fatal("opening the modal should start the cursor blink")
	}

	m, _ = update(t, m, keyMsg("esc"))
	_, cmd = update(t, m, keyMsg("a"))
	if cmd == nil {
		t.Error("reopening the modal should start the cursor blink again")
	}
}

func TestEscapeClosesModalAndQKeyIsTyped(t *testing.T) {
	m := newTestModel(t, outbox.NewMock(), nil)
	m, _ = update(t, m, keyMsg("a"))

	// q is text while the modal is open
	m, _ = update(t, m, keyMsg("q"))
	if !m.Mounted() {
		t.Fatal("q must not quit while the modal is open")
	}
	if got := m.Modal.Props().Post; got == nil || got.ID != "p1" {
		t.Errorf("modal post = %+v, want p1", got)
	}

	m, _ = update(t, m, keyMsg("esc"))
	if m.modalVisible() {
		t.Error("esc should close the modal")
	}
}

func TestQuitUnmountsComponents(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := newTestModel(t, outbox.NewMock(), nil)

			m, cmd := update(t, m, keyMsg(k))

			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.Mounted() {
				t.Error("components still mounted")
			}
			if n := m.store.SubscriberCount(); n != 0 {
				t.Errorf("subscriptions leaked: %d", n)
			}
		})
	}
}

func TestView_EmptyBeforeSize(t *testing.T) {
	st := store.New(appstate.Reduce, appstate.Initial())
	m := New(Deps{Store: st})
	defer m.Close()

	if m.View() != "" {
		t.Error("view should be empty before the first WindowSizeMsg")
	}
}
