package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui/popup"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ABC-1", "ABC-1"},
		{"bold", "\x1b[1mbold\x1b[0m", "bold"},
		{"truecolor", "\x1b[38;2;167;139;250mA\x1b[0m", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripANSI(tt.input); got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountLines(t *testing.T) {
	if got := CountLines("a\n\n  \nb\n"); got != 2 {
		t.Errorf("CountLines = %d, want 2", got)
	}
}

func TestAssertContains(t *testing.T) {
	if msg := AssertContains("\x1b[1mhello\x1b[0m", "hello"); msg != "" {
		t.Errorf("unexpected failure: %s", msg)
	}
	if msg := AssertContains("hello", "bye"); msg == "" {
		t.Error("expected failure message")
	}
	if msg := AssertNotContains("hello", "bye"); msg != "" {
		t.Errorf("unexpected failure: %s", msg)
	}
}

type ping struct{}

func (ping) ActionType() string { return "test.ping" }

func TestRecorder(t *testing.T) {
	var rec Recorder[int]
	st := store.New(func(s int, _ store.Action) int { return s + 1 }, 0, rec.Middleware())

	st.Dispatch(ping{})
	st.Dispatch(ping{})

	if got := len(rec.Actions()); got != 2 {
		t.Fatalf("recorded %d actions, want 2", got)
	}
	if st.GetState() != 2 {
		t.Errorf("recorder must forward to the reducer, state = %d", st.GetState())
	}
	rec.Reset()
	if len(rec.Actions()) != 0 {
		t.Error("Reset should clear actions")
	}
}

// echoPopup shows the last key it received.
type echoPopup struct {
	last          string
	width, height int
}

func (p *echoPopup) Init() tea.Cmd { return func() tea.Msg { return "init" } }

func (p *echoPopup) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		p.last = k.String()
		return p, func() tea.Msg { return p.last }
	}
	return p, nil
}

func (p *echoPopup) View() string { return "last: " + p.last }

func (p *echoPopup) SetSize(width, height int) { p.width, p.height = width, height }

func TestPopupHarness(t *testing.T) {
	p := &echoPopup{}
	h := NewPopupHarness(p)

	if len(h.Commands()) != 1 {
		t.Fatalf("init command not captured, got %d", len(h.Commands()))
	}

	h.SetSize(40, 10)
	if p.width != 40 || p.height != 10 {
		t.Errorf("SetSize not forwarded: %dx%d", p.width, p.height)
	}

	cmd := h.SendKey("x")
	if got := ExecuteCmd(cmd); got != "x" {
		t.Errorf("command result = %v, want x", got)
	}
	if !h.ViewContains("last: x") {
		t.Errorf("view = %q", h.View())
	}

	h.SendEscape()
	if !h.ViewContains("last: esc") {
		t.Errorf("view = %q", h.View())
	}

	h.ClearCommands()
	if len(h.Commands()) != 0 {
		t.Error("ClearCommands should empty the list")
	}
	if ExecuteCmd(nil) != nil {
		t.Error("ExecuteCmd(nil) should be nil")
	}
}
