// Package testutil provides common testing utilities for UI components.
package testutil

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/issuelink/internal/store"
)

// StripANSI removes ANSI escape codes from a string for easier testing.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// MeasureWidth returns the visual width of a string, accounting for
// wide characters and stripping ANSI codes.
func MeasureWidth(s string) int {
	return lipgloss.Width(StripANSI(s))
}

// ContainsLine checks if any line in the output contains the given substring.
func ContainsLine(output, substr string) bool {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// CountLines returns the number of non-empty lines in the output.
func CountLines(output string) int {
	count := 0
	for line := range strings.SplitSeq(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// AssertContains returns an error message if output doesn't contain substr,
// or empty string if it does.
func AssertContains(output, substr string) string {
	if !strings.Contains(StripANSI(output), substr) {
		return "expected output to contain " + substr
	}
	return ""
}

// AssertNotContains returns an error message if output contains substr,
// or empty string if it doesn't.
func AssertNotContains(output, substr string) string {
	if strings.Contains(StripANSI(output), substr) {
		return "expected output to NOT contain " + substr
	}
	return ""
}

// Recorder is a store middleware that records every dispatched action.
type Recorder[S any] struct {
	mu      sync.Mutex
	actions []store.Action
}

// Middleware returns the recording middleware. Install it first so it sees
// every action, including those dispatched by later middleware.
func (r *Recorder[S]) Middleware() store.Middleware[S] {
	return func(_ store.API[S]) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(a store.Action) {
				r.mu.Lock()
				r.actions = append(r.actions, a)
				r.mu.Unlock()
				next(a)
			}
		}
	}
}

// Actions returns a copy of the recorded actions.
func (r *Recorder[S]) Actions() []store.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Reset forgets recorded actions.
func (r *Recorder[S]) Reset() {
	r.mu.Lock()
	r.actions = nil
	r.mu.Unlock()
}
