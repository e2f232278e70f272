// Package effects runs blocking work off the UI goroutine and hands the
// resulting actions back to the bubbletea update loop.
package effects

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui/action"
)

// Source is the action.Msg source for results delivered by a Runner.
const Source = "effects"

// Work performs a blocking task and returns the action describing its
// outcome. A nil action reports nothing.
type Work func() store.Action

// Spawner starts work in the background.
type Spawner interface {
	Spawn(w Work)
}

// SpawnerFunc adapts a function into a Spawner.
type SpawnerFunc func(w Work)

// Spawn calls f.
func (f SpawnerFunc) Spawn(w Work) { f(w) }

// Inline runs work synchronously and passes the result to dispatch.
func Inline(dispatch store.Dispatch) Spawner {
	return SpawnerFunc(func(w Work) {
		if a := w(); a != nil {
			dispatch(a)
		}
	})
}

// Runner executes work on goroutines and queues the resulting actions.
type Runner struct {
	results chan store.Action
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex // orders wg.Add against Close
	closed bool
}

// NewRunner creates a runner whose result queue holds buffer actions
// before workers block.
func NewRunner(buffer int) *Runner {
	return &Runner{
		results: make(chan store.Action, max(buffer, 0)),
		done:    make(chan struct{}),
	}
}

// Spawn runs w on a new goroutine. It never blocks the caller. Work
// spawned after Close is dropped. Spawn is safe to call concurrently with
// Close.
func (r *Runner) Spawn(w Work) {
	if w == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		a := w()
		if a == nil {
			return
		}
		select {
		case r.results <- a:
		case <-r.done:
		}
	}()
}

// Wait returns a command that blocks until the next result and delivers it
// as an action.Msg from Source. The update loop re-arms it after each
// delivery. After Close the command returns nil.
func (r *Runner) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case a := <-r.results:
			return action.Msg{Source: Source, Action: a}
		case <-r.done:
			return nil
		}
	}
}

// Close stops delivery and waits for running work to return.
func (r *Runner) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.done)
	}
	r.mu.Unlock()
	r.wg.Wait()
}
