// Package connect binds a presentation component to a store.
//
// A Connected component projects store state into props, binds action
// creators to the store's dispatch, and merges both with the props given
// by its owner. It subscribes on Mount and unsubscribes on Unmount, and it
// re-renders only when the projected props change.
//
// Connected is not safe for concurrent use: store notifications and owner
// calls are expected on the UI goroutine.
package connect

import (
	"log/slog"

	"github.com/llehouerou/issuelink/internal/store"
)

// Source is the store contract a Connected component depends on.
type Source[S any] interface {
	GetState() S
	Dispatch(action store.Action)
	Subscribe(fn func()) func()
}

// Projector derives props from state. It must be pure.
type Projector[S, P any] func(state S) P

// ActionBinder turns a dispatch function into callable props.
type ActionBinder[A any] func(dispatch store.Dispatch) A

// MergeFunc combines own props, projected props and bound actions into the
// final props. Projected and action fields take precedence over own props
// when both carry the same field.
type MergeFunc[O, P, A, M any] func(own O, projected P, actions A) M

// EqualFunc reports whether two projections are equal. It is the
// dirty-check run on every store notification.
type EqualFunc[P any] func(a, b P) bool

// Shallow compares projections with ==, which compares each top-level field
// by value and record pointers by identity.
func Shallow[P comparable](a, b P) bool {
	return a == b
}

// Receiver is the presentation component.
type Receiver[M any] interface {
	SetProps(props M)
}

// ReceiverFunc adapts a function into a Receiver.
type ReceiverFunc[M any] func(props M)

// SetProps calls f.
func (f ReceiverFunc[M]) SetProps(props M) {
	if f != nil {
		f(props)
	}
}

// Options configures Connect.
type Options[O, P any] struct {
	// Own is the initial set of owner props.
	Own O
	// Equal is the dirty-check. Nil means every notification re-renders.
	Equal EqualFunc[P]
	// Scheduler defers notifications when the source supports it.
	Scheduler store.Scheduler
	// Name labels log records.
	Name   string
	Logger *slog.Logger
}

// Connected is a component bound to a store.
type Connected[S, O, P, A, M any] struct {
	src       Source[S]
	receiver  Receiver[M]
	project   Projector[S, P]
	merge     MergeFunc[O, P, A, M]
	equal     EqualFunc[P]
	scheduler store.Scheduler
	logger    *slog.Logger

	subs      store.Subscriptions
	mounted   bool
	actions   A
	own       O
	projected P
	props     M
	renders   int
}

// Connect binds receiver to src. Actions are bound once here and reused for
// the lifetime of the returned component. Nothing is subscribed until Mount.
func Connect[S, O, P, A, M any](
	src Source[S],
	receiver Receiver[M],
	project Projector[S, P],
	bind ActionBinder[A],
	merge MergeFunc[O, P, A, M],
	opts Options[O, P],
) *Connected[S, O, P, A, M] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Name != "" {
		logger = logger.With("component", opts.Name)
	}
	c := &Connected[S, O, P, A, M]{
		src:       src,
		receiver:  receiver,
		project:   project,
		merge:     merge,
		equal:     opts.Equal,
		scheduler: opts.Scheduler,
		logger:    logger,
		own:       opts.Own,
	}
	if bind != nil {
		c.actions = bind(src.Dispatch)
	}
	return c
}

// Mount subscribes to the store and renders the initial props.
// If the initial render panics, the subscription is released before the
// panic continues. Mounting twice is a no-op.
func (c *Connected[S, O, P, A, M]) Mount() {
	if c.mounted {
		return
	}
	c.subs.Subscribe(c.src, c.scheduler, c.onStoreChange)
	c.mounted = true

	rendered := false
	defer func() {
		if !rendered {
			c.release()
		}
	}()

	c.projected = c.project(c.src.GetState())
	c.render()
	rendered = true
	c.logger.Debug("mounted")
}

// Unmount releases the store subscription. Unmounting twice is a no-op.
func (c *Connected[S, O, P, A, M]) Unmount() {
	if !c.mounted {
		return
	}
	c.release()
	c.logger.Debug("unmounted", "renders", c.renders)
}

// Mounted reports whether the component is subscribed.
func (c *Connected[S, O, P, A, M]) Mounted() bool {
	return c.mounted
}

// SetOwnProps replaces the owner props and re-renders when mounted.
func (c *Connected[S, O, P, A, M]) SetOwnProps(own O) {
	c.own = own
	if c.mounted {
		c.render()
	}
}

// OwnProps returns the current owner props.
func (c *Connected[S, O, P, A, M]) OwnProps() O {
	return c.own
}

// Props returns the props last delivered to the receiver.
func (c *Connected[S, O, P, A, M]) Props() M {
	return c.props
}

// Actions returns the bound actions.
func (c *Connected[S, O, P, A, M]) Actions() A {
	return c.actions
}

// Renders returns how many times props were delivered.
func (c *Connected[S, O, P, A, M]) Renders() int {
	return c.renders
}

func (c *Connected[S, O, P, A, M]) release() {
	c.subs.Clear()
	c.mounted = false
}

func (c *Connected[S, O, P, A, M]) onStoreChange() {
	if !c.mounted {
		return
	}
	next := c.project(c.src.GetState())
	if c.equal != nil && c.equal(c.projected, next) {
		return
	}
	c.projected = next
	c.render()
}

func (c *Connected[S, O, P, A, M]) render() {
	c.props = c.merge(c.own, c.projected, c.actions)
	c.renders++
	if c.receiver != nil {
		c.receiver.SetProps(c.props)
	}
}
