// Package store provides a single source of truth for application state.
// State is replaced only by reducing dispatched actions, and listeners are
// notified after every dispatch.
package store

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrReducing is the panic value raised when a reducer dispatches.
var ErrReducing = errors.New("store: dispatch called while reducing")

// Action describes an intended state change.
// ActionType returns a stable identifier used for logging.
type Action interface {
	ActionType() string
}

// Reducer computes the next state from the current state and an action.
// It must not mutate its input.
type Reducer[S any] func(state S, action Action) S

// Dispatch submits an action to a store.
type Dispatch func(action Action)

// API is the view of the store handed to middleware.
type API[S any] struct {
	GetState func() S
	Dispatch Dispatch
}

// Middleware wraps the dispatch chain. Calling next forwards the action
// towards the reducer.
type Middleware[S any] func(api API[S]) func(next Dispatch) Dispatch

type subscriber struct {
	id        int
	fn        func()
	scheduler Scheduler
	active    *atomic.Bool
}

// Store holds state of type S.
type Store[S any] struct {
	mu       sync.Mutex
	state    S
	version  uint64
	reducer  Reducer[S]
	reducing bool
	subs     []subscriber
	next     int
	dispatch Dispatch
}

// New creates a store with an initial state. Middleware runs in the order
// given: the first middleware sees an action first.
func New[S any](reducer Reducer[S], initial S, middleware ...Middleware[S]) *Store[S] {
	if reducer == nil {
		reducer = func(state S, _ Action) S { return state }
	}
	s := &Store[S]{
		state:   initial,
		reducer: reducer,
	}

	api := API[S]{
		GetState: s.GetState,
		Dispatch: func(action Action) { s.dispatch(action) },
	}
	dispatch := Dispatch(s.reduce)
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] == nil {
			continue
		}
		dispatch = middleware[i](api)(dispatch)
	}
	s.dispatch = dispatch
	return s
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	return state
}

// Version returns the number of actions reduced so far.
func (s *Store[S]) Version() uint64 {
	s.mu.Lock()
	v := s.version
	s.mu.Unlock()
	return v
}

// Dispatch runs action through middleware and the reducer, then notifies
// listeners. A nil action is ignored.
func (s *Store[S]) Dispatch(action Action) {
	if action == nil {
		return
	}
	s.dispatch(action)
}

// Subscribe registers fn to run after every dispatch.
// The returned function removes the registration; calling it more than
// once is harmless.
func (s *Store[S]) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers fn and runs it through scheduler.
// If scheduler is nil, fn runs synchronously inside Dispatch.
func (s *Store[S]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if fn == nil {
		return func() {}
	}
	active := &atomic.Bool{}
	active.Store(true)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs = append(s.subs, subscriber{id: id, fn: fn, scheduler: scheduler, active: active})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			active.Store(false)
			s.mu.Lock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// SubscriberCount returns the number of registered listeners.
func (s *Store[S]) SubscriberCount() int {
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	return n
}

func (s *Store[S]) reduce(action Action) {
	if action == nil {
		return
	}
	s.mu.Lock()
	if s.reducing {
		s.mu.Unlock()
		panic(ErrReducing)
	}
	s.reducing = true
	current := s.state
	s.mu.Unlock()

	next := s.runReducer(current, action)

	s.mu.Lock()
	s.state = next
	s.version++
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	notify(subs)
}

func (s *Store[S]) runReducer(current S, action Action) S {
	defer func() {
		s.mu.Lock()
		s.reducing = false
		s.mu.Unlock()
	}()
	return s.reducer(current, action)
}

// notify runs listeners in registration order. A listener removed by an
// earlier listener in the same pass is skipped.
func notify(subs []subscriber) {
	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		if sub.scheduler == nil {
			sub.fn()
			continue
		}
		fn, active := sub.fn, sub.active
		sub.scheduler.Schedule(func() {
			if active.Load() {
				fn()
			}
		})
	}
}
