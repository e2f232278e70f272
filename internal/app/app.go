// Package app contains the root bubbletea model.
package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/connect"
	"github.com/llehouerou/issuelink/internal/effects"
	"github.com/llehouerou/issuelink/internal/store"
	"github.com/llehouerou/issuelink/internal/ui/attachcomment"
	"github.com/llehouerou/issuelink/internal/ui/postlist"
	"github.com/llehouerou/issuelink/internal/ui/statusbar"
)

// Deps are the collaborators the root model is built from.
type Deps struct {
	Store  *store.Store[appstate.State]
	Runner *effects.Runner // nil when effects run inline
	Logger *slog.Logger
	Now    func() time.Time
}

// Model is the root application model.
type Model struct {
	store  *store.Store[appstate.State]
	runner *effects.Runner
	logger *slog.Logger

	List       *postlist.Model
	listConn   *postlist.Connected
	Modal      *attachcomment.Model
	modalConn  *attachcomment.Connected
	Status     *statusbar.Model
	statusConn *statusbar.Connected

	Width  int
	Height int
}

// New connects the components to the store and mounts them.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := Model{
		store:  deps.Store,
		runner: deps.Runner,
		logger: logger,
		List:   postlist.New(),
		Modal:  attachcomment.New(),
		Status: statusbar.New(deps.Now),
	}
	m.listConn = postlist.Connect(deps.Store, m.List,
		connect.Options[postlist.OwnProps, postlist.Projected]{Logger: logger})
	m.modalConn = attachcomment.Connect(deps.Store, m.Modal,
		connect.Options[attachcomment.OwnProps, attachcomment.Projected]{Logger: logger})
	m.statusConn = statusbar.Connect(deps.Store, m.Status,
		connect.Options[statusbar.OwnProps, statusbar.Projected]{Logger: logger})

	m.listConn.Mount()
	m.modalConn.Mount()
	m.statusConn.Mount()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Modal.Init(), TickCmd()}
	if m.runner != nil {
		cmds = append(cmds, m.runner.Wait())
	}
	return tea.Batch(cmds...)
}

// Close unmounts every connected component. Calling it again is harmless.
func (m Model) Close() {
	m.listConn.Unmount()
	m.modalConn.Unmount()
	m.statusConn.Unmount()
}

// Mounted reports whether any component is still subscribed to the store.
func (m Model) Mounted() bool {
	return m.listConn.Mounted() || m.modalConn.Mounted() || m.statusConn.Mounted()
}
