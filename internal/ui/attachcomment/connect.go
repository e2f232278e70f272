package attachcomment

import (
	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/connect"
	"github.com/llehouerou/issuelink/internal/store"
)

// OwnProps are given by the component's owner.
type OwnProps struct {
	Title  string // defaults to DefaultTitle
	Width  int
	Height int
}

// Projected is the part of the props derived from the store.
// It is comparable so the dirty-check can compare it with ==.
type Projected struct {
	Visible     bool
	Post        *appstate.Post // nil when the target post is unknown
	CurrentTeam *appstate.Team
	Submitting  bool // an attach request is in flight
}

// Actions are the bound action creators.
type Actions struct {
	Close  func()
	Create func(req appstate.AttachRequest)
}

// Props are the merged props delivered to the Model.
type Props struct {
	Title  string
	Width  int
	Height int

	Visible     bool
	Post        *appstate.Post
	CurrentTeam *appstate.Team
	Submitting  bool

	Close  func()
	Create func(req appstate.AttachRequest)
}

// Connected is the modal bound to the application store.
type Connected = connect.Connected[appstate.State, OwnProps, Projected, Actions, Props]

// Project reads the modal's props from state.
func Project(s appstate.State) Projected {
	return Projected{
		Visible:     appstate.IsAttachCommentModalVisible(s),
		Post:        appstate.PostByID(s, appstate.AttachCommentModalPostID(s)),
		CurrentTeam: appstate.CurrentTeam(s),
		Submitting:  appstate.PendingAttachment(s) != nil,
	}
}

// BindActions binds the modal's action creators to dispatch.
func BindActions(dispatch store.Dispatch) Actions {
	return Actions{
		Close: func() {
			dispatch(appstate.CloseAttachCommentModal())
		},
		Create: func(req appstate.AttachRequest) {
			dispatch(appstate.AttachCommentToIssue(req))
		},
	}
}

// MergeProps lays projected and bound fields over own props.
func MergeProps(own OwnProps, p Projected, a Actions) Props {
	props := Props{
		Title:  own.Title,
		Width:  own.Width,
		Height: own.Height,
	}
	if props.Title == "" {
		props.Title = DefaultTitle
	}
	props.Visible = p.Visible
	props.Post = p.Post
	props.CurrentTeam = p.CurrentTeam
	props.Submitting = p.Submitting
	props.Close = a.Close
	props.Create = a.Create
	return props
}

// Connect binds m to src. Nothing is subscribed until Mount. A nil
// opts.Equal defaults to a shallow comparison of Projected.
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
	return connect.Connect[appstate.State, OwnProps, Projected, Actions, Props](
		src, receiver, Project, BindActions, MergeProps, opts)
}
