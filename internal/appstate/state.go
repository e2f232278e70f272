// Package appstate defines the application state tree, the actions that
// change it, the reducer, and the selectors that read it.
package appstate

import "time"

// Post is a chat message that can be attached to an issue.
type Post struct {
	ID        string
	UserID    string
	Username  string
	ChannelID string
	RootID    string // thread root when the post is a reply
	ParentID  string
	Message   string
	CreateAt  time.Time
}

// Team is a workspace team.
type Team struct {
	ID          string
	Name        string // URL slug
	DisplayName string
}

// AttachRequest asks for a post to be attached as a comment on an issue.
type AttachRequest struct {
	PostID   string
	IssueKey string
	TeamID   string
}

// AttachmentStatus is the delivery state of an attachment.
type AttachmentStatus string

const (
	StatusPending AttachmentStatus = "pending"
	StatusSent    AttachmentStatus = "sent"
	StatusFailed  AttachmentStatus = "failed"
)

// Attachment is a recorded attach-comment-to-issue result.
type Attachment struct {
	ID        int64
	PostID    string
	RootID    string
	IssueKey  string
	TeamID    string
	Body      string
	Status    AttachmentStatus
	Error     string
	CreatedAt time.Time
}

// EntitiesState holds records keyed by ID.
type EntitiesState struct {
	Posts         map[string]*Post
	Teams         map[string]*Team
	CurrentTeamID string
}

// AttachCommentModalState drives the attach-comment-to-issue modal.
type AttachCommentModalState struct {
	Visible bool
	PostID  string
}

// ViewsState holds UI-facing state.
type ViewsState struct {
	AttachCommentModal AttachCommentModalState
}

// AttachmentsState tracks attachment requests and their outcomes.
type AttachmentsState struct {
	Pending *AttachRequest
	Last    *Attachment
	Recent  []*Attachment // newest first
}

// State is the whole application state. Values are never mutated in place:
// the reducer returns a new State whose unchanged slices share records with
// the previous one, so record pointers are stable across unrelated updates.
type State struct {
	Entities    EntitiesState
	Views       ViewsState
	Attachments AttachmentsState
}

// maxRecent bounds AttachmentsState.Recent.
const maxRecent = 20

// Initial returns an empty state.
func Initial() State {
	return State{
		Entities: EntitiesState{
			Posts: map[string]*Post{},
			Teams: map[string]*Team{},
		},
	}
}
