package appstate

import "github.com/llehouerou/issuelink/internal/store"

// PostsReceived adds or replaces posts.
type PostsReceived struct{ Posts []Post }

// ActionType implements store.Action.
func (PostsReceived) ActionType() string { return "entities.posts_received" }

// TeamsReceived adds or replaces teams.
type TeamsReceived struct{ Teams []Team }

// ActionType implements store.Action.
func (TeamsReceived) ActionType() string { return "entities.teams_received" }

// TeamSelected changes the current team.
type TeamSelected struct{ TeamID string }

// ActionType implements store.Action.
func (TeamSelected) ActionType() string { return "entities.team_selected" }

// ModalOpened shows the attach-comment modal for a post.
type ModalOpened struct{ PostID string }

// ActionType implements store.Action.
func (ModalOpened) ActionType() string { return "views.attach_comment_modal_opened" }

// ModalClosed hides the attach-comment modal.
type ModalClosed struct{}

// ActionType implements store.Action.
func (ModalClosed) ActionType() string { return "views.attach_comment_modal_closed" }

// AttachRequested submits an attach request.
type AttachRequested struct{ Request AttachRequest }

// ActionType implements store.Action.
func (AttachRequested) ActionType() string { return "attachments.requested" }

// AttachSucceeded reports a recorded attachment and the request it settles.
type AttachSucceeded struct {
	Request    AttachRequest
	Attachment Attachment
}

// ActionType implements store.Action.
func (AttachSucceeded) ActionType() string { return "attachments.succeeded" }

// AttachFailed reports a request that could not be recorded.
type AttachFailed struct {
	Request AttachRequest
	Err     string
}

// ActionType implements store.Action.
func (AttachFailed) ActionType() string { return "attachments.failed" }

// AttachmentsReceived loads previously recorded attachments, newest first.
type AttachmentsReceived struct{ Attachments []Attachment }

// ActionType implements store.Action.
func (AttachmentsReceived) ActionType() string { return "attachments.received" }

// ReceivePosts creates a PostsReceived action.
func ReceivePosts(posts ...Post) store.Action {
	return PostsReceived{Posts: posts}
}

// ReceiveTeams creates a TeamsReceived action.
func ReceiveTeams(teams ...Team) store.Action {
	return TeamsReceived{Teams: teams}
}

// SelectTeam creates a TeamSelected action.
func SelectTeam(teamID string) store.Action {
	return TeamSelected{TeamID: teamID}
}

// OpenAttachCommentModal creates a ModalOpened action.
func OpenAttachCommentModal(postID string) store.Action {
	return ModalOpened{PostID: postID}
}

// CloseAttachCommentModal creates a ModalClosed action.
func CloseAttachCommentModal() store.Action {
	return ModalClosed{}
}

// AttachCommentToIssue creates an AttachRequested action. The request is
// passed through as given.
func AttachCommentToIssue(req AttachRequest) store.Action {
	return AttachRequested{Request: req}
}

// AttachmentSucceeded creates an AttachSucceeded action.
func AttachmentSucceeded(req AttachRequest, a Attachment) store.Action {
	return AttachSucceeded{Request: req, Attachment: a}
}

// AttachmentFailed creates an AttachFailed action.
func AttachmentFailed(req AttachRequest, err error) store.Action {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return AttachFailed{Request: req, Err: msg}
}

// ReceiveAttachments creates an AttachmentsReceived action.
func ReceiveAttachments(attachments ...Attachment) store.Action {
	return AttachmentsReceived{Attachments: attachments}
}
