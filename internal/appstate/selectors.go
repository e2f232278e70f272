package appstate

import (
	"cmp"
	"slices"
)

// IsAttachCommentModalVisible reports whether the modal is shown.
func IsAttachCommentModalVisible(s State) bool {
	return s.Views.AttachCommentModal.Visible
}

// AttachCommentModalPostID returns the post targeted by the modal, or "".
func AttachCommentModalPostID(s State) string {
	return s.Views.AttachCommentModal.PostID
}

// PostByID returns the post with id, or nil when id is empty or unknown.
func PostByID(s State, id string) *Post {
	if id == "" {
		return nil
	}
	return s.Entities.Posts[id]
}

// TeamByID returns the team with id, or nil when id is empty or unknown.
func TeamByID(s State, id string) *Team {
	if id == "" {
		return nil
	}
	return s.Entities.Teams[id]
}

// CurrentTeam returns the selected team, or nil.
func CurrentTeam(s State) *Team {
	return TeamByID(s, s.Entities.CurrentTeamID)
}

// Posts returns all posts ordered by creation time, then ID.
func Posts(s State) []*Post {
	posts := make([]*Post, 0, len(s.Entities.Posts))
	for _, p := range s.Entities.Posts {
		posts = append(posts, p)
	}
	slices.SortFunc(posts, func(a, b *Post) int {
		if c := a.CreateAt.Compare(b.CreateAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return posts
}

// PendingAttachment returns the request in flight, or nil.
func PendingAttachment(s State) *AttachRequest {
	return s.Attachments.Pending
}

// LastAttachment returns the most recent attachment outcome, or nil.
func LastAttachment(s State) *Attachment {
	return s.Attachments.Last
}

// RecentAttachments returns recorded attachments, newest first.
func RecentAttachments(s State) []*Attachment {
	return s.Attachments.Recent
}
