package appstate

import (
	"maps"

	"github.com/llehouerou/issuelink/internal/store"
)

// Reduce returns the state that results from applying action to s.
// Unknown actions return s unchanged.
func Reduce(s State, action store.Action) State {
	switch a := action.(type) {
	case PostsReceived:
		s.Entities = receivePosts(s.Entities, a.Posts)
	case TeamsReceived:
		s.Entities = receiveTeams(s.Entities, a.Teams)
	case TeamSelected:
		s.Entities.CurrentTeamID = a.TeamID
	case ModalOpened:
		s.Views.AttachCommentModal = AttachCommentModalState{Visible: true, PostID: a.PostID}
	case ModalClosed:
		s.Views.AttachCommentModal = AttachCommentModalState{}
	case AttachRequested:
		req := a.Request
		s.Attachments.Pending = &req
	case AttachSucceeded:
		att := a.Attachment
		s.Attachments.Pending = settle(s.Attachments.Pending, a.Request)
		s.Attachments.Last = &att
		s.Attachments.Recent = prependRecent(s.Attachments.Recent, &att)
		// A late result must not close a modal opened on another post.
		if s.Views.AttachCommentModal.PostID == att.PostID {
			s.Views.AttachCommentModal = AttachCommentModalState{}
		}
	case AttachFailed:
		s.Attachments.Pending = settle(s.Attachments.Pending, a.Request)
		s.Attachments.Last = &Attachment{
			PostID:   a.Request.PostID,
			IssueKey: a.Request.IssueKey,
			TeamID:   a.Request.TeamID,
			Status:   StatusFailed,
			Error:    a.Err,
		}
	case AttachmentsReceived:
		recent := make([]*Attachment, 0, min(len(a.Attachments), maxRecent))
		for i := range a.Attachments {
			if len(recent) == maxRecent {
				break
			}
			att := a.Attachments[i]
			recent = append(recent, &att)
		}
		s.Attachments.Recent = recent
		if s.Attachments.Last == nil && len(recent) > 0 {
			s.Attachments.Last = recent[0]
		}
	}
	return s
}

func receivePosts(e EntitiesState, posts []Post) EntitiesState {
	if len(posts) == 0 {
		return e
	}
	next := make(map[string]*Post, len(e.Posts)+len(posts))
	maps.Copy(next, e.Posts)
	for i := range posts {
		p := posts[i]
		if p.ID == "" {
			continue
		}
		next[p.ID] = &p
	}
	e.Posts = next
	return e
}

func receiveTeams(e EntitiesState, teams []Team) EntitiesState {
	if len(teams) == 0 {
		return e
	}
	next := make(map[string]*Team, len(e.Teams)+len(teams))
	maps.Copy(next, e.Teams)
	for i := range teams {
		t := teams[i]
		if t.ID == "" {
			continue
		}
		next[t.ID] = &t
	}
	e.Teams = next
	return e
}

// settle clears pending only when it is the request that finished.
func settle(pending *AttachRequest, done AttachRequest) *AttachRequest {
	if pending != nil && *pending == done {
		return nil
	}
	return pending
}

func prependRecent(recent []*Attachment, att *Attachment) []*Attachment {
	next := make([]*Attachment, 0, min(len(recent)+1, maxRecent))
	next = append(next, att)
	for _, r := range recent {
		if len(next) == maxRecent {
			break
		}
		next = append(next, r)
	}
	return next
}
