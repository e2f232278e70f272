// Package attach turns attach requests into recorded issue comments.
//
// Middleware watches for AttachRequested actions, builds the comment body
// from the post and team the request names, records it in the outbox off
// the UI goroutine and reports the outcome as AttachSucceeded or
// AttachFailed.
package attach

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/effects"
	"github.com/llehouerou/issuelink/internal/outbox"
	"github.com/llehouerou/issuelink/internal/store"
)

// ErrPostNotFound is reported when the requested post is not in the store.
var ErrPostNotFound = errors.New("post not found")

// Settings holds what the comment body needs besides the post.
type Settings struct {
	SiteURL  string
	Username string
	Now      func() time.Time // defaults to time.Now
}

// Middleware returns the attach middleware. A nil spawner runs work inline
// and dispatches the outcome directly.
func Middleware(
	ob outbox.Interface,
	spawner effects.Spawner,
	settings Settings,
	logger *slog.Logger,
) store.Middleware[appstate.State] {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(api store.API[appstate.State]) func(next store.Dispatch) store.Dispatch {
		sp := spawner
		if sp == nil {
			sp = effects.Inline(api.Dispatch)
		}
		return func(next store.Dispatch) store.Dispatch {
			return func(a store.Action) {
				next(a)
				req, ok := a.(appstate.AttachRequested)
				if !ok {
					return
				}
				sp.Spawn(prepare(api.GetState(), req.Request, ob, settings, logger))
			}
		}
	}
}

// prepare resolves the post and team from state now, so the work does not
// read the store from another goroutine.
func prepare(
	state appstate.State,
	req appstate.AttachRequest,
	ob outbox.Interface,
	settings Settings,
	logger *slog.Logger,
) effects.Work {
	var post *appstate.Post
	if p := appstate.PostByID(state, req.PostID); p != nil {
		cp := *p
		post = &cp
	}
	var team *appstate.Team
	if t := resolveTeam(state, req.TeamID); t != nil {
		cp := *t
		team = &cp
	}

	return func() store.Action {
		att, err := record(ob, req, post, team, settings)
		if err != nil {
			logger.Warn("attach comment failed",
				"post_id", req.PostID, "issue_key", req.IssueKey, "error", err)
			return appstate.AttachmentFailed(req, err)
		}
		logger.Info("attached comment to issue",
			"post_id", att.PostID, "issue_key", att.IssueKey, "attachment_id", att.ID)
		return appstate.AttachmentSucceeded(req, att)
	}
}

func resolveTeam(state appstate.State, teamID string) *appstate.Team {
	if teamID != "" {
		return appstate.TeamByID(state, teamID)
	}
	return appstate.CurrentTeam(state)
}

func record(
	ob outbox.Interface,
	req appstate.AttachRequest,
	post *appstate.Post,
	team *appstate.Team,
	settings Settings,
) (appstate.Attachment, error) {
	key := strings.TrimSpace(req.IssueKey)
	if key == "" {
		return appstate.Attachment{}, outbox.ErrEmptyIssueKey
	}
	if post == nil {
		return appstate.Attachment{}, fmt.Errorf("%w: %q", ErrPostNotFound, req.PostID)
	}

	teamID := req.TeamID
	if team != nil {
		teamID = team.ID
	}
	att := appstate.Attachment{
		PostID:    post.ID,
		RootID:    appstate.ThreadRoot(post),
		IssueKey:  key,
		TeamID:    teamID,
		Body:      Body(settings, team, post),
		CreatedAt: settings.Now(),
	}

	id, err := ob.Enqueue(att)
	if err != nil {
		return appstate.Attachment{}, err
	}
	att.ID = id

	// Delivery to the tracker happens outside this process; recording the
	// comment is what marks it sent.
	if err := ob.MarkSent(id); err != nil {
		if ferr := ob.MarkFailed(id, err.Error()); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return appstate.Attachment{}, err
	}
	att.Status = appstate.StatusSent
	return att, nil
}

// Body returns the issue comment for post attached under settings.
func Body(settings Settings, team *appstate.Team, post *appstate.Post) string {
	if post == nil {
		return ""
	}
	link := appstate.Permalink(settings.SiteURL, team, post.ID)
	return appstate.CommentBody(settings.Username, link, post)
}
