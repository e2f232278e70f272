package app

import (
	"fmt"
	"log/slog"

	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/config"
	"github.com/llehouerou/issuelink/internal/errmsg"
	"github.com/llehouerou/issuelink/internal/outbox"
	"github.com/llehouerou/issuelink/internal/store"
)

// recentLimit is how many recorded attachments are loaded at startup.
const recentLimit = 20

// Seed loads the configured workspace and the latest recorded attachments
// into st. The current team falls back to the first configured team.
// A failure to read the outbox is logged, not returned.
func Seed(st *store.Store[appstate.State], cfg *config.Config, ob outbox.Interface, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	teams := cfg.Teams()
	posts, err := cfg.Posts()
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.OpWorkspaceLoad, err)
	}

	st.Dispatch(appstate.ReceiveTeams(teams...))
	current := cfg.Workspace.CurrentTeam
	if current == "" && len(teams) > 0 {
		current = teams[0].ID
	}
	if current != "" {
		st.Dispatch(appstate.SelectTeam(current))
	}
	st.Dispatch(appstate.ReceivePosts(posts...))
	logger.Info("workspace loaded", "teams", len(teams), "posts", len(posts), "current_team", current)

	if ob == nil {
		return nil
	}
	recent, err := ob.Recent(recentLimit)
	if err != nil {
		logger.Warn(errmsg.Format(errmsg.OpOutboxLoad, err))
		return nil
	}
	st.Dispatch(appstate.ReceiveAttachments(recent...))
	return nil
}
