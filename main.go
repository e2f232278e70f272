package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/issuelink/internal/app"
	"github.com/llehouerou/issuelink/internal/appstate"
	"github.com/llehouerou/issuelink/internal/attach"
	"github.com/llehouerou/issuelink/internal/config"
	"github.com/llehouerou/issuelink/internal/effects"
	"github.com/llehouerou/issuelink/internal/errmsg"
	"github.com/llehouerou/issuelink/internal/logging"
	"github.com/llehouerou/issuelink/internal/outbox"
	"github.com/llehouerou/issuelink/internal/store"
)

// runnerBuffer is how many finished attachments may wait for the UI.
const runnerBuffer = 8

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logger, logCloser, err := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Format: cfg.LogFormat(),
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpLogOpen, err))
		logger, logCloser = logging.Discard(), logging.NopCloser
	}
	defer logCloser.Close()

	ob, err := outbox.Open(cfg.Outbox.Path)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpOutboxOpen, err))
	}
	defer closeLogged(ob, logger, "outbox")

	if n, err := ob.Prune(cfg.OutboxKeep()); err != nil {
		logger.Warn(errmsg.Format(errmsg.OpOutboxPrune, err))
	} else if n > 0 {
		logger.Info("pruned attachment outbox", "deleted", n)
	}

	runner := effects.NewRunner(runnerBuffer)
	defer runner.Close()

	var st *store.Store[appstate.State]
	st = store.New(appstate.Reduce, appstate.Initial(),
		logging.Middleware[appstate.State](logger, func() uint64 { return st.Version() }),
		attach.Middleware(ob, runner, attach.Settings{
			SiteURL:  cfg.SiteURL,
			Username: cfg.Username,
		}, logger),
	)

	if err := app.Seed(st, cfg, ob, logger); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}

	m := app.New(app.Deps{Store: st, Runner: runner, Logger: logger})
	defer m.Close()

	logger.Info("starting", "site_url", cfg.SiteURL, "user", cfg.Username)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func closeLogged(c io.Closer, logger *slog.Logger, name string) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "resource", name, "error", err)
	}
}
