// Package logging builds the application's structured logger.
//
// The terminal belongs to the UI, so records go to a file by default.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/llehouerou/issuelink/internal/store"
)

// Config configures the logger.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	File   string // empty means the XDG state directory
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New opens the log file and returns a logger writing to it.
// The returned closer closes the file.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		var err error
		path, err = xdg.StateFile(filepath.Join("issuelink", "issuelink.log"))
		if err != nil {
			return nil, nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return NewWithWriter(cfg, f), f, nil
}

// NewWithWriter returns a logger writing to w. A nil w discards records.
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	if w == nil {
		return Discard()
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NopCloser is returned by callers that fall back to Discard.
var NopCloser io.Closer = nopCloser{}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware logs every dispatched action at debug level along with the
// state version reached once it has been reduced.
func Middleware[S any](logger *slog.Logger, version func() uint64) store.Middleware[S] {
	return func(_ store.API[S]) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(action store.Action) {
				next(action)
				if version != nil {
					logger.Debug("action", "type", action.ActionType(), "version", version())
					return
				}
				logger.Debug("action", "type", action.ActionType())
			}
		}
	}
}
