package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/issuelink/internal/appstate"
)

type Config struct {
	SiteURL  string `koanf:"site_url"` // chat server base URL used in permalinks
	Username string `koanf:"username"` // who attaches comments

	Log       LogConfig       `koanf:"log"`
	Workspace WorkspaceConfig `koanf:"workspace"`
	Outbox    OutboxConfig    `koanf:"outbox"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // "debug", "info", "warn", "error" (default: "info")
	Format string `koanf:"format"` // "text" or "json" (default: "text")
	File   string `koanf:"file"`   // log file path (default: XDG state dir)
}

// WorkspaceConfig seeds teams and posts at startup.
type WorkspaceConfig struct {
	CurrentTeam string       `koanf:"current_team"`
	Teams       []TeamConfig `koanf:"teams"`
	Posts       []PostConfig `koanf:"posts"`
}

// TeamConfig describes a team.
type TeamConfig struct {
	ID          string `koanf:"id"`
	Name        string `koanf:"name"` // URL slug
	DisplayName string `koanf:"display_name"`
}

// PostConfig describes a post.
type PostConfig struct {
	ID        string `koanf:"id"`
	UserID    string `koanf:"user_id"`
	Username  string `koanf:"username"`
	ChannelID string `koanf:"channel_id"`
	RootID    string `koanf:"root_id"`
	ParentID  string `koanf:"parent_id"`
	Message   string `koanf:"message"`
	CreateAt  string `koanf:"create_at"` // RFC 3339
}

// OutboxConfig holds attachment outbox configuration.
type OutboxConfig struct {
	Path string `koanf:"path"` // database path (default: XDG data dir)
	Keep int    `koanf:"keep"` // attachments kept on startup (default: 200)
}

func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize site URL (remove trailing slash)
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	if cfg.Outbox.Path != "" {
		cfg.Outbox.Path = expandPath(cfg.Outbox.Path)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/issuelink/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "issuelink", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// LogLevel returns the configured level with the default applied.
func (c *Config) LogLevel() string {
	switch l := strings.ToLower(strings.TrimSpace(c.Log.Level)); l {
	case "debug", "info", "warn", "error":
		return l
	default:
		return "info"
	}
}

// LogFormat returns the configured format with the default applied.
func (c *Config) LogFormat() string {
	if strings.EqualFold(c.Log.Format, "json") {
		return "json"
	}
	return "text"
}

// OutboxKeep returns how many attachments to keep, default 200.
func (c *Config) OutboxKeep() int {
	if c.Outbox.Keep <= 0 {
		return 200
	}
	return c.Outbox.Keep
}

// Teams converts workspace teams to state records. Entries without an ID
// are skipped.
func (c *Config) Teams() []appstate.Team {
	teams := make([]appstate.Team, 0, len(c.Workspace.Teams))
	for _, t := range c.Workspace.Teams {
		if t.ID == "" {
			continue
		}
		display := t.DisplayName
		if display == "" {
			display = t.Name
		}
		teams = append(teams, appstate.Team{ID: t.ID, Name: t.Name, DisplayName: display})
	}
	return teams
}

// Posts converts workspace posts to state records. Entries without an ID
// are skipped. A malformed create_at is reported with the post ID.
func (c *Config) Posts() ([]appstate.Post, error) {
	posts := make([]appstate.Post, 0, len(c.Workspace.Posts))
	for _, p := range c.Workspace.Posts {
		if p.ID == "" {
			continue
		}
		var created time.Time
		if p.CreateAt != "" {
			var err error
			created, err = time.Parse(time.RFC3339, p.CreateAt)
			if err != nil {
				return nil, fmt.Errorf("post %s: create_at: %w", p.ID, err)
			}
		}
		posts = append(posts, appstate.Post{
			ID:        p.ID,
			UserID:    p.UserID,
			Username:  p.Username,
			ChannelID: p.ChannelID,
			RootID:    p.RootID,
			ParentID:  p.ParentID,
			Message:   p.Message,
			CreateAt:  created,
		})
	}
	return posts, nil
}
