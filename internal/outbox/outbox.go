// Package outbox records attach-comment-to-issue results in a local SQLite
// database.
package outbox

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/issuelink/internal/appstate"
)

const (
	appName    = "issuelink"
	dbFileName = "outbox.db"
)

var (
	// ErrNotFound is returned when an attachment ID does not exist.
	ErrNotFound = errors.New("attachment not found")
	// ErrEmptyIssueKey is returned when enqueuing without an issue key.
	ErrEmptyIssueKey = errors.New("issue key is required")
	// ErrEmptyPostID is returned when enqueuing without a post ID.
	ErrEmptyPostID = errors.New("post id is required")
)

// Interface defines the outbox contract for dependency injection and testing.
type Interface interface {
	Enqueue(a appstate.Attachment) (int64, error)
	MarkSent(id int64) error
	MarkFailed(id int64, errMsg string) error
	Get(id int64) (*appstate.Attachment, error)
	Recent(limit int) ([]appstate.Attachment, error)
	Prune(keep int) (int64, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)

// Manager is the SQLite-backed outbox.
type Manager struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the outbox at path, or at the XDG data location when path is
// empty.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = defaultPath()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return newManager(db)
}

func newManager(db *sql.DB) (*Manager, error) {
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db, now: time.Now}, nil
}

// Close closes the database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// Enqueue records a pending attachment and returns its ID.
func (m *Manager) Enqueue(a appstate.Attachment) (int64, error) {
	if strings.TrimSpace(a.PostID) == "" {
		return 0, ErrEmptyPostID
	}
	if strings.TrimSpace(a.IssueKey) == "" {
		return 0, ErrEmptyIssueKey
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = m.now()
	}

	var id int64
	err := withTx(m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO attachments
			(post_id, root_id, issue_key, team_id, body, status, last_error, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, '', ?, ?)
		`, a.PostID, a.RootID, a.IssueKey, a.TeamID, a.Body, string(appstate.StatusPending),
			created.Unix(), created.Unix())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("enqueue attachment: %w", err)
	}
	return id, nil
}

// MarkSent flags an attachment as delivered.
func (m *Manager) MarkSent(id int64) error {
	return m.setStatus(id, appstate.StatusSent, "")
}

// MarkFailed flags an attachment as failed with errMsg.
func (m *Manager) MarkFailed(id int64, errMsg string) error {
	return m.setStatus(id, appstate.StatusFailed, errMsg)
}

func (m *Manager) setStatus(id int64, status appstate.AttachmentStatus, errMsg string) error {
	res, err := m.db.Exec(`
		UPDATE attachments SET status = ?, last_error = ?, updated_at = ?
		WHERE id = ?
	`, string(status), errMsg, m.now().Unix(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the attachment with id.
func (m *Manager) Get(id int64) (*appstate.Attachment, error) {
	row := m.db.QueryRow(`
		SELECT id, post_id, root_id, issue_key, team_id, body, status, last_error, created_at
		FROM attachments WHERE id = ?
	`, id)
	a, err := scanAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Recent returns up to limit attachments, newest first.
func (m *Manager) Recent(limit int) ([]appstate.Attachment, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := m.db.Query(`
		SELECT id, post_id, root_id, issue_key, team_id, body, status, last_error, created_at
		FROM attachments
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []appstate.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Prune keeps the newest keep attachments and deletes the rest.
// It returns the number of deleted rows.
func (m *Manager) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var deleted int64
	err := withTx(m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			DELETE FROM attachments WHERE id NOT IN (
				SELECT id FROM attachments ORDER BY created_at DESC, id DESC LIMIT ?
			)
		`, keep)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttachment(s scanner) (appstate.Attachment, error) {
	var a appstate.Attachment
	var rootID, teamID, lastError sql.NullString
	var status string
	var createdAt int64

	err := s.Scan(&a.ID, &a.PostID, &rootID, &a.IssueKey, &teamID, &a.Body,
		&status, &lastError, &createdAt)
	if err != nil {
		return a, err
	}
	a.RootID = nullStringValue(rootID)
	a.TeamID = nullStringValue(teamID)
	a.Error = nullStringValue(lastError)
	a.Status = appstate.AttachmentStatus(status)
	a.CreatedAt = time.Unix(createdAt, 0)
	return a, nil
}

func defaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
