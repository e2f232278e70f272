package outbox

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/issuelink/internal/appstate"
)

// newTestManager opens an outbox on an in-memory database.
func newTestManager(t *testing.T) *Manager {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every pooled connection would get its own in-memory database
	db.SetMaxOpenConns(1)

	m, err := newManager(db)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })

	clock := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m
}

func sample(postID, key string) appstate.Attachment {
	return appstate.Attachment{
		PostID:   postID,
		RootID:   "root-" + postID,
		IssueKey: key,
		TeamID:   "t1",
		Body:     "*@alice attached a* [message|https://chat/eng/pl/" + postID + "] *from @bob*\nhi",
	}
}

func TestEnqueue_StoresPending(t *testing.T) {
	m := newTestManager(t)

	id, err := m.Enqueue(sample("p1", "ABC-1"))
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PostID)
	assert.Equal(t, "root-p1", got.RootID)
	assert.Equal(t, "ABC-1", got.IssueKey)
	assert.Equal(t, "t1", got.TeamID)
	assert.Equal(t, appstate.StatusPending, got.Status)
	assert.Empty(t, got.Error)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEnqueue_Validation(t *testing.T) {
	tests := []struct {
		name    string
		postID  string
		key     string
		wantErr error
	}{
		{"missing post", "", "ABC-1", ErrEmptyPostID},
		{"blank post", "  ", "ABC-1", ErrEmptyPostID},
		{"missing key", "p1", "", ErrEmptyIssueKey},
		{"blank key", "p1", "\t", ErrEmptyIssueKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			_, err := m.Enqueue(sample(tt.postID, tt.key))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMarkSentAndFailed(t *testing.T) {
	m := newTestManager(t)
	sent, err := m.Enqueue(sample("p1", "ABC-1"))
	require.NoError(t, err)
	failed, err := m.Enqueue(sample("p2", "ABC-2"))
	require.NoError(t, err)

	require.NoError(t, m.MarkSent(sent))
	require.NoError(t, m.MarkFailed(failed, "boom"))

	got, err := m.Get(sent)
	require.NoError(t, err)
	assert.Equal(t, appstate.StatusSent, got.Status)

	got, err = m.Get(failed)
	require.NoError(t, err)
	assert.Equal(t, appstate.StatusFailed, got.Status)
	assert.Equal(t, "boom", got.Error)
}

func TestMarkSent_UnknownID(t *testing.T) {
	m := newTestManager(t)

	assert.ErrorIs(t, m.MarkSent(99), ErrNotFound)
	assert.ErrorIs(t, m.MarkFailed(99, "x"), ErrNotFound)
}

func TestGet_UnknownID(t *testing.T) {
	m := newTestManager(t)

	got, err := m.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestRecent_NewestFirst(t *testing.T) {
	m := newTestManager(t)
	for _, p := range []string{"p1", "p2", "p3"} {
		_, err := m.Enqueue(sample(p, "ABC-1"))
		require.NoError(t, err)
	}

	got, err := m.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p3", got[0].PostID)
	assert.Equal(t, "p2", got[1].PostID)

	none, err := m.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPrune_KeepsNewest(t *testing.T) {
	m := newTestManager(t)
	for _, p := range []string{"p1", "p2", "p3", "p4"} {
		_, err := m.Enqueue(sample(p, "ABC-1"))
		require.NoError(t, err)
	}

	deleted, err := m.Prune(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	got, err := m.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p4", got[0].PostID)
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "outbox.db")

	m, err := Open(path)
	require.NoError(t, err)
	_, err = m.Enqueue(sample("p1", "ABC-1"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	// Reopen and confirm persistence and idempotent schema
	m, err = Open(path)
	require.NoError(t, err)
	defer m.Close()
	got, err := m.Recent(5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	m := newTestManager(t)

	err := withTx(m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO attachments
			(post_id, issue_key, body, created_at, updated_at) VALUES ('p1', 'K-1', 'b', 1, 1)`)
		require.NoError(t, err)
		return sql.ErrTxDone
	})
	require.ErrorIs(t, err, sql.ErrTxDone)

	got, err := m.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNullStringValue(t *testing.T) {
	assert.Empty(t, nullStringValue(sql.NullString{}))
	assert.Equal(t, "x", nullStringValue(sql.NullString{String: "x", Valid: true}))
}

func TestMock_FollowsContract(t *testing.T) {
	m := NewMock()

	_, err := m.Enqueue(sample("p1", ""))
	require.ErrorIs(t, err, ErrEmptyIssueKey)

	id, err := m.Enqueue(sample("p1", "ABC-1"))
	require.NoError(t, err)
	require.NoError(t, m.MarkSent(id))

	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, appstate.StatusSent, got.Status)
	assert.ErrorIs(t, m.MarkSent(404), ErrNotFound)

	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}
