package outbox

import (
	"sort"
	"sync"

	"github.com/llehouerou/issuelink/internal/appstate"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	EnqueueErr  error
	MarkSentErr error

	mu     sync.Mutex
	rows   []appstate.Attachment
	nextID int64
	closed bool
}

// NewMock creates an empty mock outbox.
func NewMock() *Mock {
	return &Mock{}
}

var _ Interface = (*Mock)(nil)

func (m *Mock) Enqueue(a appstate.Attachment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueErr != nil {
		return 0, m.EnqueueErr
	}
	if a.PostID == "" {
		return 0, ErrEmptyPostID
	}
	if a.IssueKey == "" {
		return 0, ErrEmptyIssueKey
	}
	m.nextID++
	a.ID = m.nextID
	a.Status = appstate.StatusPending
	m.rows = append(m.rows, a)
	return a.ID, nil
}

func (m *Mock) MarkSent(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkSentErr != nil {
		return m.MarkSentErr
	}
	return m.set(id, appstate.StatusSent, "")
}

func (m *Mock) MarkFailed(id int64, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(id, appstate.StatusFailed, errMsg)
}

func (m *Mock) set(id int64, status appstate.AttachmentStatus, errMsg string) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].Status = status
			m.rows[i].Error = errMsg
			return nil
		}
	}
	return ErrNotFound
}

func (m *Mock) Get(id int64) (*appstate.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Mock) Recent(limit int) ([]appstate.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]appstate.Attachment, len(m.rows))
	copy(out, m.rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit < len(out) {
		out = out[:max(limit, 0)]
	}
	return out, nil
}

func (m *Mock) Prune(keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if len(m.rows) <= keep {
		return 0, nil
	}
	n := len(m.rows) - keep
	m.rows = m.rows[n:]
	return int64(n), nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
