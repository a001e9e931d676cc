package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// memoryStore is an in-process ports.SessionStore.
type memoryStore struct {
	mu      sync.Mutex
	notices map[string][]string
	expires map[string]time.Time
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{notices: map[string][]string{}, expires: map[string]time.Time{}}
}

func (m *memoryStore) AppendNotice(_ context.Context, id, notice string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.notices[id] = append(m.notices[id], notice)
	m.expires[id] = expiresAt
	return nil
}

func (m *memoryStore) TakeNotices(_ context.Context, id string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.notices[id]
	delete(m.notices, id)
	return out, nil
}

// recordingNotifier captures notices instead of storing them.
type recordingNotifier struct {
	notices []string
}

func (r *recordingNotifier) AddNotice(_ echo.Context, msg string) {
	r.notices = append(r.notices, msg)
}

func (r *recordingNotifier) PopNotices(echo.Context) []string {
	out := r.notices
	r.notices = nil
	return out
}

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}
