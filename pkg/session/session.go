// Package session keeps each visitor's page and form state in memory.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xrsl/cvlift/pkg/form"
	clog "github.com/xrsl/cvlift/pkg/log"
	"github.com/xrsl/cvlift/pkg/page"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Session is the state owned by one browser.
type Session struct {
	ID   string
	Page page.Container
	Form form.State

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds sessions until they have been idle longer than the TTL.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*Session

	now func() time.Time
}

// NewStore returns an empty store. A non-positive ttl uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:   ttl,
		items: make(map[string]*Session),
		now:   time.Now,
	}
}

// Get returns a live session and marks it as seen.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.items[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if st.expired(s, now) {
		delete(st.items, id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Create starts a new session with a random id.
func (st *Store) Create() *Session {
	s := &Session{ID: uuid.NewString()}
	st.mu.Lock()
	defer st.mu.Unlock()
	s.touch(st.now())
	st.items[s.ID] = s
	return s
}

// Ensure returns the session for id, creating one when it is unknown or
// expired. The boolean reports whether a new session was created.
func (st *Store) Ensure(id string) (*Session, bool) {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s, false
		}
	}
	return st.Create(), true
}

// Len returns the number of stored sessions, expired or not.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.items)
}

// Sweep removes expired sessions and returns how many were removed.
// Sessions with a run in progress are kept.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	removed := 0
	for id, s := range st.items {
		if st.expired(s, now) {
			delete(st.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = st.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				clog.Debug("expired sessions removed", "count", n, "remaining", st.Len())
			}
		}
	}
}

func (st *Store) expired(s *Session, now time.Time) bool {
	if s.Form.Snapshot().Processing {
		return false
	}
	return now.Sub(s.idleSince()) > st.ttl
}
