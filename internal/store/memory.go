package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/city-weather/internal/ui"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("session not found")
)

type sessionEntry struct {
	session  *ui.Session
	lastSeen time.Time
}

// SessionStore is a concurrency-safe in-memory registry of visitor sessions.
type SessionStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*sessionEntry

	newSession func() *ui.Session
	now        func() time.Time

	// retention configuration
	maxSessions int           // max live sessions (0 = unlimited)
	maxAge      time.Duration // idle time after which Sweep drops a session (0 = never)
}

// NewSessionStore creates a new SessionStore with optional limits.
// If maxSessions is <= 0, it is treated as unlimited.
func NewSessionStore(maxSessions int, maxAge time.Duration, newSession func() *ui.Session) *SessionStore {
	return &SessionStore{
		data:        make(map[string]*sessionEntry),
		newSession:  newSession,
		now:         time.Now,
		maxSessions: maxSessions,
		maxAge:      maxAge,
	}
}

// Get returns the session for id and marks it as seen.
func (s *SessionStore) Get(id string) (*ui.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	entry.lastSeen = s.now()
	return entry.session, nil
}

// Obtain returns the session for id, creating a fresh one under a new id when
// id is unknown. The returned id is the one the caller should keep.
func (s *SessionStore) Obtain(id string) (string, *ui.Session) {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return id, sess
		}
	}
	return s.Create()
}

// Create registers a new session and enforces the count limit.
func (s *SessionStore) Create() (string, *ui.Session) {
	id := uuid.NewString()
	sess := s.newSession()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[id] = &sessionEntry{session: sess, lastSeen: s.now()}

	// Enforce retention by count, dropping the least recently seen.
	if s.maxSessions > 0 && len(s.data) > s.maxSessions {
		s.evictOldestLocked(len(s.data)-s.maxSessions, id)
	}
	return id, sess
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
}

// Sweep removes sessions idle for longer than maxAge and returns how many
// were removed.
func (s *SessionStore) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.data {
		if entry.lastSeen.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// evictOldestLocked drops the n least recently seen sessions other than keep.
func (s *SessionStore) evictOldestLocked(n int, keep string) {
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		if id != keep {
			ids = append(ids, id)
		}
	}
	if n > len(ids) {
		n = len(ids)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.data[ids[i]].lastSeen.Before(s.data[ids[j]].lastSeen)
	})
	for _, id := range ids[:n] {
		delete(s.data, id)
	}
}
