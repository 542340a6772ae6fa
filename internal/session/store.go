// Package session holds each user's in-flight paginated search. Sessions
// are ephemeral: they live in process memory, a new search replaces the old
// session unconditionally, and idle sessions are evicted on a timer.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/RickSteadX/Telbooru/internal/domain"
)

// ErrNoActiveSession is returned when a page turn is requested before any
// search has created a session for the user.
var ErrNoActiveSession = errors.New("session: no active search session")

// Store is an in-memory, process-lifetime session map keyed by user ID.
// Mutations on one user never contend with other users beyond the shared
// lock; per-user operations are linearizable.
//
// The store uses a RWMutex rather than sync.Map: reads dominate, the key
// and value types are known, and page updates need read-modify-write under
// one lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.SearchSession
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an empty session store.
func New(logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[int64]*domain.SearchSession),
		logger:   logger,
		now:      time.Now,
	}
}

// Create installs a fresh session for the user, replacing any prior one.
func (s *Store) Create(userID int64, sess *domain.SearchSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.LastTouched = s.now()
	s.sessions[userID] = sess
	s.logger.Debug("session created",
		"user_id", userID,
		"session_id", sess.ID,
		"posts", len(sess.Posts),
	)
}

// Get returns the user's current session, if any.
func (s *Store) Get(userID int64) (*domain.SearchSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// SetPage moves the user's session to pageIndex, clamped into the valid
// page range, and refreshes the idle clock. Fails with ErrNoActiveSession
// when the user has no session.
func (s *Store) SetPage(userID int64, pageIndex int) (*domain.SearchSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	sess.PageIndex = sess.ClampPage(pageIndex)
	sess.LastTouched = s.now()
	return sess, nil
}

// Clear removes the user's session. Returns true if one existed.
func (s *Store) Clear(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; !ok {
		return false
	}
	delete(s.sessions, userID)
	return true
}

// ClearAll removes every session and returns how many were removed.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sessions)
	clear(s.sessions)
	return n
}

// ActiveUserCount returns the number of users with a live session.
func (s *Store) ActiveUserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// UserIDs returns the IDs of all users with a live session.
func (s *Store) UserIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// EvictIdle removes sessions whose last activity predates now-ttl.
// Returns the number of evicted sessions.
func (s *Store) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-ttl)
	evicted := 0
	for userID, sess := range s.sessions {
		if sess.IdleSince(deadline) {
			delete(s.sessions, userID)
			evicted++
		}
	}

	if evicted > 0 {
		s.logger.Debug("evicted idle sessions", "count", evicted)
	}
	return evicted
}
