package pipeline

import (
	"context"
	"sync"
	"time"

	"resumegen/internal/errors"

	"github.com/google/uuid"
)

// Store keeps sessions in memory and expires them after a period of
// inactivity
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *errors.Logger
}

// NewStore creates a Store whose sessions expire ttl after their last
// update. A zero ttl disables expiry.
func NewStore(ttl time.Duration, logger *errors.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create registers a new session in the CollectingProfile stage
func (s *Store) Create() *Session {
	session := newSession(uuid.NewString(), s.now())

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()
	return session
}

// Get returns the session with id or SESSION_NOT_FOUND
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return nil, errors.NewValidationError(errors.ErrCodeSessionNotFound,
			"session not found or expired", nil).WithContext("session_id", id)
	}
	return session, nil
}

// Delete removes the session with id
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errors.NewValidationError(errors.ErrCodeSessionNotFound,
			"session not found", nil).WithContext("session_id", id)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) expired(session *Session) bool {
	return s.ttl > 0 && s.now().Sub(session.lastUpdate()) > s.ttl
}

// Cleanup removes expired sessions and returns how many were removed
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls Cleanup every interval until ctx is done
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				s.logger.Info("Expired sessions removed", "count", n, "remaining", s.Len())
			}
		}
	}
}
