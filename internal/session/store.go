// Package session tracks per-conversation state with scam counterparts.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nkurella/honeyguard/internal/domain"
)

// NewID generates an opaque session identifier for conversations without a
// channel-supplied one: timestamp plus a random suffix.
func NewID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Store owns all sessions. A session is created exactly once per id, lazily
// on first message, and only removed by an explicit bulk reset.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*domain.Session)}
}

// GetOrCreate returns the session for id, creating it if absent. An existing
// session is never overwritten, so source and start time stay stable.
func (s *Store) GetOrCreate(id, source string) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess := &domain.Session{
		ID:        id,
		Source:    source,
		StartTime: time.Now().UTC(),
	}
	s.sessions[id] = sess
	return sess
}

// Append adds messages to a session's history in order. Round-trips pass the
// scammer line and the assistant reply together so chronological pairing is
// never lost. Appending to an unknown id is a no-op.
func (s *Store) Append(id string, msgs ...domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.Messages = append(sess.Messages, msgs...)
}

// History returns a copy of the session's messages in insertion order.
// Unknown ids yield an empty history.
func (s *Store) History(id string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return append([]domain.Message{}, sess.Messages...)
}

// Count returns the number of tracked sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns a deep copy of all sessions for persistence.
func (s *Store) Snapshot() map[string]*domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*domain.Session, len(s.sessions))
	for id, sess := range s.sessions {
		cp := *sess
		cp.Messages = append([]domain.Message{}, sess.Messages...)
		out[id] = &cp
	}
	return out
}

// Restore replaces all sessions from a persisted snapshot.
func (s *Store) Restore(sessions map[string]*domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*domain.Session, len(sessions))
	for id, sess := range sessions {
		cp := *sess
		cp.Messages = append([]domain.Message{}, sess.Messages...)
		s.sessions[id] = &cp
	}
}

// Reset removes every session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*domain.Session)
}
