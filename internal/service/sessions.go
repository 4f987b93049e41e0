package service

import (
	"sync"

	"github.com/ivayloh/ledgerbot/internal/domain"
)

// sessionStore is the mutex-guarded per-user session map. One live session
// per user; storing a new one supersedes whatever was in flight. It also
// tracks which users owe a note for their last posted pair.
//
// Reads hand out copies and writes go through transition, which re-checks
// the session id and state under the lock, so a stale button click or two
// rapid messages from one user cannot corrupt a session.
type sessionStore struct {
	mu           sync.Mutex
	byUser       map[string]*domain.Session
	awaitingNote map[string]bool
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		byUser:       make(map[string]*domain.Session),
		awaitingNote: make(map[string]bool),
	}
}

func (s *sessionStore) put(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[sess.UserID] = sess
}

// get returns a snapshot of the user's live session, and only when its id
// matches the one baked into the button payload.
func (s *sessionStore) get(userID, sessionID string) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUser[userID]
	if !ok || sess.ID != sessionID {
		return domain.Session{}, false
	}
	return *sess, true
}

// transition applies fn to the live session iff the id and expected state
// still hold, and returns the resulting snapshot. A false result means the
// session was superseded or already moved on.
func (s *sessionStore) transition(userID, sessionID string, from domain.SessionState, fn func(*domain.Session)) (domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUser[userID]
	if !ok || sess.ID != sessionID || sess.State != from {
		return domain.Session{}, false
	}
	fn(sess)
	return *sess, true
}

func (s *sessionStore) delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}

func (s *sessionStore) setAwaitingNote(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaitingNote[userID] = true
}

// takeAwaitingNote clears and reports the pending-note flag in one step.
func (s *sessionStore) takeAwaitingNote(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awaitingNote[userID] {
		return false
	}
	delete(s.awaitingNote, userID)
	return true
}
