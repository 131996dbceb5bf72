package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"doc_wizard/wizard"
)

// Session is one browser session: a wizard plus the document history that
// outlives wizard resets.
type Session struct {
	ID        string
	Wizard    *wizard.Wizard
	History   *wizard.History
	CreatedAt time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*Session)}
}

func (s *sessionStore) create(newWizard func(*wizard.History) *wizard.Wizard) *Session {
	history := wizard.NewHistory()
	sess := &Session{
		ID:        uuid.NewString(),
		Wizard:    newWizard(history),
		History:   history,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
