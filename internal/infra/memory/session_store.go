package memory

import (
	"sync"

	"vyna-tutor-agent/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository,
// keyed by room name.
type SessionStore struct {
	newSession func(roomName string) *app.SessionState

	mu       sync.RWMutex
	sessions map[string]*app.SessionState
}

func NewSessionStore(newSession func(roomName string) *app.SessionState) *SessionStore {
	return &SessionStore{
		newSession: newSession,
		sessions:   make(map[string]*app.SessionState),
	}
}

func (s *SessionStore) GetOrCreate(roomName string) *app.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[roomName]; ok {
		return session
	}
	session := s.newSession(roomName)
	s.sessions[roomName] = session
	return session
}

func (s *SessionStore) Get(roomName string) (*app.SessionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[roomName]
	return session, ok
}

func (s *SessionStore) Delete(roomName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, roomName)
}
