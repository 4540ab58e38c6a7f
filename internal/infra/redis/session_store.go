package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"vyna-tutor-agent/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Session state itself stays in-process (quiz state does not survive
//     restarts; that is deliberate).
//   - Redis marks session liveness per room, so an operator can see which
//     rooms currently hold a tutoring session across instances.
type SessionStore struct {
	client     *redis.Client
	ttl        time.Duration
	newSession func(roomName string) *app.SessionState

	mu       sync.RWMutex
	sessions map[string]*app.SessionState
}

func NewSessionStore(client *redis.Client, ttl time.Duration, newSession func(roomName string) *app.SessionState) *SessionStore {
	return &SessionStore{
		client:     client,
		ttl:        ttl,
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
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(roomName), "1", s.ttl).Err()
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
	if _, ok := s.sessions[roomName]; !ok {
		return
	}
	delete(s.sessions, roomName)
	_ = s.client.Del(context.Background(), s.key(roomName)).Err()
}

func (s *SessionStore) key(roomName string) string {
	return "session:room:" + roomName
}
