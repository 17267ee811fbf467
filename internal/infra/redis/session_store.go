package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-quiz/internal/app"
)

// markerTimeout bounds each liveness round-trip; it applies to socket I/O when
// the client has ContextTimeoutEnabled.
const markerTimeout = 2 * time.Second

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Controllers stay in a local map; Redis only carries a liveness marker per
// session so operators can see which sessions are open. No quiz state is
// written to Redis.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Controller
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Controller),
	}
}

func (s *SessionStore) Put(id string, c *app.Controller) {
	s.mu.Lock()
	s.sessions[id] = c
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), markerTimeout)
	defer cancel()
	// best-effort liveness marker
	_ = s.client.Set(ctx, s.key(id), time.Now().UTC().Format(time.RFC3339), s.ttl).Err()
}

func (s *SessionStore) Get(id string) (*app.Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[id]
	return c, ok
}

// Touch extends the liveness marker of an active session.
func (s *SessionStore) Touch(id string) {
	if s.ttl <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), markerTimeout)
	defer cancel()
	_ = s.client.Expire(ctx, s.key(id), s.ttl).Err()
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), markerTimeout)
	defer cancel()
	_ = s.client.Del(ctx, s.key(id)).Err()
}

func (s *SessionStore) key(id string) string {
	return "trivia:session:" + id
}
