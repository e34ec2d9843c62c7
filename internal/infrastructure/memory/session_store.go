package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// SessionStore implements ports.SessionStore with random UUIDv4 tokens.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore returns an empty store. With ttl <= 0 sessions never
// expire and only end through Revoke.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Create(_ context.Context, username string) (domain.Session, error) {
	for {
		id, err := uuid.NewRandom()
		if err != nil {
			return domain.Session{}, fmt.Errorf("generate session token: %w", err)
		}

		now := s.now().UTC()
		sess := domain.Session{
			Token:     id.String(),
			Username:  username,
			CreatedAt: now,
		}
		if s.ttl > 0 {
			sess.ExpiresAt = now.Add(s.ttl)
		}

		s.mu.Lock()
		if _, taken := s.sessions[sess.Token]; taken {
			s.mu.Unlock()
			continue
		}
		s.sessions[sess.Token] = sess
		s.mu.Unlock()

		return sess, nil
	}
}

func (s *SessionStore) Resolve(_ context.Context, token string) (domain.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, false
	}

	if sess.ExpiredAt(s.now()) {
		s.mu.Lock()
		if cur, still := s.sessions[token]; still && cur.ExpiredAt(s.now()) {
			delete(s.sessions, token)
		}
		s.mu.Unlock()
		return domain.Session{}, false
	}
	return sess, true
}

func (s *SessionStore) Revoke(_ context.Context, token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *SessionStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
