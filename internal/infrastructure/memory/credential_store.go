// Package memory holds the process-lifetime stores backing the auth service.
// Each store owns a single lock; nothing here survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// CredentialStore implements ports.CredentialStore.
type CredentialStore struct {
	mu    sync.RWMutex
	creds map[string]domain.Credential
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{creds: make(map[string]domain.Credential)}
}

func (s *CredentialStore) Register(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.creds[cred.Username]; exists {
		return domain.ErrUsernameTaken
	}
	s.creds[cred.Username] = cred
	return nil
}

func (s *CredentialStore) Get(_ context.Context, username string) (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.creds[username]
	return cred, ok
}

func (s *CredentialStore) Exists(_ context.Context, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.creds[username]
	return ok
}

func (s *CredentialStore) Usernames(_ context.Context) []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.creds))
	for name := range s.creds {
		names = append(names, name)
	}
	s.mu.RUnlock()

	slices.Sort(names)
	return names
}
