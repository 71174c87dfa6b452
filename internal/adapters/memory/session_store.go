package memory

import (
	"context"
	"sync"
	"time"

	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	portsrepo "github.com/echoverse/echoverse_backend/internal/core/ports/repositories"
)

// SessionStore is a process-local SessionRepository. Suitable for development
// and tests; sessions do not survive process restarts and are not shared
// across instances.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

// Ensure SessionStore implements portsrepo.SessionRepository
var _ portsrepo.SessionRepository = (*SessionStore)(nil)

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStore) Set(ctx context.Context, session domain.Session) error {
	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	var swept int64
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			swept++
		}
	}
	return swept, nil
}
