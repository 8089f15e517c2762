package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process session store. Expired sessions are
// swept when a new session is created and evicted lazily on Validate; there
// is no background timer. Correctness assumes a single server instance.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *Memory) Create(_ context.Context, username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Sweep expired sessions while we hold the lock anyway.
	now := m.now()
	for token, s := range m.sessions {
		if now.Sub(s.CreatedAt) > m.ttl {
			delete(m.sessions, token)
		}
	}

	token := uuid.NewString()
	m.sessions[token] = Session{Username: username, CreatedAt: now}
	return token, nil
}

func (m *Memory) Validate(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNoSession
	}
	if m.now().Sub(s.CreatedAt) > m.ttl {
		delete(m.sessions, token)
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (m *Memory) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
