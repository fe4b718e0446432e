package memory

import (
	"context"
	"sync"

	"github.com/retailflow/plm-console/internal/core/ports"
)

// SessionStorage keeps session entries for the lifetime of the process.
type SessionStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{entries: make(map[string]string)}
}

var _ ports.SessionStorage = (*SessionStorage)(nil)

func (s *SessionStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *SessionStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
	return nil
}

func (s *SessionStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]string)
	s.mu.Unlock()
	return nil
}
