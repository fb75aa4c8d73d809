package names

import (
	"context"
	"sync"

	"github.com/dkeye/Lobby/internal/domain"
)

type MemoryStore struct {
	mu    sync.RWMutex
	names map[domain.UserID]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{names: make(map[domain.UserID]string)}
}

func (s *MemoryStore) Get(_ context.Context, id domain.UserID) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[id]
	return name, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, id domain.UserID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[id] = name
	return nil
}

func (s *MemoryStore) Close() error { return nil }
