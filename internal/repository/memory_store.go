package repository

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is a process-local Store, used for tests and STORE_TYPE=memory
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	// FailSaves makes Save return this error when set
	FailSaves error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (s *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves != nil {
		return s.FailSaves
	}
	s.values[key] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Kind() string {
	return "memory"
}

func (s *MemoryStore) Close() error {
	return nil
}
