package store

import (
	"context"
	"sync"
)

// memoryStore implements Store with a mutex-guarded map. Used for tests and
// single-process local runs.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[string][]byte),
	}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.records[key]
	if !exists {
		return nil, ErrNotFound
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(value))
	copy(copied, value)
	s.records[key] = copied
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}
