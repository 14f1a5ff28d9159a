// Package memory provides an in-memory KeyValueStore used in tests and as a
// throwaway cache backend for local development.
package memory

import (
	"context"
	"sync"

	"studylink/internal/port"
)

type kvStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStore creates an empty in-memory store.
func NewKVStore() port.KeyValueStore {
	return &kvStore{items: make(map[string]string)}
}

func (s *kvStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok, nil
}

func (s *kvStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *kvStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *kvStore) GetAllKeys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *kvStore) MultiRemove(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}
