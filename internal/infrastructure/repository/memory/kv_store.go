package memory

import (
	"context"
	"sync"

	"github.com/clothify/storefront-api/internal/domain"
)

// KVStore is an in-memory implementation of domain.KeyValueStore, used in
// tests and local development where durability does not matter.
type KVStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewKVStore creates a new in-memory key-value store
func NewKVStore() *KVStore {
	return &KVStore{entries: make(map[string]string)}
}

// Get returns the value stored under key, or domain.ErrKeyNotFound.
func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

// Set stores value under key.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Delete removes the key if present.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
