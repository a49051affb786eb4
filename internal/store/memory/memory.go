// Package memory provides an in-process collection store for tests and
// ephemeral deployments.
package memory

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/bahikhata-erp/bahikhata/internal/domain"
)

// Store holds collections in a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	data map[domain.Kind][]json.RawMessage
}

// New constructs an empty Store.
func New() *Store {
	return &Store{data: make(map[domain.Kind][]json.RawMessage)}
}

// GetAll returns a copy of the named collection.
func (s *Store) GetAll(_ context.Context, kind domain.Kind) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data[kind]), nil
}

// ReplaceAll swaps the named collection wholesale.
func (s *Store) ReplaceAll(_ context.Context, kind domain.Kind, docs []json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[kind] = slices.Clone(docs)
	return nil
}
