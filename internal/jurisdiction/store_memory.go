package jurisdiction

import (
	"context"
	"sync"
)

// MemoryStore holds jurisdiction nodes in memory for tests/dev.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes []Node

	// ListErr, when set, fails every ListAll.
	ListErr error
}

// NewMemoryStore constructs an empty in-memory jurisdiction store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListAll(_ context.Context) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out, nil
}

func (s *MemoryStore) Seed(_ context.Context, nodes []Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make([]Node, len(nodes))
	copy(s.nodes, nodes)
	return nil
}
