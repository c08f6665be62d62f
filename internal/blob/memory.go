package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"docket/pkg/platform/sentinel"
)

// MemoryStore keeps blobs in a map for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject

	// Error injection for failure-path tests. Each applies to every call of
	// the corresponding method until cleared.
	PutErr    error
	GetErr    error
	DeleteErr error
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStore constructs an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = memoryObject{data: buf, contentType: contentType}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("memory get %q: %w", key, sentinel.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, key)
	return nil
}

// Len reports how many blobs are stored. Tests use it to assert that failed
// uploads leave no orphans.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Exists reports whether a key is present.
func (m *MemoryStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}
