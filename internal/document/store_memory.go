package document

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"docket/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store for tests. The exported error fields
// inject failures into specific operations.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]*Document
	links map[uuid.UUID][]uuid.UUID

	CreateErr     error
	GetErr        error
	UpdateErr     error
	HardDeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[uuid.UUID]*Document),
		links: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *MemoryStore) Create(ctx context.Context, doc *Document, jurisdictionIDs []uuid.UUID) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	cp.Tags = append([]string(nil), doc.Tags...)
	s.docs[doc.ID] = &cp
	s.links[doc.ID] = append([]uuid.UUID(nil), jurisdictionIDs...)
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *doc
	cp.Tags = append([]string(nil), doc.Tags...)
	return &cp, nil
}

func (s *MemoryStore) LinkIDs(ctx context.Context, docID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uuid.UUID(nil), s.links[docID]...), nil
}

func (s *MemoryStore) Update(ctx context.Context, doc *Document) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.docs[doc.ID]
	if !ok {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrNotFound)
	}
	stored.Title = doc.Title
	stored.Description = doc.Description
	stored.Tags = append([]string(nil), doc.Tags...)
	stored.UpdatedAt = doc.UpdatedAt
	return nil
}

func (s *MemoryStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.docs[id]
	if !ok || stored.DeletedAt != nil {
		return fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}
	stored.DeletedAt = &at
	stored.UpdatedAt = at
	return nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for _, doc := range s.docs {
		if doc.OwnerID != ownerID || doc.DeletedAt != nil {
			continue
		}
		cp := *doc
		cp.Tags = append([]string(nil), doc.Tags...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ListExpired(ctx context.Context, cutoff time.Time) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for _, doc := range s.docs {
		if doc.DeletedAt == nil || doc.DeletedAt.After(cutoff) {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (s *MemoryStore) HardDelete(ctx context.Context, id uuid.UUID) error {
	if s.HardDeleteErr != nil {
		return s.HardDeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.docs[id]
	if !ok || stored.DeletedAt == nil {
		return fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.docs, id)
	delete(s.links, id)
	return nil
}

// Len reports the number of rows held, soft-deleted included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
