package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryList is an in-memory revocation list for tests/dev. Expired entries
// are lazily dropped on read.
type MemoryList struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	// Error injection for failure-path tests.
	RevokeErr    error
	IsRevokedErr error
}

// NewMemoryList constructs an empty in-memory revocation list.
func NewMemoryList() *MemoryList {
	return &MemoryList{revoked: make(map[string]time.Time)}
}

func (l *MemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.RevokeErr != nil {
		return l.RevokeErr
	}
	if jti == "" || ttl <= 0 {
		return nil
	}
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (l *MemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.IsRevokedErr != nil {
		return false, l.IsRevokedErr
	}
	expiry, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(l.revoked, jti)
		return false, nil
	}
	return true, nil
}

// Len reports live entries. Test helper.
func (l *MemoryList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.revoked)
}
