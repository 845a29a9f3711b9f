package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local code store backed by a mutex-guarded map.
// It does not survive restarts or multi-instance deployments; use RedisStore
// when more than one instance serves logins.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory code store with the given code lifetime
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates and stores a fresh code, overwriting any prior entry
func (s *MemoryStore) Issue(_ context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.entries[NormalizeEmail(email)] = Entry{
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return code, nil
}

// Lookup returns the stored entry or ErrNoCode
func (s *MemoryStore) Lookup(_ context.Context, email string) (*Entry, error) {
	s.mu.Lock()
	entry, ok := s.entries[NormalizeEmail(email)]
	s.mu.Unlock()

	if !ok {
		return nil, ErrNoCode
	}
	return &entry, nil
}

// Consume deletes the entry unconditionally
func (s *MemoryStore) Consume(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, NormalizeEmail(email))
	s.mu.Unlock()
	return nil
}
