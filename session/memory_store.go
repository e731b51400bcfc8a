package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory (single instance only).
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupExpiredLocked()
	entry, ok := s.entries[id]
	if !ok {
		return "", ErrNotFound
	}
	return entry.token, nil
}

func (s *MemoryStore) Set(_ context.Context, id, token string, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[id] = memoryEntry{token: token, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) cleanupExpiredLocked() {
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
