package chartstore

import (
	"context"
	"sync"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

// MemoryStore records archive requests without storing image bytes. Used in
// tests and when archival is disabled but the wiring still wants a store.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]string
}

// NewMemoryStore constructs an in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]string)}
}

// Archive implements kundali.ChartArchive.
func (s *MemoryStore) Archive(_ context.Context, name, date, chartURL string) (string, error) {
	key := objectKey(name, date)
	s.mu.Lock()
	s.keys[key] = chartURL
	s.mu.Unlock()
	return key, nil
}

// Stored returns the source URL recorded under a key.
func (s *MemoryStore) Stored(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url, ok := s.keys[key]
	return url, ok
}

var _ kundali.ChartArchive = (*MemoryStore)(nil)
