package horoscopestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/soulsync/soulsync/internal/domain/horoscope"
	"github.com/soulsync/soulsync/internal/domain/zodiac"
)

type entry struct {
	payload   json.RawMessage
	expiresAt time.Time
}

// MemoryStore is an in-memory horoscope cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

func (s *MemoryStore) Get(_ context.Context, sign zodiac.Sign, variant horoscope.Variant, day string) (json.RawMessage, bool, error) {
	key := memoryKey(sign, variant, day)
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if hasExpired(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (s *MemoryStore) Save(_ context.Context, sign zodiac.Sign, variant horoscope.Variant, day string, payload json.RawMessage, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[memoryKey(sign, variant, day)] = entry{payload: payload, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func memoryKey(sign zodiac.Sign, variant horoscope.Variant, day string) string {
	return fmt.Sprintf("%s:%s:%s", sign, variant, day)
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ horoscope.Store = (*MemoryStore)(nil)
