package astrorepo

import (
	"context"
	"sync"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

type recordKey struct {
	name string
	day  int
}

// MemoryRepository is an in-memory kundali.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[recordKey]kundali.AstroRecord
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[recordKey]kundali.AstroRecord)}
}

// Upsert implements kundali.Repository with last-writer-wins semantics.
func (r *MemoryRepository) Upsert(_ context.Context, record kundali.AstroRecord) (kundali.AstroRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey{name: record.Name, day: record.Day}] = record
	return record, nil
}

// Count reports how many distinct (name, day) records exist.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Get fetches a stored record, if present.
func (r *MemoryRepository) Get(name string, day int) (kundali.AstroRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[recordKey{name: name, day: day}]
	return record, ok
}

var _ kundali.Repository = (*MemoryRepository)(nil)
