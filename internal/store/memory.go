package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/calvinwijaya/eight-of-clubs/internal/game"
)

// MemoryStore is an in-memory implementation of table storage
type MemoryStore struct {
	tables map[string]*game.Table
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*game.Table),
	}
}

// SaveTable saves a table to the store
func (s *MemoryStore) SaveTable(t *game.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables[t.ID] = t
	return nil
}

// GetTable retrieves a table by ID
func (s *MemoryStore) GetTable(id string) (*game.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tables[id]
	if !exists {
		return nil, ErrTableNotFound
	}

	return t, nil
}

// DeleteTable removes a table from the store. Any shuffle still pending on
// it is discarded.
func (s *MemoryStore) DeleteTable(id string) error {
	s.mu.Lock()
	t, exists := s.tables[id]
	if !exists {
		s.mu.Unlock()
		return ErrTableNotFound
	}
	delete(s.tables, id)
	s.mu.Unlock()

	t.Close()
	return nil
}

// AllTables returns all tables in the store
func (s *MemoryStore) AllTables() ([]*game.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tables := make([]*game.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}

	return tables, nil
}

// Sweep deletes tables that have not changed for longer than maxIdle and
// returns their ids
func (s *MemoryStore) Sweep(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*game.Table
	for id, t := range s.tables {
		if t.LastActive().Before(cutoff) {
			stale = append(stale, t)
			delete(s.tables, id)
		}
	}
	s.mu.Unlock()

	ids := make([]string, 0, len(stale))
	for _, t := range stale {
		t.Close()
		ids = append(ids, t.ID)
	}
	return ids
}

// RunJanitor sweeps idle tables every interval until ctx is done
func (s *MemoryStore) RunJanitor(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ids := s.Sweep(maxIdle); len(ids) > 0 {
				log.Printf("Evicted %d idle tables", len(ids))
			}
		}
	}
}
