package memory

import (
	"context"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

// Store implements ports.HistoryStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[uuid.UUID]domain.History
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[uuid.UUID]domain.History),
	}
}

// Save persists the history in memory.
func (s *Store) Save(ctx context.Context, dialogue uuid.UUID, h domain.History) error {
	// Copy to ensure isolation, similar to serialization
	copied := h.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[dialogue] = copied
	return nil
}

// Load retrieves the history of one dialogue.
func (s *Store) Load(ctx context.Context, dialogue uuid.UUID) (domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[dialogue]
	if !ok {
		return domain.History{}, domain.ErrHistoryNotFound
	}
	return h.Clone(), nil
}

// LoadAll returns a copy of every stored history.
func (s *Store) LoadAll(ctx context.Context) (map[uuid.UUID]domain.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[uuid.UUID]domain.History, len(s.data))
	for id, h := range s.data {
		out[id] = h.Clone()
	}
	return out, nil
}

// Delete removes the history of one dialogue.
func (s *Store) Delete(ctx context.Context, dialogue uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, dialogue)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[uuid.UUID]domain.History)
	return nil
}
