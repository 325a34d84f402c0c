// Package history holds the process-wide visitation memory shared by every
// session of a dialogue, and its persistence through a ports.HistoryStore.
//
// A Memory starts empty. Hosts decide when to export, replace or clear it;
// nothing is loaded or saved implicitly.
package history

import (
	"sync"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

// Memory maps dialogue identities to their visitation history.
// Reads may run concurrently; writes are serialized.
type Memory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*domain.History
}

// NewMemory returns an empty memory.
func NewMemory() *Memory {
	return &Memory{entries: make(map[uuid.UUID]*domain.History)}
}

// SetNodeVisited records a visit of a node in a dialogue.
func (m *Memory) SetNodeVisited(dialogue uuid.UUID, index int, guid uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.entries[dialogue]
	if !ok {
		h = &domain.History{}
		m.entries[dialogue] = h
	}
	h.Add(index, guid)
}

// IsNodeVisited reports whether a node of a dialogue was ever visited.
func (m *Memory) IsNodeVisited(dialogue uuid.UUID, index int, guid uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.entries[dialogue]
	if !ok {
		return false
	}
	return h.Contains(index, guid)
}

// NodeHistory returns a copy of the history of one dialogue.
func (m *Memory) NodeHistory(dialogue uuid.UUID) (domain.History, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.entries[dialogue]
	if !ok {
		return domain.History{}, false
	}
	return h.Clone(), true
}

// SetNodeHistory replaces the history of one dialogue.
func (m *Memory) SetNodeHistory(dialogue uuid.UUID, h domain.History) {
	c := h.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[dialogue] = &c
}

// Export returns a deep copy of the whole memory.
func (m *Memory) Export() map[uuid.UUID]domain.History {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[uuid.UUID]domain.History, len(m.entries))
	for id, h := range m.entries {
		out[id] = h.Clone()
	}
	return out
}

// Replace swaps the whole memory for a copy of entries.
func (m *Memory) Replace(entries map[uuid.UUID]domain.History) {
	fresh := make(map[uuid.UUID]*domain.History, len(entries))
	for id, h := range entries {
		c := h.Clone()
		fresh[id] = &c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = fresh
}

// Forget drops the history of one dialogue.
func (m *Memory) Forget(dialogue uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, dialogue)
}

// Clear forgets every visit of every dialogue.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[uuid.UUID]*domain.History)
}

// Dialogues lists the identities with recorded history.
func (m *Memory) Dialogues() []uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]uuid.UUID, 0, len(m.entries))
	for id := range m.entries {
		out = append(out, id)
	}
	return out
}
