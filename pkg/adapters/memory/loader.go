package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/parley/internal/compiler"
	"github.com/aretw0/parley/pkg/domain"
)

// Loader implements ports.DialogueLoader using an in-memory map.
type Loader struct {
	mu        sync.RWMutex
	dialogues map[string]*domain.Dialogue
}

// NewLoader creates a loader holding compiled dialogues, keyed by their names.
func NewLoader(dialogues ...*domain.Dialogue) *Loader {
	l := &Loader{dialogues: make(map[string]*domain.Dialogue, len(dialogues))}
	for _, d := range dialogues {
		l.Add(d.Name(), d)
	}
	return l
}

// NewFromSources compiles raw YAML or JSON documents, keyed by ID.
// This improves DX for tests and embedded dialogues.
func NewFromSources(sources map[string]string, opts ...compiler.Option) (*Loader, error) {
	c := compiler.New(opts...)
	l := &Loader{dialogues: make(map[string]*domain.Dialogue, len(sources))}
	for id, src := range sources {
		d, err := c.CompileBytes([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("failed to compile dialogue %s: %w", id, err)
		}
		l.Add(id, d)
	}
	return l, nil
}

// Add registers or replaces a dialogue under id.
func (l *Loader) Add(id string, d *domain.Dialogue) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dialogues[id] = d
}

// Load retrieves a dialogue by ID.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Dialogue, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.dialogues[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDialogueNotFound, id)
	}
	return d, nil
}

// List returns all available dialogue IDs.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.dialogues))
	for k := range l.dialogues {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
