// Package registry holds the named custom hooks that dialogue documents refer to.
//
// Documents cannot carry Go values, so a custom condition, event or text
// argument is written as a hook name and resolved here at compile time.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// Registry manages the available hooks.
type Registry struct {
	mu         sync.RWMutex
	conditions map[string]domain.CustomCondition
	events     map[string]domain.CustomEvent
	texts      map[string]domain.CustomTextArgument
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conditions: make(map[string]domain.CustomCondition),
		events:     make(map[string]domain.CustomEvent),
		texts:      make(map[string]domain.CustomTextArgument),
	}
}

// RegisterCondition adds a condition hook.
// If a hook with the same name exists, it is overwritten.
func (r *Registry) RegisterCondition(name string, c domain.CustomCondition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = c
}

// RegisterEvent adds an event hook.
func (r *Registry) RegisterEvent(name string, e domain.CustomEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[name] = e
}

// RegisterText adds a text argument hook.
func (r *Registry) RegisterText(name string, t domain.CustomTextArgument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts[name] = t
}

// Condition looks up a condition hook by name.
// Returns an error if the hook is not found.
func (r *Registry) Condition(name string) (domain.CustomCondition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conditions[name]
	if !ok {
		return nil, fmt.Errorf("condition hook not found: %s", name)
	}
	return c, nil
}

func (r *Registry) Event(name string) (domain.CustomEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[name]
	if !ok {
		return nil, fmt.Errorf("event hook not found: %s", name)
	}
	return e, nil
}

func (r *Registry) Text(name string) (domain.CustomTextArgument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.texts[name]
	if !ok {
		return nil, fmt.Errorf("text hook not found: %s", name)
	}
	return t, nil
}

// Names lists every registered hook name per kind, sorted.
func (r *Registry) Names() (conditions, events, texts []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return keys(r.conditions), keys(r.events), keys(r.texts)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
