package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// DialogueLoader defines how the engine retrieves dialogues.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type DialogueLoader interface {
	// Load returns the compiled dialogue for an ID.
	// Returns domain.ErrDialogueNotFound if it does not exist.
	Load(ctx context.Context, id string) (*domain.Dialogue, error)

	// List returns the IDs of every dialogue available, sorted.
	List(ctx context.Context) ([]string, error)
}

// Watchable is implemented by loaders that can report changes to their dialogues.
type Watchable interface {
	// Watch returns a channel receiving the ID of every changed document.
	Watch(ctx context.Context) (<-chan string, error)
}
