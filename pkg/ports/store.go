package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

// HistoryStore persists global visitation history, one entry per dialogue identity.
type HistoryStore interface {
	// Save replaces the stored history of a dialogue.
	Save(ctx context.Context, dialogue uuid.UUID, history domain.History) error

	// Load returns the stored history of a dialogue.
	// Returns domain.ErrHistoryNotFound if nothing is stored.
	Load(ctx context.Context, dialogue uuid.UUID) (domain.History, error)

	// LoadAll returns every stored history.
	LoadAll(ctx context.Context) (map[uuid.UUID]domain.History, error)

	// Delete removes the history of a dialogue. Deleting a missing entry is not an error.
	Delete(ctx context.Context, dialogue uuid.UUID) error

	// Clear removes every stored history.
	Clear(ctx context.Context) error
}
