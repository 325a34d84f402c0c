package ports

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// ParticipantPool is the ambient set of objects that may take part in dialogues.
type ParticipantPool interface {
	Participants(ctx context.Context) ([]domain.Participant, error)
}
