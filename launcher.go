package parley

import (
	"context"
	"fmt"

	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/google/uuid"
)

// StartDialogue binds participants by their self-reported names and starts a session.
// No context is returned when the binding is invalid or no entry edge is satisfied.
func (e *Engine) StartDialogue(ctx context.Context, d *domain.Dialogue, participants ...domain.Participant) (*Context, error) {
	bound, err := e.bindList(ctx, d, participants)
	if err != nil {
		return nil, err
	}
	return e.StartDialogueWithMap(ctx, d, bound)
}

// StartMonologue starts a dialogue spoken by a single participant.
func (e *Engine) StartMonologue(ctx context.Context, d *domain.Dialogue, p domain.Participant) (*Context, error) {
	return e.StartDialogue(ctx, d, p)
}

// StartDialogueWithMap starts a session over an explicit binding.
func (e *Engine) StartDialogueWithMap(ctx context.Context, d *domain.Dialogue, participants map[string]domain.Participant) (*Context, error) {
	if err := e.validate(ctx, d, participants); err != nil {
		return nil, err
	}
	c := runtime.NewContext(e.env(), d, participants)
	if !c.Start(ctx) {
		return nil, fmt.Errorf("%w: dialogue %q", domain.ErrNoSatisfiedEntry, d.Name())
	}
	return c, nil
}

// StartWithDefaultParticipants binds every declared participant from pool and starts a session.
func (e *Engine) StartWithDefaultParticipants(ctx context.Context, d *domain.Dialogue, pool ports.ParticipantPool) (*Context, error) {
	bound, err := e.bindPool(ctx, d, pool)
	if err != nil {
		return nil, err
	}
	return e.StartDialogueWithMap(ctx, d, bound)
}

// CanStartDialogue reports whether StartDialogue would succeed, without recording visits.
func (e *Engine) CanStartDialogue(ctx context.Context, d *domain.Dialogue, participants ...domain.Participant) bool {
	bound, err := e.bindList(ctx, d, participants)
	if err != nil {
		return false
	}
	return runtime.CanStart(ctx, e.env(), d, bound)
}

// ResumeFromNodeIndex restores a session at node index with the visits of a
// previous run. Without fireEnterEvents the node is made active without
// running its enter behavior.
func (e *Engine) ResumeFromNodeIndex(ctx context.Context, d *domain.Dialogue, index int, prior domain.History, fireEnterEvents bool, participants ...domain.Participant) (*Context, error) {
	return e.resume(ctx, d, index, uuid.Nil, prior, fireEnterEvents, participants)
}

// ResumeFromNodeGUID is ResumeFromNodeIndex addressing the node by GUID.
func (e *Engine) ResumeFromNodeGUID(ctx context.Context, d *domain.Dialogue, guid uuid.UUID, prior domain.History, fireEnterEvents bool, participants ...domain.Participant) (*Context, error) {
	if guid == uuid.Nil {
		return nil, fmt.Errorf("%w: nil GUID", domain.ErrInvalidNode)
	}
	return e.resume(ctx, d, -1, guid, prior, fireEnterEvents, participants)
}

func (e *Engine) resume(ctx context.Context, d *domain.Dialogue, index int, guid uuid.UUID, prior domain.History, fire bool, participants []domain.Participant) (*Context, error) {
	bound, err := e.bindList(ctx, d, participants)
	if err != nil {
		return nil, err
	}
	if err := e.validate(ctx, d, bound); err != nil {
		return nil, err
	}
	c := runtime.NewContext(e.env(), d, bound)
	if !c.StartFromNode(ctx, index, guid, prior, fire) {
		return nil, fmt.Errorf("%w: cannot resume dialogue %q at index %d, guid %s", domain.ErrInvalidNode, d.Name(), index, guid)
	}
	return c, nil
}

func (e *Engine) validate(ctx context.Context, d *domain.Dialogue, participants map[string]domain.Participant) error {
	if d == nil {
		return fmt.Errorf("%w: nil dialogue", domain.ErrDialogueNotFound)
	}
	if !runtime.ValidateParticipants(ctx, e.logger, d, participants) {
		return fmt.Errorf("%w: dialogue %q", domain.ErrInvalidParticipants, d.Name())
	}
	return nil
}

func (e *Engine) bindList(ctx context.Context, d *domain.Dialogue, participants []domain.Participant) (map[string]domain.Participant, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dialogue", domain.ErrDialogueNotFound)
	}
	bound, ok := runtime.ParticipantsFromList(ctx, e.logger, d, participants)
	if !ok {
		return nil, fmt.Errorf("%w: dialogue %q", domain.ErrInvalidParticipants, d.Name())
	}
	return bound, nil
}

func (e *Engine) bindPool(ctx context.Context, d *domain.Dialogue, pool ports.ParticipantPool) (map[string]domain.Participant, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dialogue", domain.ErrDialogueNotFound)
	}
	list, err := pool.Participants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	bound, ok := runtime.ParticipantsFromPool(ctx, e.logger, d, list)
	if !ok {
		return nil, fmt.Errorf("%w: dialogue %q", domain.ErrInvalidParticipants, d.Name())
	}
	return bound, nil
}
