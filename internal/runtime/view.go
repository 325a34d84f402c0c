package runtime

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

var _ domain.SessionView = (*Context)(nil)

func (c *Context) Dialogue() *domain.Dialogue { return c.dialogue }

func (c *Context) DialogueGUID() uuid.UUID { return c.dialogue.GUID() }

func (c *Context) DialogueName() string { return c.dialogue.Name() }

func (c *Context) State() State { return c.state }

func (c *Context) IsEnded() bool { return c.state == Ended }

// ActiveNodeIndex is -1 until the session enters its first node.
func (c *Context) ActiveNodeIndex() int { return c.activeIndex }

func (c *Context) ActiveNode() (*domain.Node, bool) {
	return c.dialogue.Node(c.activeIndex)
}

// SequenceIndex is the position inside the active sequence node.
func (c *Context) SequenceIndex() int { return c.sequence }

// Participant returns the bound participant, or nil.
func (c *Context) Participant(name string) domain.Participant {
	if name == "" {
		return nil
	}
	return c.participants[name]
}

// Participants returns a copy of the binding.
func (c *Context) Participants() map[string]domain.Participant {
	out := make(map[string]domain.Participant, len(c.participants))
	for k, v := range c.participants {
		out[k] = v
	}
	return out
}

// ReplaceParticipants swaps the whole binding after validating it.
// Replicated sessions use it once the remote objects are known.
func (c *Context) ReplaceParticipants(ctx context.Context, participants map[string]domain.Participant) bool {
	if !ValidateParticipants(ctx, c.logger, c.dialogue, participants) {
		return false
	}
	c.participants = make(map[string]domain.Participant, len(participants))
	for k, v := range participants {
		c.participants[k] = v
	}
	return true
}

// WasNodeVisited checks the local memory when local is true, else the global memory.
func (c *Context) WasNodeVisited(index int, guid uuid.UUID, local bool) bool {
	if local {
		return c.history.Contains(index, guid)
	}
	return c.env.Memory.IsNodeVisited(c.dialogue.GUID(), index, guid)
}

// LocalHistory returns a copy of the visits made by this session.
func (c *Context) LocalHistory() domain.History {
	return c.history.Clone()
}

// ActiveSpeaker is the owner of the active node, or the speaker of the active sequence entry.
func (c *Context) ActiveSpeaker() string {
	node, ok := c.ActiveNode()
	if !ok {
		return ""
	}
	if entry, ok := c.activeEntry(node); ok && entry.Speaker != "" {
		return entry.Speaker
	}
	return node.Owner
}

func (c *Context) ActiveSpeakerState() string {
	node, ok := c.ActiveNode()
	if !ok {
		return ""
	}
	if entry, ok := c.activeEntry(node); ok {
		return entry.SpeakerState
	}
	return node.SpeakerState
}

// ActiveNodeText is the text of the active node with its arguments substituted.
func (c *Context) ActiveNodeText(ctx context.Context) string {
	node, ok := c.ActiveNode()
	if !ok {
		c.logError(ctx, "cannot get the active node text: no active node")
		return ""
	}
	if entry, ok := c.activeEntry(node); ok {
		return c.FormatText(ctx, entry.Text, entry.TextArguments, c.ActiveSpeaker())
	}
	return c.FormatText(ctx, node.Text, node.TextArguments, node.Owner)
}

func (c *Context) ActiveParticipant() domain.Participant {
	return c.Participant(c.ActiveSpeaker())
}

func (c *Context) ActiveParticipantDisplayName() string {
	p := c.ActiveParticipant()
	if p == nil {
		return ""
	}
	return p.DisplayName(c.ActiveSpeaker())
}

func (c *Context) ActiveParticipantIcon() string {
	p := c.ActiveParticipant()
	if p == nil {
		return ""
	}
	return p.Icon(c.ActiveSpeaker(), c.ActiveSpeakerState())
}

func (c *Context) activeEntry(node *domain.Node) (domain.SequenceEntry, bool) {
	if node.Kind != domain.NodeSequence || c.sequence >= len(node.Sequence) {
		return domain.SequenceEntry{}, false
	}
	return node.Sequence[c.sequence], true
}

// Options returns the satisfied edges of the active node, in declaration order.
func (c *Context) Options() []domain.Edge {
	out := make([]domain.Edge, len(c.options))
	for i, o := range c.options {
		out[i] = o.edge
	}
	return out
}

// AllOptions returns every edge of the active node with its satisfaction.
func (c *Context) AllOptions() []EdgeData {
	out := make([]EdgeData, len(c.all))
	copy(out, c.all)
	return out
}

func (c *Context) OptionCount() int { return len(c.options) }

func (c *Context) AllOptionCount() int { return len(c.all) }

// OptionText is the substituted text of a satisfied option.
func (c *Context) OptionText(ctx context.Context, index int) string {
	edge, ok := c.option(ctx, index, false)
	if !ok {
		return ""
	}
	return c.edgeText(ctx, edge)
}

// OptionTextFromAll is OptionText indexed among all options.
func (c *Context) OptionTextFromAll(ctx context.Context, index int) string {
	edge, ok := c.option(ctx, index, true)
	if !ok {
		return ""
	}
	return c.edgeText(ctx, edge)
}

func (c *Context) OptionSpeakerState(ctx context.Context, index int) string {
	edge, ok := c.option(ctx, index, false)
	if !ok {
		return ""
	}
	return edge.SpeakerState
}

// IsOptionSatisfied reports the satisfaction of an option indexed among all options.
func (c *Context) IsOptionSatisfied(ctx context.Context, index int) bool {
	if index < 0 || index >= len(c.all) {
		c.logError(ctx, "invalid option index among all options", "option_index", index)
		return false
	}
	return c.all[index].Satisfied
}

// IsOptionConnectedToVisitedNode reports whether the target of an option was visited.
func (c *Context) IsOptionConnectedToVisitedNode(ctx context.Context, index int, local, fromAll bool) bool {
	edge, ok := c.option(ctx, index, fromAll)
	if !ok {
		return false
	}
	return c.WasNodeVisited(edge.TargetIndex, c.dialogue.GUIDForIndex(edge.TargetIndex), local)
}

// IsOptionConnectedToEndNode reports whether an option leads to an end node.
func (c *Context) IsOptionConnectedToEndNode(ctx context.Context, index int, fromAll bool) bool {
	edge, ok := c.option(ctx, index, fromAll)
	if !ok {
		return false
	}
	return c.dialogue.IsEndNode(edge.TargetIndex)
}

func (c *Context) option(ctx context.Context, index int, fromAll bool) (domain.Edge, bool) {
	if fromAll {
		if index < 0 || index >= len(c.all) {
			c.logError(ctx, "invalid option index among all options", "option_index", index)
			return domain.Edge{}, false
		}
		return c.all[index].Edge, true
	}
	if index < 0 || index >= len(c.options) {
		c.logError(ctx, "invalid option index", "option_index", index)
		return domain.Edge{}, false
	}
	return c.options[index].edge, true
}

func (c *Context) edgeText(ctx context.Context, edge domain.Edge) string {
	owner := ""
	if node, ok := c.ActiveNode(); ok {
		owner = node.Owner
	}
	return c.FormatText(ctx, edge.Text, edge.TextArguments, owner)
}

// Copy returns an independent session at the same point. The dialogue,
// participants and global memory stay shared.
func (c *Context) Copy() *Context {
	cp := *c
	cp.participants = c.Participants()
	cp.history = c.history.Clone()
	cp.options = append([]option(nil), c.options...)
	cp.all = append([]EdgeData(nil), c.all...)
	return &cp
}
