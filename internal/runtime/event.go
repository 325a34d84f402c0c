package runtime

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// ApplyEvents applies events in order. defaultParticipant is used by events that name none.
func (c *Context) ApplyEvents(ctx context.Context, events []domain.Event, defaultParticipant string) {
	c.applyEvents(ctx, events, defaultParticipant)
}

func (c *Context) applyEvents(ctx context.Context, events []domain.Event, defaultParticipant string) {
	for _, ev := range events {
		c.applyEvent(ctx, ev, defaultParticipant)
	}
}

func (c *Context) applyEvent(ctx context.Context, ev domain.Event, defaultParticipant string) {
	if ev.Action == nil {
		c.logError(ctx, "event has no action")
		return
	}

	name := ev.Participant
	if name == "" {
		name = defaultParticipant
	}
	p := c.Participant(name)
	if p == nil {
		if ev.RequiresParticipant() {
			c.logError(ctx, "event skipped: participant is missing", "kind", ev.Action.Kind(), "participant", name)
			return
		}
		if name != "" {
			c.logWarn(ctx, "event participant is missing", "kind", ev.Action.Kind(), "participant", name)
		}
	}

	switch a := ev.Action.(type) {
	case domain.NamedAction:
		p.OnDialogueEvent(ctx, c, a.Name)

	case domain.ModifyInt:
		if a.Source == domain.SourceCapability {
			p.ModifyIntValue(a.Variable, a.Delta, a.Value)
			return
		}
		value := a.Value
		if a.Delta {
			current, ok := c.intValue(ctx, p, domain.SourceClassVariable, a.Variable)
			if !ok {
				return
			}
			value += current
		}
		c.setClassVariable(ctx, p, a.Variable, value)

	case domain.ModifyFloat:
		if a.Source == domain.SourceCapability {
			p.ModifyFloatValue(a.Variable, a.Delta, a.Value)
			return
		}
		value := a.Value
		if a.Delta {
			current, ok := c.floatValue(ctx, p, domain.SourceClassVariable, a.Variable)
			if !ok {
				return
			}
			value += current
		}
		c.setClassVariable(ctx, p, a.Variable, value)

	case domain.ModifyBool:
		if a.Source == domain.SourceCapability {
			p.ModifyBoolValue(a.Variable, a.Value)
			return
		}
		c.setClassVariable(ctx, p, a.Variable, a.Value)

	case domain.ModifyName:
		if a.Source == domain.SourceCapability {
			p.ModifyNameValue(a.Variable, a.Value)
			return
		}
		c.setClassVariable(ctx, p, a.Variable, a.Value)

	case domain.CustomAction:
		if a.Handler == nil {
			c.logWarn(ctx, "custom event has no handler object, ignoring it")
			return
		}
		a.Handler.EnterEvent(ctx, c, p)

	default:
		c.logError(ctx, "unknown event kind", "kind", ev.Action.Kind())
	}
}
