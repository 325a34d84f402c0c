package runtime

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

func (c *Context) intValue(ctx context.Context, p domain.Participant, source domain.ValueSource, name string) (int, bool) {
	if source == domain.SourceCapability {
		return p.IntValue(name), true
	}
	if !c.hasAccessor(ctx, name) {
		return 0, false
	}
	v, err := c.env.Accessor.GetInt(p, name)
	if err != nil {
		c.logError(ctx, "failed to read int class variable", "variable", name, "participant", p.ParticipantName(), "err", err)
		return 0, false
	}
	return v, true
}

func (c *Context) floatValue(ctx context.Context, p domain.Participant, source domain.ValueSource, name string) (float64, bool) {
	if source == domain.SourceCapability {
		return p.FloatValue(name), true
	}
	if !c.hasAccessor(ctx, name) {
		return 0, false
	}
	v, err := c.env.Accessor.GetFloat(p, name)
	if err != nil {
		c.logError(ctx, "failed to read float class variable", "variable", name, "participant", p.ParticipantName(), "err", err)
		return 0, false
	}
	return v, true
}

func (c *Context) boolValue(ctx context.Context, p domain.Participant, source domain.ValueSource, name string) (bool, bool) {
	if source == domain.SourceCapability {
		return p.BoolValue(name), true
	}
	if !c.hasAccessor(ctx, name) {
		return false, false
	}
	v, err := c.env.Accessor.GetBool(p, name)
	if err != nil {
		c.logError(ctx, "failed to read bool class variable", "variable", name, "participant", p.ParticipantName(), "err", err)
		return false, false
	}
	return v, true
}

func (c *Context) nameValue(ctx context.Context, p domain.Participant, source domain.ValueSource, name string) (string, bool) {
	if source == domain.SourceCapability {
		return p.NameValue(name), true
	}
	if !c.hasAccessor(ctx, name) {
		return "", false
	}
	v, err := c.env.Accessor.GetString(p, name)
	if err != nil {
		c.logError(ctx, "failed to read name class variable", "variable", name, "participant", p.ParticipantName(), "err", err)
		return "", false
	}
	return v, true
}

func (c *Context) setClassVariable(ctx context.Context, p domain.Participant, name string, value any) {
	if !c.hasAccessor(ctx, name) {
		return
	}
	if err := c.env.Accessor.Set(p, name, value); err != nil {
		c.logError(ctx, "failed to write class variable", "variable", name, "participant", p.ParticipantName(), "err", err)
	}
}

func (c *Context) hasAccessor(ctx context.Context, name string) bool {
	if c.env.Accessor == nil {
		c.logError(ctx, "class variable used but no variable accessor is configured", "variable", name)
		return false
	}
	return true
}
