package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/parley/pkg/domain"
)

const (
	missingParticipantText = "[CustomTextArgument is INVALID. Missing Attendee. Check log]"
	missingCustomText      = "[CustomTextArgument is INVALID. Missing Custom Text Argument. Check log]"
)

// ResolveTextArgument produces the value substituted for one argument.
// Failures produce a visible placeholder instead of an empty string.
func (c *Context) ResolveTextArgument(ctx context.Context, arg domain.TextArgument, defaultParticipant string) string {
	name := arg.Participant
	if name == "" {
		name = defaultParticipant
	}
	p := c.Participant(name)
	if p == nil {
		c.logError(ctx, "text argument has no valid participant", "argument", arg.DisplayString, "participant", name)
		return missingParticipantText
	}

	switch arg.Kind {
	case domain.ArgDisplayName:
		return p.DisplayName(c.ActiveSpeaker())
	case domain.ArgGender:
		return string(p.Gender())
	case domain.ArgDialogueInt:
		return c.env.Printer.Sprint(p.IntValue(arg.Variable))
	case domain.ArgDialogueFloat:
		return c.env.Printer.Sprint(p.FloatValue(arg.Variable))
	case domain.ArgClassInt:
		v, _ := c.intValue(ctx, p, domain.SourceClassVariable, arg.Variable)
		return c.env.Printer.Sprint(v)
	case domain.ArgClassFloat:
		v, _ := c.floatValue(ctx, p, domain.SourceClassVariable, arg.Variable)
		return c.env.Printer.Sprint(v)
	case domain.ArgClassText:
		v, _ := c.nameValue(ctx, p, domain.SourceClassVariable, arg.Variable)
		return v
	case domain.ArgCustom:
		if arg.Custom == nil {
			c.logError(ctx, "custom text argument has no producer object", "argument", arg.DisplayString)
			return missingCustomText
		}
		return arg.Custom.Text(ctx, c, p, arg.DisplayString)
	default:
		c.logError(ctx, "unknown text argument kind", "kind", arg.Kind.String())
		return ""
	}
}

// FormatText replaces every {DisplayString} placeholder of template with its argument value.
// Placeholders without an argument are left untouched.
func (c *Context) FormatText(ctx context.Context, template string, args []domain.TextArgument, defaultParticipant string) string {
	if len(args) == 0 || !strings.Contains(template, "{") {
		return template
	}
	pairs := make([]string, 0, len(args)*2)
	for _, arg := range args {
		if arg.DisplayString == "" {
			continue
		}
		pairs = append(pairs, "{"+arg.DisplayString+"}", c.ResolveTextArgument(ctx, arg, defaultParticipant))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
