package compiler

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/parley/internal/dto"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/google/uuid"
)

// builder converts one document, collecting every error instead of stopping at the first.
type builder struct {
	doc      *dto.Document
	registry *registry.Registry
	guid     uuid.UUID
	index    map[string]int
	guids    []uuid.UUID
	errs     []error
}

func newBuilder(doc *dto.Document, reg *registry.Registry) (*builder, error) {
	b := &builder{
		doc:      doc,
		registry: reg,
		guid:     domain.DialogueGUID(doc.Name),
		index:    make(map[string]int, len(doc.Nodes)),
		guids:    make([]uuid.UUID, len(doc.Nodes)),
	}
	if doc.GUID != "" {
		g, err := uuid.Parse(doc.GUID)
		if err != nil {
			return nil, &DocumentError{Dialogue: doc.Name, Field: "guid", Reason: err.Error()}
		}
		b.guid = g
	}

	for i, n := range doc.Nodes {
		if prev, dup := b.index[n.Key]; dup {
			return nil, &DocumentError{Dialogue: doc.Name, Field: fmt.Sprintf("nodes[%d].key", i),
				Reason: fmt.Sprintf("key %q already used by nodes[%d]", n.Key, prev)}
		}
		b.index[n.Key] = i
		b.guids[i] = domain.NodeGUID(b.guid, n.Key)
		if n.GUID != "" {
			g, err := uuid.Parse(n.GUID)
			if err != nil {
				return nil, &DocumentError{Dialogue: doc.Name, Field: fmt.Sprintf("nodes[%d].guid", i), Reason: err.Error()}
			}
			b.guids[i] = g
		}
	}
	return b, nil
}

func (b *builder) fail(field, format string, args ...any) {
	b.errs = append(b.errs, &DocumentError{Dialogue: b.doc.Name, Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (b *builder) resolve(field, key string) int {
	i, ok := b.index[key]
	if !ok {
		b.fail(field, "unknown node %q", key)
		return -1
	}
	return i
}

func (b *builder) node(field string, n dto.Node) domain.Node {
	out := domain.Node{
		GUID:                      b.guids[b.index[n.Key]],
		Key:                       n.Key,
		Kind:                      domain.NodeKind(n.Kind),
		Owner:                     n.Owner,
		Text:                      n.Text,
		SpeakerState:              n.SpeakerState,
		TextArguments:             b.arguments(field+".arguments", n.Arguments),
		EnterConditions:           b.conditions(field+".enter_conditions", n.EnterConditions),
		EnterEvents:               b.events(field+".enter_events", n.EnterEvents),
		CheckChildrenOnEvaluation: n.CheckChildren,
		Edges:                     b.edges(field+".edges", n.Edges),
		Selector:                  domain.SelectorMode(n.Selector),
	}
	if out.Kind == domain.NodeSelector && out.Selector == "" {
		out.Selector = domain.SelectFirst
	}
	if out.Kind == domain.NodeSequence && len(n.Sequence) == 0 {
		b.fail(field+".sequence", "a sequence node needs at least one entry")
	}
	for i, s := range n.Sequence {
		out.Sequence = append(out.Sequence, domain.SequenceEntry{
			Speaker:       s.Speaker,
			Text:          s.Text,
			TextArguments: b.arguments(fmt.Sprintf("%s.sequence[%d].arguments", field, i), s.Arguments),
			SpeakerState:  s.SpeakerState,
			EdgeText:      s.EdgeText,
		})
	}
	return out
}

func (b *builder) edges(field string, in []dto.Edge) []domain.Edge {
	out := make([]domain.Edge, 0, len(in))
	for i, e := range in {
		f := fmt.Sprintf("%s[%d]", field, i)
		out = append(out, domain.Edge{
			TargetIndex:   b.resolve(f+".to", e.To),
			Conditions:    b.conditions(f+".conditions", e.Conditions),
			Events:        b.events(f+".events", e.Events),
			Text:          e.Text,
			TextArguments: b.arguments(f+".arguments", e.Arguments),
			SpeakerState:  e.SpeakerState,
		})
	}
	return out
}

func (b *builder) conditions(field string, in []dto.Condition) []domain.Condition {
	var out []domain.Condition
	for i, c := range in {
		f := fmt.Sprintf("%s[%d]", field, i)
		check := b.check(f, c)
		if check == nil {
			continue
		}
		cond := domain.Condition{Participant: c.Participant, Check: check}
		if c.Weak {
			cond = cond.AsWeak()
		}
		out = append(out, cond)
	}
	return out
}

func (b *builder) check(field string, c dto.Condition) domain.Check {
	expected := c.Expected == nil || *c.Expected
	source := b.source(field, c.Source)
	compare := b.comparand(c.Compare)

	switch c.Type {
	case "int":
		op := b.operation(field, c.Op)
		return domain.IntCheck{Variable: c.Variable, Source: source, Op: op, Value: b.toInt(field+".value", c.Value), Compare: compare}
	case "float":
		op := b.operation(field, c.Op)
		return domain.FloatCheck{Variable: c.Variable, Source: source, Op: op, Value: b.toFloat(field+".value", c.Value), Compare: compare}
	case "bool":
		return domain.BoolCheck{Variable: c.Variable, Source: source, Expected: expected, Compare: compare}
	case "name":
		return domain.NameCheck{Variable: c.Variable, Source: source, Value: toString(c.Value), Expected: expected, Compare: compare}
	case "condition":
		if c.Name == "" {
			b.fail(field+".name", "a named condition needs a name")
		}
		return domain.NamedCheck{Name: c.Name, Expected: expected}
	case "was_node_visited":
		i := b.resolve(field+".node", c.Node)
		return domain.NodeVisitedCheck{NodeIndex: i, NodeGUID: b.guidFor(i), LongTerm: c.LongTerm, Expected: expected}
	case "has_satisfied_child":
		i := b.resolve(field+".node", c.Node)
		return domain.SatisfiedChildCheck{NodeIndex: i, NodeGUID: b.guidFor(i), Expected: expected}
	case "custom":
		return domain.CustomCheck{Predicate: b.conditionHook(field, c.Hook)}
	}
	b.fail(field+".type", "unknown condition type %q", c.Type)
	return nil
}

func (b *builder) events(field string, in []dto.Event) []domain.Event {
	var out []domain.Event
	for i, e := range in {
		f := fmt.Sprintf("%s[%d]", field, i)
		source := b.source(f, e.Source)

		var action domain.Action
		switch e.Type {
		case "event":
			if e.Name == "" {
				b.fail(f+".name", "a named event needs a name")
			}
			action = domain.NamedAction{Name: e.Name}
		case "modify_int":
			action = domain.ModifyInt{Variable: e.Variable, Source: source, Delta: e.Delta, Value: b.toInt(f+".value", e.Value)}
		case "modify_float":
			action = domain.ModifyFloat{Variable: e.Variable, Source: source, Delta: e.Delta, Value: b.toFloat(f+".value", e.Value)}
		case "modify_bool":
			action = domain.ModifyBool{Variable: e.Variable, Source: source, Value: b.toBool(f+".value", e.Value)}
		case "modify_name":
			action = domain.ModifyName{Variable: e.Variable, Source: source, Value: toString(e.Value)}
		case "custom":
			action = domain.CustomAction{Handler: b.eventHook(f, e.Hook)}
		default:
			b.fail(f+".type", "unknown event type %q", e.Type)
			continue
		}
		if e.Type != "event" && e.Type != "custom" && e.Variable == "" {
			b.fail(f+".variable", "a %s event needs a variable", e.Type)
		}
		out = append(out, domain.Event{Participant: e.Participant, Action: action})
	}
	return out
}

func (b *builder) arguments(field string, in []dto.Argument) []domain.TextArgument {
	var out []domain.TextArgument
	for i, a := range in {
		f := fmt.Sprintf("%s[%d]", field, i)
		kind, ok := domain.ParseArgumentKind(a.Kind)
		if !ok {
			b.fail(f+".kind", "unknown argument kind %q", a.Kind)
			continue
		}
		arg := domain.TextArgument{DisplayString: a.Display, Kind: kind, Participant: a.Participant, Variable: a.Variable}
		if kind == domain.ArgCustom {
			arg.Custom = b.textHook(f, a.Hook)
		}
		out = append(out, arg)
	}
	return out
}

func (b *builder) guidFor(index int) uuid.UUID {
	if index < 0 || index >= len(b.guids) {
		return uuid.Nil
	}
	return b.guids[index]
}

func (b *builder) source(field, s string) domain.ValueSource {
	switch s {
	case "", "capability":
		return domain.SourceCapability
	case "class":
		return domain.SourceClassVariable
	}
	b.fail(field+".source", "unknown value source %q", s)
	return domain.SourceCapability
}

func (b *builder) operation(field, s string) domain.Operation {
	op, err := domain.ParseOperation(s)
	if err != nil {
		b.fail(field+".op", "%v", err)
	}
	return op
}

func (b *builder) comparand(c *dto.Comparand) domain.Comparand {
	if c == nil {
		return domain.Comparand{}
	}
	target := domain.CompareToVariable
	if c.Class {
		target = domain.CompareToClassVariable
	}
	return domain.Comparand{Target: target, Participant: c.Participant, Variable: c.Variable}
}

func (b *builder) conditionHook(field, name string) domain.CustomCondition {
	if !b.hasHook(field, name) {
		return nil
	}
	h, err := b.registry.Condition(name)
	if err != nil {
		b.fail(field+".hook", "%v", err)
		return nil
	}
	return h
}

func (b *builder) eventHook(field, name string) domain.CustomEvent {
	if !b.hasHook(field, name) {
		return nil
	}
	h, err := b.registry.Event(name)
	if err != nil {
		b.fail(field+".hook", "%v", err)
		return nil
	}
	return h
}

func (b *builder) textHook(field, name string) domain.CustomTextArgument {
	if !b.hasHook(field, name) {
		return nil
	}
	h, err := b.registry.Text(name)
	if err != nil {
		b.fail(field+".hook", "%v", err)
		return nil
	}
	return h
}

func (b *builder) hasHook(field, name string) bool {
	if name == "" {
		b.fail(field+".hook", "a custom entry needs a hook name")
		return false
	}
	if b.registry == nil {
		b.fail(field+".hook", "hook %q used but no registry is configured", name)
		return false
	}
	return true
}

// Scalar values arrive as whatever the source produced: YAML ints, JSON
// floats, json.Number from strict loam repositories, or strings.

func (b *builder) toInt(field string, v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		if n != float64(int(n)) {
			b.fail(field, "%v is not an integer", n)
		}
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			b.fail(field, "%v", err)
		}
		return int(i)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			b.fail(field, "%q is not an integer", n)
		}
		return i
	}
	b.fail(field, "expected an integer, got %T", v)
	return 0
}

func (b *builder) toFloat(field string, v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			b.fail(field, "%v", err)
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			b.fail(field, "%q is not a number", n)
		}
		return f
	}
	b.fail(field, "expected a number, got %T", v)
	return 0
}

func (b *builder) toBool(field string, v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		parsed, err := strconv.ParseBool(x)
		if err != nil {
			b.fail(field, "%q is not a boolean", x)
		}
		return parsed
	}
	b.fail(field, "expected a boolean, got %T", v)
	return false
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
