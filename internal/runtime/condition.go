package runtime

import (
	"cmp"
	"context"
	"math"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

// FloatTolerance is the largest difference at which two floats compare equal.
const FloatTolerance = 1e-8

// EvaluateConditions applies the array rule: every Strong condition must hold,
// and when Weak conditions exist at least one of them must hold.
// defaultParticipant is used by conditions that name no participant.
func (c *Context) EvaluateConditions(ctx context.Context, conditions []domain.Condition, defaultParticipant string) bool {
	return c.evaluateConditions(ctx, conditions, defaultParticipant, nil)
}

// IsConditionMet evaluates a single condition.
func (c *Context) IsConditionMet(ctx context.Context, cond domain.Condition, defaultParticipant string) bool {
	return c.isConditionMet(ctx, cond, defaultParticipant, nil)
}

func (c *Context) evaluateConditions(ctx context.Context, conditions []domain.Condition, defaultParticipant string, guard visitGuard) bool {
	hasWeak, weakMet := false, false
	for _, cond := range conditions {
		met := c.isConditionMet(ctx, cond, defaultParticipant, guard)
		if cond.Strength == domain.Weak {
			hasWeak = true
			weakMet = weakMet || met
			continue
		}
		if !met {
			return false
		}
	}
	return !hasWeak || weakMet
}

func (c *Context) isConditionMet(ctx context.Context, cond domain.Condition, defaultParticipant string, guard visitGuard) bool {
	if cond.Check == nil {
		c.logError(ctx, "condition has no check")
		return false
	}

	name := cond.Participant
	if name == "" {
		name = defaultParticipant
	}
	p := c.Participant(name)
	if p == nil && cond.RequiresParticipant() {
		c.logError(ctx, "condition failed: participant is missing", "kind", cond.Check.Kind(), "participant", name)
		return false
	}

	switch check := cond.Check.(type) {
	case domain.IntCheck:
		return c.checkInt(ctx, check, p)
	case domain.FloatCheck:
		return c.checkFloat(ctx, check, p)
	case domain.BoolCheck:
		return c.checkBool(ctx, check, p)
	case domain.NameCheck:
		return c.checkName(ctx, check, p)
	case domain.NamedCheck:
		return p.CheckCondition(ctx, c, check.Name) == check.Expected
	case domain.NodeVisitedCheck:
		index := c.resolveIndex(check.NodeIndex, check.NodeGUID)
		return c.WasNodeVisited(index, check.NodeGUID, !check.LongTerm) == check.Expected
	case domain.SatisfiedChildCheck:
		index := c.resolveIndex(check.NodeIndex, check.NodeGUID)
		if !c.dialogue.IsValidIndex(index) {
			c.logError(ctx, "has satisfied child condition: target node does not exist", "node_index", check.NodeIndex, "node_guid", check.NodeGUID.String())
			return false
		}
		return c.hasSatisfiedChild(ctx, index, guard) == check.Expected
	case domain.CustomCheck:
		if check.Predicate == nil {
			c.logWarn(ctx, "custom condition has no predicate object, treating it as not met")
			return false
		}
		if p == nil && name != "" {
			c.logWarn(ctx, "custom condition participant is missing", "participant", name)
		}
		return check.Predicate.IsConditionMet(ctx, c, p)
	default:
		c.logError(ctx, "unknown condition kind", "kind", cond.Check.Kind())
		return false
	}
}

// resolveIndex prefers the GUID, which survives graph edits.
func (c *Context) resolveIndex(index int, guid uuid.UUID) int {
	if guid != uuid.Nil {
		if i := c.dialogue.IndexForGUID(guid); i >= 0 {
			return i
		}
	}
	return index
}

func (c *Context) checkInt(ctx context.Context, check domain.IntCheck, p domain.Participant) bool {
	value, ok := c.intValue(ctx, p, check.Source, check.Variable)
	if !ok {
		return false
	}
	other := check.Value
	if check.Compare.Target != domain.CompareToConst {
		q, ok := c.comparandParticipant(ctx, check.Compare)
		if !ok {
			return false
		}
		if other, ok = c.intValue(ctx, q, comparandSource(check.Compare), check.Compare.Variable); !ok {
			return false
		}
	}
	return c.compare(ctx, check.Op, cmp.Compare(value, other), value == other)
}

func (c *Context) checkFloat(ctx context.Context, check domain.FloatCheck, p domain.Participant) bool {
	value, ok := c.floatValue(ctx, p, check.Source, check.Variable)
	if !ok {
		return false
	}
	other := check.Value
	if check.Compare.Target != domain.CompareToConst {
		q, ok := c.comparandParticipant(ctx, check.Compare)
		if !ok {
			return false
		}
		if other, ok = c.floatValue(ctx, q, comparandSource(check.Compare), check.Compare.Variable); !ok {
			return false
		}
	}
	return c.compare(ctx, check.Op, cmp.Compare(value, other), math.Abs(value-other) <= FloatTolerance)
}

func (c *Context) checkBool(ctx context.Context, check domain.BoolCheck, p domain.Participant) bool {
	value, ok := c.boolValue(ctx, p, check.Source, check.Variable)
	if !ok {
		return false
	}
	result := value
	if check.Compare.Target != domain.CompareToConst {
		q, ok := c.comparandParticipant(ctx, check.Compare)
		if !ok {
			return false
		}
		other, ok := c.boolValue(ctx, q, comparandSource(check.Compare), check.Compare.Variable)
		if !ok {
			return false
		}
		result = value == other
	}
	return result == check.Expected
}

func (c *Context) checkName(ctx context.Context, check domain.NameCheck, p domain.Participant) bool {
	value, ok := c.nameValue(ctx, p, check.Source, check.Variable)
	if !ok {
		return false
	}
	other := check.Value
	if check.Compare.Target != domain.CompareToConst {
		q, ok := c.comparandParticipant(ctx, check.Compare)
		if !ok {
			return false
		}
		if other, ok = c.nameValue(ctx, q, comparandSource(check.Compare), check.Compare.Variable); !ok {
			return false
		}
	}
	return (value == other) == check.Expected
}

func comparandSource(target domain.Comparand) domain.ValueSource {
	if target.Target == domain.CompareToClassVariable {
		return domain.SourceClassVariable
	}
	return domain.SourceCapability
}

func (c *Context) comparandParticipant(ctx context.Context, target domain.Comparand) (domain.Participant, bool) {
	q := c.Participant(target.Participant)
	if q == nil {
		c.logError(ctx, "condition failed: the participant to compare against is missing", "participant", target.Participant)
		return nil, false
	}
	return q, true
}

// compare applies op to the ordering of two values (as returned by cmp.Compare).
// equal is passed separately so floats can use a tolerant equality.
func (c *Context) compare(ctx context.Context, op domain.Operation, order int, equal bool) bool {
	switch op {
	case domain.OpEqual:
		return equal
	case domain.OpNotEqual:
		return !equal
	case domain.OpLess:
		return order < 0
	case domain.OpLessOrEqual:
		return order <= 0
	case domain.OpGreater:
		return order > 0
	case domain.OpGreaterOrEqual:
		return order >= 0
	default:
		c.logError(ctx, "invalid operation in condition", "operation", op.String())
		return false
	}
}
