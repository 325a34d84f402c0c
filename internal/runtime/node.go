package runtime

import (
	"context"

	"github.com/aretw0/parley/pkg/domain"
)

// nodeBehavior is what each node kind does when entered and when one of its options is taken.
type nodeBehavior interface {
	onEnter(ctx context.Context, c *Context, index int, node *domain.Node, guard visitGuard) bool
	onOptionSelected(ctx context.Context, c *Context, node *domain.Node, option int) bool
	// children returns the edges to offer and whether their conditions must be evaluated.
	children(c *Context, node *domain.Node) ([]domain.Edge, bool)
}

var behaviors = map[domain.NodeKind]nodeBehavior{
	domain.NodeSpeech:   speechBehavior{},
	domain.NodeSequence: sequenceBehavior{},
	domain.NodeSelector: selectorBehavior{},
	domain.NodeEnd:      endBehavior{},
}

// behaviorFor looks up the behavior of kind. domain.NewDialogue rejects
// unknown kinds, so a miss is logged as an error.
func (c *Context) behaviorFor(ctx context.Context, kind domain.NodeKind) (nodeBehavior, bool) {
	b, ok := behaviors[kind]
	if !ok {
		c.logError(ctx, "unknown node kind", "node_kind", string(kind))
	}
	return b, ok
}

type speechBehavior struct{}

func (speechBehavior) onEnter(ctx context.Context, c *Context, index int, node *domain.Node, guard visitGuard) bool {
	c.applyEvents(ctx, node.EnterEvents, node.Owner)
	if !c.ReevaluateChildren(ctx) {
		c.logError(ctx, "dialogue is stuck: the node has no satisfied option and is not an end node", "node_index", index)
		return false
	}
	return true
}

func (speechBehavior) onOptionSelected(ctx context.Context, c *Context, node *domain.Node, option int) bool {
	return c.takeOption(ctx, node, option)
}

func (speechBehavior) children(c *Context, node *domain.Node) ([]domain.Edge, bool) {
	return node.Edges, true
}

// sequenceBehavior walks the entries of the node one option at a time.
// Every entry but the last offers a single "next" option; the last one offers the node's edges.
type sequenceBehavior struct{}

func (sequenceBehavior) onEnter(ctx context.Context, c *Context, index int, node *domain.Node, guard visitGuard) bool {
	return speechBehavior{}.onEnter(ctx, c, index, node, guard)
}

func (sequenceBehavior) onOptionSelected(ctx context.Context, c *Context, node *domain.Node, option int) bool {
	if c.sequence >= len(node.Sequence)-1 {
		return c.takeOption(ctx, node, option)
	}
	c.sequence++
	if !c.ReevaluateChildren(ctx) {
		c.logError(ctx, "dialogue is stuck: the last sequence entry has no satisfied option", "node_index", c.activeIndex)
		return false
	}
	return true
}

func (sequenceBehavior) children(c *Context, node *domain.Node) ([]domain.Edge, bool) {
	if c.sequence >= len(node.Sequence)-1 {
		return node.Edges, true
	}
	next := domain.Edge{
		TargetIndex:  c.activeIndex,
		Text:         node.Sequence[c.sequence].EdgeText,
		SpeakerState: node.Sequence[c.sequence].SpeakerState,
	}
	return []domain.Edge{next}, false
}

// selectorBehavior enters one of its satisfied children right away.
type selectorBehavior struct{}

func (selectorBehavior) onEnter(ctx context.Context, c *Context, index int, node *domain.Node, guard visitGuard) bool {
	if guard.has(index) {
		c.logError(ctx, "selector entered twice in the same step: the graph loops through selectors without stopping", "node_index", index)
		return false
	}
	guard = guard.with(index)
	c.applyEvents(ctx, node.EnterEvents, node.Owner)

	var satisfied []domain.Edge
	for _, edge := range node.Edges {
		if c.isEdgeSatisfied(ctx, edge, node.Owner, nil) {
			satisfied = append(satisfied, edge)
		}
	}
	if len(satisfied) == 0 {
		c.logError(ctx, "selector has no satisfied child", "node_index", index)
		return false
	}

	chosen := satisfied[0]
	if node.Selector == domain.SelectRandom {
		chosen = satisfied[c.env.Intn(len(satisfied))]
	}
	c.applyEvents(ctx, chosen.Events, node.Owner)
	return c.enterNode(ctx, chosen.TargetIndex, guard)
}

func (selectorBehavior) onOptionSelected(ctx context.Context, c *Context, node *domain.Node, option int) bool {
	return c.takeOption(ctx, node, option)
}

func (selectorBehavior) children(c *Context, node *domain.Node) ([]domain.Edge, bool) {
	return node.Edges, true
}

type endBehavior struct{}

func (endBehavior) onEnter(ctx context.Context, c *Context, index int, node *domain.Node, guard visitGuard) bool {
	c.applyEvents(ctx, node.EnterEvents, node.Owner)
	c.options, c.all = nil, nil
	c.end(ctx, domain.EndTerminal)
	return true
}

func (endBehavior) onOptionSelected(ctx context.Context, c *Context, node *domain.Node, option int) bool {
	c.logError(ctx, "end nodes have no options", "option_index", option)
	return false
}

func (endBehavior) children(c *Context, node *domain.Node) ([]domain.Edge, bool) {
	return nil, false
}
