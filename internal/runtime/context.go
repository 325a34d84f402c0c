package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

// State is the lifecycle phase of a Context.
type State int

const (
	NotStarted State = iota
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Active:
		return "active"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EdgeData pairs an edge of the active node with its current satisfaction.
type EdgeData struct {
	Edge      domain.Edge
	Satisfied bool
}

// option is a satisfied edge and its position among all edges of the active node.
type option struct {
	edge     domain.Edge
	position int
}

// Context is the live state of one dialogue session.
// It is not safe for concurrent use; the dialogue it runs is shared read-only.
type Context struct {
	env      Env
	logger   *slog.Logger
	dialogue *domain.Dialogue

	participants map[string]domain.Participant
	history      domain.History

	state       State
	activeIndex int
	sequence    int
	options     []option
	all         []EdgeData
}

// NewContext creates a session that has not started yet.
// Participants are expected to be validated with ValidateParticipants.
func NewContext(env Env, dialogue *domain.Dialogue, participants map[string]domain.Participant) *Context {
	env = env.withDefaults()
	bound := make(map[string]domain.Participant, len(participants))
	for k, v := range participants {
		bound[k] = v
	}
	return &Context{
		env:          env,
		logger:       env.Logger.With("dialogue", dialogue.Name()),
		dialogue:     dialogue,
		participants: bound,
		activeIndex:  -1,
	}
}

// Start enters the target of the first satisfied edge of the Start node.
// When no edge qualifies the context stays NotStarted.
func (c *Context) Start(ctx context.Context) bool {
	if c.state != NotStarted {
		c.logError(ctx, "cannot start a session twice", "state", c.state.String())
		return false
	}

	start := c.dialogue.StartNode()
	for _, edge := range start.Edges {
		if !c.isEdgeSatisfied(ctx, edge, start.Owner, nil) {
			continue
		}
		c.state = Active
		c.emitSessionStart(ctx, false)
		c.applyEvents(ctx, edge.Events, start.Owner)
		return c.enterNode(ctx, edge.TargetIndex, nil)
	}

	c.logError(ctx, "all possible start node conditions failed: edge conditions and children enter conditions from the start node are not satisfied")
	return false
}

// StartFromNode resumes a session at a node given by GUID or, when guid is
// uuid.Nil, by index. The prior history is merged into the local memory.
// With fireEnterEvents the node is entered normally. Without it the node is
// only made active, marked visited and its children re-evaluated: enter events
// are not fired and selectors do not advance.
func (c *Context) StartFromNode(ctx context.Context, index int, guid uuid.UUID, prior domain.History, fireEnterEvents bool) bool {
	if c.state != NotStarted {
		c.logError(ctx, "cannot resume a session that already started", "state", c.state.String())
		return false
	}
	if guid != uuid.Nil {
		index = c.dialogue.IndexForGUID(guid)
		if index < 0 {
			c.logError(ctx, "failed to resume: unknown node GUID", "node_guid", guid.String())
			return false
		}
	}
	node, ok := c.dialogue.Node(index)
	if !ok {
		c.logError(ctx, "failed to resume: invalid node index", "node_index", index)
		return false
	}

	c.history.Merge(prior)
	c.state = Active
	c.emitSessionStart(ctx, true)

	if fireEnterEvents {
		return c.enterNode(ctx, index, nil)
	}

	c.activeIndex = index
	c.sequence = 0
	c.markVisited(index, node.GUID)
	if node.Kind == domain.NodeEnd {
		c.options, c.all = nil, nil
		c.end(ctx, domain.EndTerminal)
		return true
	}
	if !c.ReevaluateChildren(ctx) {
		c.fail(ctx, "failed to resume: no satisfied option on the node", "node_index", index)
		return false
	}
	return true
}

// EnterNode makes a node active, records the visit and runs the node's enter behavior.
// A failed entry ends the session.
func (c *Context) EnterNode(ctx context.Context, index int) bool {
	if c.state == Ended {
		c.logError(ctx, "cannot enter a node: session ended", "node_index", index)
		return false
	}
	c.state = Active
	return c.enterNode(ctx, index, nil)
}

func (c *Context) enterNode(ctx context.Context, index int, guard visitGuard) bool {
	node, ok := c.dialogue.Node(index)
	if !ok {
		c.fail(ctx, "failed to enter node: invalid node index", "node_index", index)
		return false
	}

	c.activeIndex = index
	c.sequence = 0
	c.markVisited(index, node.GUID)
	c.emitNodeEnter(ctx, index, node)

	behavior, ok := c.behaviorFor(ctx, node.Kind)
	if !ok || !behavior.onEnter(ctx, c, index, node, guard) {
		c.fail(ctx, "failed to enter node", "node_index", index, "node_kind", string(node.Kind))
		return false
	}
	return true
}

// ReevaluateChildren recomputes the options of the active node without moving.
// It returns whether at least one option is available.
func (c *Context) ReevaluateChildren(ctx context.Context) bool {
	node, ok := c.dialogue.Node(c.activeIndex)
	if !ok {
		c.logError(ctx, "cannot reevaluate children: no active node")
		return false
	}

	behavior, ok := c.behaviorFor(ctx, node.Kind)
	if !ok {
		return false
	}
	edges, evaluate := behavior.children(c, node)
	c.options = c.options[:0]
	c.all = make([]EdgeData, 0, len(edges))
	for i, edge := range edges {
		satisfied := !evaluate || c.isEdgeSatisfied(ctx, edge, node.Owner, nil)
		c.all = append(c.all, EdgeData{Edge: edge, Satisfied: satisfied})
		if satisfied {
			c.options = append(c.options, option{edge: edge, position: i})
		}
	}
	return len(c.options) > 0
}

// ChooseOption takes the option at index among the satisfied options.
// An invalid index ends the session.
func (c *Context) ChooseOption(ctx context.Context, index int) bool {
	if c.state != Active {
		c.logError(ctx, "cannot choose an option: session is not active", "state", c.state.String(), "option_index", index)
		return false
	}
	node, ok := c.dialogue.Node(c.activeIndex)
	if !ok {
		c.fail(ctx, "cannot choose an option: no active node", "option_index", index)
		return false
	}
	if index < 0 || index >= len(c.options) {
		c.fail(ctx, "invalid option index", "option_index", index, "options", len(c.options))
		return false
	}

	c.emitOptionSelected(ctx, index, c.options[index].edge.TargetIndex)
	behavior, ok := c.behaviorFor(ctx, node.Kind)
	if !ok || !behavior.onOptionSelected(ctx, c, node, index) {
		c.fail(ctx, "failed to take option", "option_index", index)
		return false
	}
	return true
}

// ChooseOptionFromAll takes an option by its position among all edges of the
// active node, satisfied or not. Choosing an unsatisfied edge ends the session.
func (c *Context) ChooseOptionFromAll(ctx context.Context, index int) bool {
	if c.state != Active {
		c.logError(ctx, "cannot choose an option: session is not active", "state", c.state.String(), "option_index", index)
		return false
	}
	if index < 0 || index >= len(c.all) {
		c.fail(ctx, "invalid option index among all options", "option_index", index, "options", len(c.all))
		return false
	}
	if !c.all[index].Satisfied {
		c.fail(ctx, "chosen option is not satisfied", "option_index", index)
		return false
	}
	for i, opt := range c.options {
		if opt.position == index {
			return c.ChooseOption(ctx, i)
		}
	}
	c.fail(ctx, "satisfied option is missing from the available options", "option_index", index)
	return false
}

// takeOption fires the events of an option and enters its target.
func (c *Context) takeOption(ctx context.Context, node *domain.Node, index int) bool {
	edge := c.options[index].edge
	c.applyEvents(ctx, edge.Events, node.Owner)
	return c.enterNode(ctx, edge.TargetIndex, nil)
}

// isEdgeSatisfied holds when the edge conditions pass and its target can be entered.
func (c *Context) isEdgeSatisfied(ctx context.Context, edge domain.Edge, owner string, guard visitGuard) bool {
	if !c.dialogue.IsValidIndex(edge.TargetIndex) {
		return false
	}
	return c.evaluateConditions(ctx, edge.Conditions, owner, guard) &&
		c.isNodeEnterable(ctx, edge.TargetIndex, guard)
}

// isNodeEnterable checks enter conditions and, when the node asks for it, that
// some child is satisfied. Nodes already on the guard path are not enterable.
func (c *Context) isNodeEnterable(ctx context.Context, index int, guard visitGuard) bool {
	node, ok := c.dialogue.Node(index)
	if !ok || guard.has(index) {
		return false
	}
	guard = guard.with(index)
	if !c.evaluateConditions(ctx, node.EnterConditions, node.Owner, guard) {
		return false
	}
	if !node.CheckChildrenOnEvaluation {
		return true
	}
	return c.anyEdgeSatisfied(ctx, node, guard)
}

// hasSatisfiedChild reports whether a node has a satisfied edge, adding it to the guard path.
func (c *Context) hasSatisfiedChild(ctx context.Context, index int, guard visitGuard) bool {
	node, ok := c.dialogue.Node(index)
	if !ok || guard.has(index) {
		return false
	}
	return c.anyEdgeSatisfied(ctx, node, guard.with(index))
}

func (c *Context) anyEdgeSatisfied(ctx context.Context, node *domain.Node, guard visitGuard) bool {
	for _, edge := range node.Edges {
		if c.isEdgeSatisfied(ctx, edge, node.Owner, guard) {
			return true
		}
	}
	return false
}

func (c *Context) markVisited(index int, guid uuid.UUID) {
	c.history.Add(index, guid)
	c.env.Memory.SetNodeVisited(c.dialogue.GUID(), index, guid)
}

func (c *Context) end(ctx context.Context, reason domain.EndReason) {
	if c.state == Ended {
		return
	}
	c.state = Ended
	if c.env.Hooks.OnSessionEnd != nil {
		c.env.Hooks.OnSessionEnd(ctx, &domain.EndEvent{
			EventBase: c.eventBase(domain.EventSessionEnd),
			NodeIndex: c.activeIndex,
			Reason:    reason,
		})
	}
}

// fail logs with the session context and ends the session.
func (c *Context) fail(ctx context.Context, msg string, args ...any) {
	c.logError(ctx, msg, args...)
	c.end(ctx, domain.EndFailure)
}

func (c *Context) logError(ctx context.Context, msg string, args ...any) {
	c.logger.ErrorContext(ctx, msg, append(args, "session", c.String())...)
}

func (c *Context) logWarn(ctx context.Context, msg string, args ...any) {
	c.logger.WarnContext(ctx, msg, append(args, "session", c.String())...)
}

func (c *Context) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, Dialogue: c.dialogue.Name()}
}

func (c *Context) emitSessionStart(ctx context.Context, resumed bool) {
	if c.env.Hooks.OnSessionStart != nil {
		c.env.Hooks.OnSessionStart(ctx, &domain.SessionEvent{
			EventBase: c.eventBase(domain.EventSessionStart),
			Resumed:   resumed,
		})
	}
}

func (c *Context) emitNodeEnter(ctx context.Context, index int, node *domain.Node) {
	if c.env.Hooks.OnNodeEnter != nil {
		c.env.Hooks.OnNodeEnter(ctx, &domain.NodeEvent{
			EventBase: c.eventBase(domain.EventNodeEnter),
			NodeIndex: index,
			NodeKey:   node.Key,
			NodeKind:  node.Kind,
		})
	}
}

func (c *Context) emitOptionSelected(ctx context.Context, index, target int) {
	if c.env.Hooks.OnOptionSelected != nil {
		c.env.Hooks.OnOptionSelected(ctx, &domain.OptionEvent{
			EventBase:   c.eventBase(domain.EventOptionSelected),
			NodeIndex:   c.activeIndex,
			OptionIndex: index,
			TargetIndex: target,
		})
	}
}

// String describes the session for diagnostics.
func (c *Context) String() string {
	return describe(c.dialogue, c.activeIndex, c.participants)
}

func describe(d *domain.Dialogue, active int, participants map[string]domain.Participant) string {
	names := make([]string, 0, len(participants))
	for name := range participants {
		names = append(names, name)
	}
	sort.Strings(names)
	dialogue := "INVALID"
	if d != nil {
		dialogue = d.Name()
	}
	return fmt.Sprintf("Dialogue = `%s`, ActiveNodeIndex = %d, Participants = `%s`", dialogue, active, strings.Join(names, ", "))
}
