package dsl

import (
	"github.com/aretw0/parley/internal/dto"
	"github.com/aretw0/parley/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	key           string
	kind          domain.NodeKind
	owner         string
	text          string
	state         string
	args          []Arg
	when          []Cond
	onEnter       []Ev
	checkChildren bool
	selector      domain.SelectorMode
	entries       []entry
	edges         []edge
	builder       *Builder
}

type entry struct {
	speaker  string
	text     string
	state    string
	edgeText string
	args     []Arg
}

// Owner sets the participant who speaks the node.
func (n *NodeBuilder) Owner(name string) *NodeBuilder {
	n.owner = name
	return n
}

// Text sets the text of a speech node. Arguments fill its {placeholders}.
func (n *NodeBuilder) Text(text string, args ...Arg) *NodeBuilder {
	n.text = text
	n.args = args
	return n
}

// State sets the speaker state shown while the node is active.
func (n *NodeBuilder) State(state string) *NodeBuilder {
	n.state = state
	return n
}

// When adds enter conditions. All of them must hold for the node to be entered.
func (n *NodeBuilder) When(conds ...Cond) *NodeBuilder {
	n.when = append(n.when, conds...)
	return n
}

// OnEnter adds events fired when the node is entered.
func (n *NodeBuilder) OnEnter(events ...Ev) *NodeBuilder {
	n.onEnter = append(n.onEnter, events...)
	return n
}

// CheckChildren makes the node enterable only when one of its edges is satisfied.
func (n *NodeBuilder) CheckChildren() *NodeBuilder {
	n.checkChildren = true
	return n
}

// Say appends a line to a sequence node. The node becomes a sequence.
func (n *NodeBuilder) Say(speaker, text string, args ...Arg) *NodeBuilder {
	n.kind = domain.NodeSequence
	n.entries = append(n.entries, entry{speaker: speaker, text: text, args: args})
	return n
}

// Reply sets the state and the text of the "continue" option of the last sequence line.
func (n *NodeBuilder) Reply(state, edgeText string) *NodeBuilder {
	if len(n.entries) == 0 {
		return n
	}
	last := &n.entries[len(n.entries)-1]
	last.state = state
	last.edgeText = edgeText
	return n
}

// Selector turns the node into a selector, which passes straight through to a child.
func (n *NodeBuilder) Selector(mode domain.SelectorMode) *NodeBuilder {
	n.kind = domain.NodeSelector
	n.selector = mode
	return n
}

// Terminal marks the node as an end node.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.kind = domain.NodeEnd
	return n
}

// Go adds an edge to target.
func (n *NodeBuilder) Go(target string, opts ...EdgeOption) *NodeBuilder {
	n.edges = append(n.edges, newEdge(target, opts))
	return n
}

// Add starts the next node, for chaining whole dialogues.
func (n *NodeBuilder) Add(key string) *NodeBuilder {
	return n.builder.Add(key)
}

func (n *NodeBuilder) record(h *hooks) dto.Node {
	rec := dto.Node{
		Key:             n.key,
		Kind:            string(n.kind),
		Owner:           n.owner,
		Text:            n.text,
		SpeakerState:    n.state,
		Arguments:       h.arguments(n.args),
		EnterConditions: h.conditions(n.when),
		EnterEvents:     h.events(n.onEnter),
		CheckChildren:   n.checkChildren,
		Selector:        string(n.selector),
		Edges:           h.edges(n.edges),
	}
	for _, e := range n.entries {
		rec.Sequence = append(rec.Sequence, dto.SequenceEntry{
			Speaker:      e.speaker,
			Text:         e.text,
			SpeakerState: e.state,
			EdgeText:     e.edgeText,
			Arguments:    h.arguments(e.args),
		})
	}
	return rec
}

type edge struct {
	to     string
	text   string
	state  string
	args   []Arg
	conds  []Cond
	events []Ev
}

func newEdge(target string, opts []EdgeOption) edge {
	e := edge{to: target}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EdgeOption configures an edge.
type EdgeOption func(*edge)

// If adds conditions to the edge.
func If(conds ...Cond) EdgeOption {
	return func(e *edge) { e.conds = append(e.conds, conds...) }
}

// Then adds events fired when the edge is chosen.
func Then(events ...Ev) EdgeOption {
	return func(e *edge) { e.events = append(e.events, events...) }
}

// Option sets the text the player sees for the edge.
func Option(text string, args ...Arg) EdgeOption {
	return func(e *edge) {
		e.text = text
		e.args = args
	}
}

// As sets the speaker state of the edge.
func As(state string) EdgeOption {
	return func(e *edge) { e.state = state }
}
