package domain

import "github.com/google/uuid"

// NodeKind identifies the behavior of a node during traversal.
type NodeKind string

const (
	// NodeStart is the pseudo-node whose edges are the entry points of a dialogue.
	NodeStart NodeKind = "start"
	// NodeSpeech shows text and offers its satisfied edges as options.
	NodeSpeech NodeKind = "speech"
	// NodeSequence shows a list of entries one after the other before offering its edges.
	NodeSequence NodeKind = "sequence"
	// NodeSelector has no text; it enters one of its satisfied children right away.
	NodeSelector NodeKind = "selector"
	// NodeEnd ends the session.
	NodeEnd NodeKind = "end"
)

// Valid reports whether k is a kind a regular node may have.
// NodeStart is reserved for the start node and is not valid here.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeSpeech, NodeSequence, NodeSelector, NodeEnd:
		return true
	}
	return false
}

// SelectorMode decides which satisfied child a selector enters.
type SelectorMode string

const (
	SelectFirst  SelectorMode = "first"
	SelectRandom SelectorMode = "random"
)

// Node is one entry of the dialogue arena. Edges refer to other nodes by index.
type Node struct {
	GUID uuid.UUID
	// Key is the authoring identifier; GUIDs are derived from it when not given.
	Key   string
	Kind  NodeKind
	Owner string

	Text          string
	SpeakerState  string
	TextArguments []TextArgument

	EnterConditions []Condition
	EnterEvents     []Event
	// CheckChildrenOnEvaluation makes the node enterable only if one of its edges is satisfied.
	CheckChildrenOnEvaluation bool

	Edges    []Edge
	Sequence []SequenceEntry
	Selector SelectorMode
}

// Edge is a guarded transition to another node.
type Edge struct {
	TargetIndex   int
	Conditions    []Condition
	Events        []Event
	Text          string
	TextArguments []TextArgument
	SpeakerState  string
}

// SequenceEntry is one line of a sequence node.
type SequenceEntry struct {
	Speaker       string
	Text          string
	TextArguments []TextArgument
	SpeakerState  string
	// EdgeText labels the option that advances to the next entry.
	EdgeText string
}
