package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventSessionStart   EventType = "session_start"
	EventNodeEnter      EventType = "node_enter"
	EventOptionSelected EventType = "option_selected"
	EventSessionEnd     EventType = "session_end"
)

// EndReason explains why a session ended.
type EndReason string

const (
	// EndTerminal means an end node was entered.
	EndTerminal EndReason = "terminal"
	// EndFailure means a traversal error forced the session to end.
	EndFailure EndReason = "failure"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Dialogue  string    `json:"dialogue"`
}

// SessionEvent is emitted when a session starts.
type SessionEvent struct {
	EventBase
	Resumed bool `json:"resumed,omitempty"`
}

// NodeEvent is emitted when a node is entered.
type NodeEvent struct {
	EventBase
	NodeIndex int      `json:"node_index"`
	NodeKey   string   `json:"node_key"`
	NodeKind  NodeKind `json:"node_kind"`
}

// OptionEvent is emitted when an option is chosen.
type OptionEvent struct {
	EventBase
	NodeIndex   int `json:"node_index"`
	OptionIndex int `json:"option_index"`
	TargetIndex int `json:"target_index"`
}

// EndEvent is emitted once when a session ends.
type EndEvent struct {
	EventBase
	NodeIndex int       `json:"node_index"`
	Reason    EndReason `json:"reason"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnSessionStart   func(context.Context, *SessionEvent)
	OnNodeEnter      func(context.Context, *NodeEvent)
	OnOptionSelected func(context.Context, *OptionEvent)
	OnSessionEnd     func(context.Context, *EndEvent)
}
