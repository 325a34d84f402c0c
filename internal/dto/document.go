// Package dto holds the authoring records of a dialogue document.
//
// Records carry "mapstructure" tags so that any map source (YAML, JSON, loam
// frontmatter) decodes into them, and "validate" tags checked by the compiler.
// Nodes refer to each other by key; the compiler turns keys into indices.
package dto

// Document is one dialogue.
type Document struct {
	Name         string        `json:"name" mapstructure:"name" validate:"required"`
	GUID         string        `json:"guid,omitempty" mapstructure:"guid" validate:"omitempty,uuid"`
	Description  string        `json:"description,omitempty" mapstructure:"description"`
	Participants []Participant `json:"participants,omitempty" mapstructure:"participants" validate:"dive"`
	Start        Start         `json:"start" mapstructure:"start"`
	Nodes        []Node        `json:"nodes" mapstructure:"nodes" validate:"required,min=1,dive"`
}

type Participant struct {
	Name        string             `json:"name" mapstructure:"name" validate:"required"`
	DisplayName string             `json:"display_name,omitempty" mapstructure:"display_name"`
	Gender      string             `json:"gender,omitempty" mapstructure:"gender" validate:"omitempty,oneof=neutral masculine feminine"`
	Ints        map[string]int     `json:"ints,omitempty" mapstructure:"ints"`
	Floats      map[string]float64 `json:"floats,omitempty" mapstructure:"floats"`
	Bools       map[string]bool    `json:"bools,omitempty" mapstructure:"bools"`
	Names       map[string]string  `json:"names,omitempty" mapstructure:"names"`
}

// Start lists the entry points of the dialogue.
type Start struct {
	Owner string `json:"owner,omitempty" mapstructure:"owner"`
	Edges []Edge `json:"edges" mapstructure:"edges" validate:"required,min=1,dive"`
}

type Node struct {
	Key          string `json:"key" mapstructure:"key" validate:"required"`
	GUID         string `json:"guid,omitempty" mapstructure:"guid" validate:"omitempty,uuid"`
	Kind         string `json:"kind,omitempty" mapstructure:"kind" validate:"omitempty,oneof=speech sequence selector end"`
	Owner        string `json:"owner,omitempty" mapstructure:"owner"`
	Text         string `json:"text,omitempty" mapstructure:"text"`
	SpeakerState string `json:"speaker_state,omitempty" mapstructure:"speaker_state"`

	Arguments       []Argument  `json:"arguments,omitempty" mapstructure:"arguments" validate:"dive"`
	EnterConditions []Condition `json:"enter_conditions,omitempty" mapstructure:"enter_conditions" validate:"dive"`
	EnterEvents     []Event     `json:"enter_events,omitempty" mapstructure:"enter_events" validate:"dive"`
	CheckChildren   bool        `json:"check_children,omitempty" mapstructure:"check_children"`

	Selector string          `json:"selector,omitempty" mapstructure:"selector" validate:"omitempty,oneof=first random"`
	Sequence []SequenceEntry `json:"sequence,omitempty" mapstructure:"sequence" validate:"dive"`
	Edges    []Edge          `json:"edges,omitempty" mapstructure:"edges" validate:"dive"`
}

type Edge struct {
	To           string      `json:"to" mapstructure:"to" validate:"required"`
	Text         string      `json:"text,omitempty" mapstructure:"text"`
	SpeakerState string      `json:"speaker_state,omitempty" mapstructure:"speaker_state"`
	Arguments    []Argument  `json:"arguments,omitempty" mapstructure:"arguments" validate:"dive"`
	Conditions   []Condition `json:"conditions,omitempty" mapstructure:"conditions" validate:"dive"`
	Events       []Event     `json:"events,omitempty" mapstructure:"events" validate:"dive"`
}

type SequenceEntry struct {
	Speaker      string     `json:"speaker,omitempty" mapstructure:"speaker"`
	Text         string     `json:"text" mapstructure:"text"`
	SpeakerState string     `json:"speaker_state,omitempty" mapstructure:"speaker_state"`
	EdgeText     string     `json:"edge_text,omitempty" mapstructure:"edge_text"`
	Arguments    []Argument `json:"arguments,omitempty" mapstructure:"arguments" validate:"dive"`
}

// Condition is the flat form of every condition kind; Type selects which fields apply.
type Condition struct {
	Type        string `json:"type" mapstructure:"type" validate:"required,oneof=int float bool name condition was_node_visited has_satisfied_child custom"`
	Participant string `json:"participant,omitempty" mapstructure:"participant"`
	Weak        bool   `json:"weak,omitempty" mapstructure:"weak"`

	Variable string     `json:"variable,omitempty" mapstructure:"variable"`
	Source   string     `json:"source,omitempty" mapstructure:"source" validate:"omitempty,oneof=capability class"`
	Op       string     `json:"op,omitempty" mapstructure:"op"`
	Value    any        `json:"value,omitempty" mapstructure:"value"`
	Compare  *Comparand `json:"compare,omitempty" mapstructure:"compare"`
	// Expected defaults to true.
	Expected *bool `json:"expected,omitempty" mapstructure:"expected"`

	Name     string `json:"name,omitempty" mapstructure:"name"`
	Node     string `json:"node,omitempty" mapstructure:"node"`
	LongTerm bool   `json:"long_term,omitempty" mapstructure:"long_term"`
	Hook     string `json:"hook,omitempty" mapstructure:"hook"`
}

// Comparand compares against another participant's variable instead of Value.
type Comparand struct {
	Participant string `json:"participant" mapstructure:"participant" validate:"required"`
	Variable    string `json:"variable" mapstructure:"variable" validate:"required"`
	Class       bool   `json:"class,omitempty" mapstructure:"class"`
}

type Event struct {
	Type        string `json:"type" mapstructure:"type" validate:"required,oneof=event modify_int modify_float modify_bool modify_name custom"`
	Participant string `json:"participant,omitempty" mapstructure:"participant"`
	Name        string `json:"name,omitempty" mapstructure:"name"`
	Variable    string `json:"variable,omitempty" mapstructure:"variable"`
	Source      string `json:"source,omitempty" mapstructure:"source" validate:"omitempty,oneof=capability class"`
	Delta       bool   `json:"delta,omitempty" mapstructure:"delta"`
	Value       any    `json:"value,omitempty" mapstructure:"value"`
	Hook        string `json:"hook,omitempty" mapstructure:"hook"`
}

type Argument struct {
	Display     string `json:"display" mapstructure:"display" validate:"required"`
	Kind        string `json:"kind" mapstructure:"kind" validate:"required,oneof=display_name gender dialogue_int dialogue_float class_int class_float class_text custom"`
	Participant string `json:"participant,omitempty" mapstructure:"participant"`
	Variable    string `json:"variable,omitempty" mapstructure:"variable"`
	Hook        string `json:"hook,omitempty" mapstructure:"hook"`
}
