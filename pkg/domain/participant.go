package domain

import (
	"context"

	"github.com/google/uuid"
)

// Gender is the grammatical gender reported by a participant.
type Gender string

const (
	GenderNeutral   Gender = "neutral"
	GenderMasculine Gender = "masculine"
	GenderFeminine  Gender = "feminine"
)

// Participant is the capability surface a host object exposes to a dialogue session.
// Implementations are called synchronously from the traversal and must not block.
type Participant interface {
	// ParticipantName is the self-reported name used to bind the object to a dialogue.
	ParticipantName() string
	DisplayName(activeSpeaker string) string
	Gender() Gender
	Icon(activeSpeaker, speakerState string) string

	// CheckCondition answers a named boolean condition.
	CheckCondition(ctx context.Context, s SessionView, name string) bool
	IntValue(name string) int
	FloatValue(name string) float64
	BoolValue(name string) bool
	NameValue(name string) string

	// OnDialogueEvent receives a named event.
	OnDialogueEvent(ctx context.Context, s SessionView, name string)
	ModifyIntValue(name string, delta bool, value int)
	ModifyFloatValue(name string, delta bool, value float64)
	ModifyBoolValue(name string, value bool)
	ModifyNameValue(name string, value string)
}

// SessionView is the read-only face of a traversal session handed to participants and hooks.
type SessionView interface {
	DialogueGUID() uuid.UUID
	DialogueName() string
	ActiveNodeIndex() int
	Participant(name string) Participant
	WasNodeVisited(index int, guid uuid.UUID, local bool) bool
	String() string
}

// CustomCondition is a host supplied predicate.
type CustomCondition interface {
	IsConditionMet(ctx context.Context, s SessionView, p Participant) bool
}

// CustomEvent is a host supplied side effect.
type CustomEvent interface {
	EnterEvent(ctx context.Context, s SessionView, p Participant)
}

// CustomTextArgument is a host supplied text producer.
type CustomTextArgument interface {
	Text(ctx context.Context, s SessionView, p Participant, displayString string) string
}

// ConditionFunc adapts a function to CustomCondition.
type ConditionFunc func(ctx context.Context, s SessionView, p Participant) bool

func (f ConditionFunc) IsConditionMet(ctx context.Context, s SessionView, p Participant) bool {
	return f(ctx, s, p)
}

// EventFunc adapts a function to CustomEvent.
type EventFunc func(ctx context.Context, s SessionView, p Participant)

func (f EventFunc) EnterEvent(ctx context.Context, s SessionView, p Participant) {
	f(ctx, s, p)
}

// TextFunc adapts a function to CustomTextArgument.
type TextFunc func(ctx context.Context, s SessionView, p Participant, displayString string) string

func (f TextFunc) Text(ctx context.Context, s SessionView, p Participant, displayString string) string {
	return f(ctx, s, p, displayString)
}

// ParticipantData describes a participant a dialogue expects.
// Seed values are only used by hosts that fabricate participants, like the CLI.
type ParticipantData struct {
	Name        string             `json:"name" yaml:"name"`
	DisplayName string             `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Gender      Gender             `json:"gender,omitempty" yaml:"gender,omitempty"`
	Ints        map[string]int     `json:"ints,omitempty" yaml:"ints,omitempty"`
	Floats      map[string]float64 `json:"floats,omitempty" yaml:"floats,omitempty"`
	Bools       map[string]bool    `json:"bools,omitempty" yaml:"bools,omitempty"`
	Names       map[string]string  `json:"names,omitempty" yaml:"names,omitempty"`
}
