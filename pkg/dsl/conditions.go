package dsl

import (
	"github.com/aretw0/parley/internal/dto"
	"github.com/aretw0/parley/pkg/domain"
)

// Cond is a condition under construction. An empty participant means the owner of the node.
type Cond struct {
	rec  dto.Condition
	hook domain.CustomCondition
}

// Int compares an integer variable: Int("Bob", "Trust", ">=", 3).
func Int(participant, variable, op string, value int) Cond {
	return Cond{rec: dto.Condition{Type: "int", Participant: participant, Variable: variable, Op: op, Value: value}}
}

func Float(participant, variable, op string, value float64) Cond {
	return Cond{rec: dto.Condition{Type: "float", Participant: participant, Variable: variable, Op: op, Value: value}}
}

// Bool holds when the variable is true. Use Not for the opposite.
func Bool(participant, variable string) Cond {
	return Cond{rec: dto.Condition{Type: "bool", Participant: participant, Variable: variable}}
}

func Name(participant, variable, value string) Cond {
	return Cond{rec: dto.Condition{Type: "name", Participant: participant, Variable: variable, Value: value}}
}

// Check asks the participant's named condition.
func Check(participant, name string) Cond {
	return Cond{rec: dto.Condition{Type: "condition", Participant: participant, Name: name}}
}

// Visited holds when node was visited by the current session.
func Visited(node string) Cond {
	return Cond{rec: dto.Condition{Type: "was_node_visited", Node: node}}
}

// VisitedEver holds when node was visited by any session of this engine.
func VisitedEver(node string) Cond {
	return Cond{rec: dto.Condition{Type: "was_node_visited", Node: node, LongTerm: true}}
}

func HasSatisfiedChild(node string) Cond {
	return Cond{rec: dto.Condition{Type: "has_satisfied_child", Node: node}}
}

func Custom(c domain.CustomCondition) Cond {
	return Cond{rec: dto.Condition{Type: "custom"}, hook: c}
}

// Not expects the check to fail instead. Numeric checks keep their operator.
func (c Cond) Not() Cond {
	f := false
	c.rec.Expected = &f
	return c
}

// Weak marks the condition as weak: a failing weak condition still shows the option.
func (c Cond) Weak() Cond {
	c.rec.Weak = true
	return c
}

// Class reads the variable from a Go field instead of the participant's accessors.
func (c Cond) Class() Cond {
	c.rec.Source = "class"
	return c
}

// Against compares with another participant's variable instead of a constant.
func (c Cond) Against(participant, variable string) Cond {
	c.rec.Compare = &dto.Comparand{Participant: participant, Variable: variable}
	return c
}

// AgainstClass is Against reading a Go field.
func (c Cond) AgainstClass(participant, variable string) Cond {
	c.rec.Compare = &dto.Comparand{Participant: participant, Variable: variable, Class: true}
	return c
}

// Ev is an event under construction.
type Ev struct {
	rec  dto.Event
	hook domain.CustomEvent
}

// Emit sends a named event to the participant.
func Emit(participant, name string) Ev {
	return Ev{rec: dto.Event{Type: "event", Participant: participant, Name: name}}
}

func SetInt(participant, variable string, value int) Ev {
	return Ev{rec: dto.Event{Type: "modify_int", Participant: participant, Variable: variable, Value: value}}
}

func AddInt(participant, variable string, delta int) Ev {
	return Ev{rec: dto.Event{Type: "modify_int", Participant: participant, Variable: variable, Value: delta, Delta: true}}
}

func SetFloat(participant, variable string, value float64) Ev {
	return Ev{rec: dto.Event{Type: "modify_float", Participant: participant, Variable: variable, Value: value}}
}

func AddFloat(participant, variable string, delta float64) Ev {
	return Ev{rec: dto.Event{Type: "modify_float", Participant: participant, Variable: variable, Value: delta, Delta: true}}
}

func SetBool(participant, variable string, value bool) Ev {
	return Ev{rec: dto.Event{Type: "modify_bool", Participant: participant, Variable: variable, Value: value}}
}

func SetName(participant, variable, value string) Ev {
	return Ev{rec: dto.Event{Type: "modify_name", Participant: participant, Variable: variable, Value: value}}
}

// Do runs a Go event handler.
func Do(e domain.CustomEvent) Ev {
	return Ev{rec: dto.Event{Type: "custom"}, hook: e}
}

// Class writes the variable to a Go field instead of the participant's mutators.
func (e Ev) Class() Ev {
	e.rec.Source = "class"
	return e
}

// Arg is a text argument under construction. display is the placeholder name without braces.
type Arg struct {
	rec  dto.Argument
	hook domain.CustomTextArgument
}

func DisplayName(display, participant string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "display_name", Participant: participant}}
}

func Gender(display, participant string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "gender", Participant: participant}}
}

func IntArg(display, participant, variable string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "dialogue_int", Participant: participant, Variable: variable}}
}

func FloatArg(display, participant, variable string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "dialogue_float", Participant: participant, Variable: variable}}
}

func ClassInt(display, participant, variable string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "class_int", Participant: participant, Variable: variable}}
}

func ClassFloat(display, participant, variable string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "class_float", Participant: participant, Variable: variable}}
}

func ClassText(display, participant, variable string) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "class_text", Participant: participant, Variable: variable}}
}

func CustomArg(display, participant string, t domain.CustomTextArgument) Arg {
	return Arg{rec: dto.Argument{Display: display, Kind: "custom", Participant: participant}, hook: t}
}
