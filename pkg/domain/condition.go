package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Strength decides how a Condition takes part in an array evaluation.
type Strength int

const (
	// Strong conditions must all hold.
	Strong Strength = iota
	// Weak conditions need at least one member to hold, when any are present.
	Weak
)

func (s Strength) String() string {
	if s == Weak {
		return "weak"
	}
	return "strong"
}

// Operation is the relational operator of numeric checks.
type Operation int

const (
	OpEqual Operation = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

var operationSymbols = map[Operation]string{
	OpEqual:          "==",
	OpNotEqual:       "!=",
	OpLess:           "<",
	OpLessOrEqual:    "<=",
	OpGreater:        ">",
	OpGreaterOrEqual: ">=",
}

func (o Operation) String() string {
	if s, ok := operationSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// ParseOperation accepts either the symbol ("<=") or a word form ("lte").
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "==", "=", "eq", "equal", "":
		return OpEqual, nil
	case "!=", "ne", "not_equal":
		return OpNotEqual, nil
	case "<", "lt", "less":
		return OpLess, nil
	case "<=", "lte", "less_or_equal":
		return OpLessOrEqual, nil
	case ">", "gt", "greater":
		return OpGreater, nil
	case ">=", "gte", "greater_or_equal":
		return OpGreaterOrEqual, nil
	}
	return OpEqual, fmt.Errorf("unknown operation %q", s)
}

// ValueSource selects where a named value lives on a participant.
type ValueSource int

const (
	// SourceCapability reads and writes through the Participant methods.
	SourceCapability ValueSource = iota
	// SourceClassVariable reads and writes struct fields through a VariableAccessor.
	SourceClassVariable
)

// CompareTarget selects what a value is compared against.
type CompareTarget int

const (
	CompareToConst CompareTarget = iota
	// CompareToVariable reads the other participant's value through its capability surface.
	CompareToVariable
	// CompareToClassVariable reads the other participant's value through the VariableAccessor.
	CompareToClassVariable
)

// Comparand names the right-hand side of a comparison when it is not a constant.
type Comparand struct {
	Target      CompareTarget
	Participant string
	Variable    string
}

// Condition is one member of a condition array.
// Participant may be empty, in which case the evaluating node's owner is used.
type Condition struct {
	Participant string
	Strength    Strength
	Check       Check
}

// AsWeak returns a copy of the condition marked Weak.
func (c Condition) AsWeak() Condition {
	c.Strength = Weak
	return c
}

// RequiresParticipant reports whether evaluation needs a bound participant.
func (c Condition) RequiresParticipant() bool {
	switch c.Check.(type) {
	case NodeVisitedCheck, SatisfiedChildCheck, CustomCheck:
		return false
	}
	return true
}

// Check is the closed set of condition kinds.
type Check interface {
	Kind() string
	isCheck()
}

// IntCheck compares an int value of the participant.
type IntCheck struct {
	Variable string
	Source   ValueSource
	Op       Operation
	Value    int
	Compare  Comparand
}

// FloatCheck compares a float value of the participant. Equality is epsilon tolerant.
type FloatCheck struct {
	Variable string
	Source   ValueSource
	Op       Operation
	Value    float64
	Compare  Comparand
}

// BoolCheck holds when the value (or its equality with the comparand) equals Expected.
type BoolCheck struct {
	Variable string
	Source   ValueSource
	Expected bool
	Compare  Comparand
}

// NameCheck holds when the equality of the value with Value (or the comparand) equals Expected.
type NameCheck struct {
	Variable string
	Source   ValueSource
	Value    string
	Expected bool
	Compare  Comparand
}

// NamedCheck asks the participant for a named boolean condition.
type NamedCheck struct {
	Name     string
	Expected bool
}

// NodeVisitedCheck tests visitation memory. LongTerm selects the global memory.
type NodeVisitedCheck struct {
	NodeIndex int
	NodeGUID  uuid.UUID
	LongTerm  bool
	Expected  bool
}

// SatisfiedChildCheck holds when the target node has at least one satisfied edge.
type SatisfiedChildCheck struct {
	NodeIndex int
	NodeGUID  uuid.UUID
	Expected  bool
}

// CustomCheck delegates to a host supplied predicate.
type CustomCheck struct {
	Predicate CustomCondition
}

func (IntCheck) Kind() string            { return "int" }
func (FloatCheck) Kind() string          { return "float" }
func (BoolCheck) Kind() string           { return "bool" }
func (NameCheck) Kind() string           { return "name" }
func (NamedCheck) Kind() string          { return "condition" }
func (NodeVisitedCheck) Kind() string    { return "was_node_visited" }
func (SatisfiedChildCheck) Kind() string { return "has_satisfied_child" }
func (CustomCheck) Kind() string         { return "custom" }

func (IntCheck) isCheck()            {}
func (FloatCheck) isCheck()          {}
func (BoolCheck) isCheck()           {}
func (NameCheck) isCheck()           {}
func (NamedCheck) isCheck()          {}
func (NodeVisitedCheck) isCheck()    {}
func (SatisfiedChildCheck) isCheck() {}
func (CustomCheck) isCheck()         {}
