package domain

// Event is a side effect applied to a participant when a node is entered or an edge is taken.
// Participant may be empty, in which case the node's owner is used.
type Event struct {
	Participant string
	Action      Action
}

// RequiresParticipant reports whether the action needs a bound participant.
func (e Event) RequiresParticipant() bool {
	_, custom := e.Action.(CustomAction)
	return !custom
}

// Action is the closed set of event kinds.
type Action interface {
	Kind() string
	isAction()
}

// NamedAction fires a named event on the participant.
type NamedAction struct {
	Name string
}

// ModifyInt sets or, when Delta is true, adds to an int value.
type ModifyInt struct {
	Variable string
	Source   ValueSource
	Delta    bool
	Value    int
}

// ModifyFloat sets or, when Delta is true, adds to a float value.
type ModifyFloat struct {
	Variable string
	Source   ValueSource
	Delta    bool
	Value    float64
}

// ModifyBool sets a bool value.
type ModifyBool struct {
	Variable string
	Source   ValueSource
	Value    bool
}

// ModifyName sets a name value.
type ModifyName struct {
	Variable string
	Source   ValueSource
	Value    string
}

// CustomAction delegates to a host supplied handler.
type CustomAction struct {
	Handler CustomEvent
}

func (NamedAction) Kind() string  { return "event" }
func (ModifyInt) Kind() string    { return "modify_int" }
func (ModifyFloat) Kind() string  { return "modify_float" }
func (ModifyBool) Kind() string   { return "modify_bool" }
func (ModifyName) Kind() string   { return "modify_name" }
func (CustomAction) Kind() string { return "custom" }

func (NamedAction) isAction()  {}
func (ModifyInt) isAction()    {}
func (ModifyFloat) isAction()  {}
func (ModifyBool) isAction()   {}
func (ModifyName) isAction()   {}
func (CustomAction) isAction() {}
