package domain

// Usage lists the names a dialogue reads from or writes to one participant.
type Usage struct {
	Ints           []string `json:"ints,omitempty"`
	Floats         []string `json:"floats,omitempty"`
	Bools          []string `json:"bools,omitempty"`
	Names          []string `json:"names,omitempty"`
	Conditions     []string `json:"conditions,omitempty"`
	Events         []string `json:"events,omitempty"`
	ClassVariables []string `json:"class_variables,omitempty"`
}

type usageSets struct {
	ints, floats, bools, names, conditions, events, class map[string]struct{}
}

// ParticipantUsage collects the variables, conditions and events the dialogue uses on participant.
// Unnamed conditions and events are attributed to the owner of the node carrying them.
func (d *Dialogue) ParticipantUsage(participant string) Usage {
	u := usageSets{
		ints: map[string]struct{}{}, floats: map[string]struct{}{}, bools: map[string]struct{}{},
		names: map[string]struct{}{}, conditions: map[string]struct{}{}, events: map[string]struct{}{},
		class: map[string]struct{}{},
	}

	d.eachNode(func(n *Node) {
		owner := n.Owner
		for _, c := range n.EnterConditions {
			u.addCondition(c, owner, participant)
		}
		for _, e := range n.EnterEvents {
			u.addEvent(e, owner, participant)
		}
		for _, edge := range n.Edges {
			for _, c := range edge.Conditions {
				u.addCondition(c, owner, participant)
			}
			for _, e := range edge.Events {
				u.addEvent(e, owner, participant)
			}
		}
	})

	return Usage{
		Ints:           sortedKeys(u.ints),
		Floats:         sortedKeys(u.floats),
		Bools:          sortedKeys(u.bools),
		Names:          sortedKeys(u.names),
		Conditions:     sortedKeys(u.conditions),
		Events:         sortedKeys(u.events),
		ClassVariables: sortedKeys(u.class),
	}
}

func (u usageSets) value(source ValueSource, set map[string]struct{}, name string) {
	if name == "" {
		return
	}
	if source == SourceClassVariable {
		u.class[name] = struct{}{}
		return
	}
	set[name] = struct{}{}
}

func (u usageSets) comparand(cmp Comparand, set map[string]struct{}, participant string) {
	if cmp.Participant != participant || cmp.Variable == "" {
		return
	}
	switch cmp.Target {
	case CompareToVariable:
		set[cmp.Variable] = struct{}{}
	case CompareToClassVariable:
		u.class[cmp.Variable] = struct{}{}
	}
}

func (u usageSets) addCondition(c Condition, owner, participant string) {
	name := c.Participant
	if name == "" {
		name = owner
	}
	mine := name == participant
	switch v := c.Check.(type) {
	case IntCheck:
		if mine {
			u.value(v.Source, u.ints, v.Variable)
		}
		u.comparand(v.Compare, u.ints, participant)
	case FloatCheck:
		if mine {
			u.value(v.Source, u.floats, v.Variable)
		}
		u.comparand(v.Compare, u.floats, participant)
	case BoolCheck:
		if mine {
			u.value(v.Source, u.bools, v.Variable)
		}
		u.comparand(v.Compare, u.bools, participant)
	case NameCheck:
		if mine {
			u.value(v.Source, u.names, v.Variable)
		}
		u.comparand(v.Compare, u.names, participant)
	case NamedCheck:
		if mine && v.Name != "" {
			u.conditions[v.Name] = struct{}{}
		}
	}
}

func (u usageSets) addEvent(e Event, owner, participant string) {
	name := e.Participant
	if name == "" {
		name = owner
	}
	if name != participant {
		return
	}
	switch v := e.Action.(type) {
	case NamedAction:
		if v.Name != "" {
			u.events[v.Name] = struct{}{}
		}
	case ModifyInt:
		u.value(v.Source, u.ints, v.Variable)
	case ModifyFloat:
		u.value(v.Source, u.floats, v.Variable)
	case ModifyBool:
		u.value(v.Source, u.bools, v.Variable)
	case ModifyName:
		u.value(v.Source, u.names, v.Variable)
	}
}
