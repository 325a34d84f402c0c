package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var guidNamespace = uuid.MustParse("6f1d3a44-2c7e-4d0b-9a55-8b0f1e7c2d90")

// DialogueGUID derives a stable dialogue identity from its name.
func DialogueGUID(name string) uuid.UUID {
	return uuid.NewSHA1(guidNamespace, []byte("dialogue:"+name))
}

// NodeGUID derives a stable node GUID from the dialogue identity and the node key.
func NodeGUID(dialogue uuid.UUID, key string) uuid.UUID {
	return uuid.NewSHA1(dialogue, []byte("node:"+key))
}

// Dialogue is the immutable graph shared by every session that runs it.
// Values returned by its accessors must not be mutated.
type Dialogue struct {
	guid         uuid.UUID
	name         string
	description  string
	start        Node
	nodes        []Node
	participants []ParticipantData

	guidIndex map[uuid.UUID]int
	keyIndex  map[string]int
}

// NewDialogue validates the arena and builds its lookup tables.
// Missing GUIDs are derived from the node keys (or positions), and every
// participant referenced by the graph is added to the declared set.
func NewDialogue(name string, guid uuid.UUID, start Node, nodes []Node, participants []ParticipantData) (*Dialogue, error) {
	if name == "" {
		return nil, fmt.Errorf("dialogue name cannot be empty")
	}
	if guid == uuid.Nil {
		guid = DialogueGUID(name)
	}

	d := &Dialogue{
		guid:      guid,
		name:      name,
		start:     start,
		nodes:     make([]Node, len(nodes)),
		guidIndex: make(map[uuid.UUID]int, len(nodes)),
		keyIndex:  make(map[string]int, len(nodes)),
	}
	copy(d.nodes, nodes)
	d.start.Kind = NodeStart
	if d.start.GUID == uuid.Nil {
		d.start.GUID = NodeGUID(guid, "start")
	}

	for i := range d.nodes {
		n := &d.nodes[i]
		if n.Kind == "" {
			n.Kind = NodeSpeech
		}
		if n.Kind == NodeStart {
			return nil, fmt.Errorf("node %d: only the start node can be of kind %q", i, NodeStart)
		}
		if !n.Kind.Valid() {
			return nil, fmt.Errorf("node %d: unknown kind %q", i, n.Kind)
		}
		if n.Key == "" {
			n.Key = fmt.Sprintf("node_%d", i)
		}
		if n.GUID == uuid.Nil {
			n.GUID = NodeGUID(guid, n.Key)
		}
		if prev, dup := d.guidIndex[n.GUID]; dup {
			return nil, fmt.Errorf("node %d: GUID %s already used by node %d", i, n.GUID, prev)
		}
		if prev, dup := d.keyIndex[n.Key]; dup {
			return nil, fmt.Errorf("node %d: key %q already used by node %d", i, n.Key, prev)
		}
		d.guidIndex[n.GUID] = i
		d.keyIndex[n.Key] = i
	}

	if err := d.checkEdges(&d.start, "start"); err != nil {
		return nil, err
	}
	for i := range d.nodes {
		if err := d.checkEdges(&d.nodes[i], d.nodes[i].Key); err != nil {
			return nil, err
		}
	}

	d.participants = mergeParticipants(participants, d.referencedParticipants())
	return d, nil
}

func (d *Dialogue) checkEdges(n *Node, label string) error {
	for j, e := range n.Edges {
		if !d.IsValidIndex(e.TargetIndex) {
			return fmt.Errorf("node %q edge %d: target index %d out of range [0, %d)", label, j, e.TargetIndex, len(d.nodes))
		}
	}
	return nil
}

// GUID is the dialogue identity used to key global visitation memory.
func (d *Dialogue) GUID() uuid.UUID { return d.guid }

func (d *Dialogue) Name() string { return d.name }

func (d *Dialogue) StartNode() *Node { return &d.start }

// Nodes returns the node arena in index order.
func (d *Dialogue) Nodes() []Node { return d.nodes }

func (d *Dialogue) NodeCount() int { return len(d.nodes) }

func (d *Dialogue) IsValidIndex(index int) bool {
	return index >= 0 && index < len(d.nodes)
}

// Node returns the node at index, or false when the index is out of range.
func (d *Dialogue) Node(index int) (*Node, bool) {
	if !d.IsValidIndex(index) {
		return nil, false
	}
	return &d.nodes[index], true
}

func (d *Dialogue) NodeByGUID(guid uuid.UUID) (*Node, bool) {
	idx, ok := d.guidIndex[guid]
	if !ok {
		return nil, false
	}
	return &d.nodes[idx], true
}

// IndexForGUID returns -1 when the GUID is unknown.
func (d *Dialogue) IndexForGUID(guid uuid.UUID) int {
	if idx, ok := d.guidIndex[guid]; ok {
		return idx
	}
	return -1
}

// GUIDForIndex returns uuid.Nil when the index is out of range.
func (d *Dialogue) GUIDForIndex(index int) uuid.UUID {
	if !d.IsValidIndex(index) {
		return uuid.Nil
	}
	return d.nodes[index].GUID
}

// IndexForKey returns -1 when no node has the key.
func (d *Dialogue) IndexForKey(key string) int {
	if idx, ok := d.keyIndex[key]; ok {
		return idx
	}
	return -1
}

func (d *Dialogue) IsEndNode(index int) bool {
	n, ok := d.Node(index)
	return ok && n.Kind == NodeEnd
}

// Participants returns the declared participant set, sorted by name.
func (d *Dialogue) Participants() []ParticipantData { return d.participants }

func (d *Dialogue) ParticipantNames() []string {
	names := make([]string, len(d.participants))
	for i, p := range d.participants {
		names[i] = p.Name
	}
	return names
}

func (d *Dialogue) HasParticipant(name string) bool {
	_, ok := d.ParticipantData(name)
	return ok
}

func (d *Dialogue) ParticipantData(name string) (ParticipantData, bool) {
	i := sort.Search(len(d.participants), func(i int) bool { return d.participants[i].Name >= name })
	if i < len(d.participants) && d.participants[i].Name == name {
		return d.participants[i], true
	}
	return ParticipantData{}, false
}

// SpeakerStates lists every speaker state used by nodes, entries and edges.
func (d *Dialogue) SpeakerStates() []string {
	set := make(map[string]struct{})
	add := func(s string) {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	d.eachNode(func(n *Node) {
		add(n.SpeakerState)
		for _, e := range n.Edges {
			add(e.SpeakerState)
		}
		for _, s := range n.Sequence {
			add(s.SpeakerState)
		}
	})
	return sortedKeys(set)
}

func (d *Dialogue) eachNode(fn func(*Node)) {
	fn(&d.start)
	for i := range d.nodes {
		fn(&d.nodes[i])
	}
}

func (d *Dialogue) referencedParticipants() []string {
	set := make(map[string]struct{})
	add := func(s string) {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	addConditions := func(cs []Condition) {
		for _, c := range cs {
			add(c.Participant)
			if cmp, ok := comparandOf(c.Check); ok && cmp.Target != CompareToConst {
				add(cmp.Participant)
			}
		}
	}
	addEvents := func(es []Event) {
		for _, e := range es {
			add(e.Participant)
		}
	}
	addArgs := func(as []TextArgument) {
		for _, a := range as {
			add(a.Participant)
		}
	}
	d.eachNode(func(n *Node) {
		add(n.Owner)
		addConditions(n.EnterConditions)
		addEvents(n.EnterEvents)
		addArgs(n.TextArguments)
		for _, e := range n.Edges {
			addConditions(e.Conditions)
			addEvents(e.Events)
			addArgs(e.TextArguments)
		}
		for _, s := range n.Sequence {
			add(s.Speaker)
			addArgs(s.TextArguments)
		}
	})
	return sortedKeys(set)
}

func comparandOf(c Check) (Comparand, bool) {
	switch v := c.(type) {
	case IntCheck:
		return v.Compare, true
	case FloatCheck:
		return v.Compare, true
	case BoolCheck:
		return v.Compare, true
	case NameCheck:
		return v.Compare, true
	}
	return Comparand{}, false
}

func mergeParticipants(declared []ParticipantData, referenced []string) []ParticipantData {
	byName := make(map[string]ParticipantData, len(declared)+len(referenced))
	for _, p := range declared {
		if p.Name != "" {
			byName[p.Name] = p
		}
	}
	for _, name := range referenced {
		if _, ok := byName[name]; !ok {
			byName[name] = ParticipantData{Name: name}
		}
	}
	out := make([]ParticipantData, 0, len(byName))
	for _, p := range byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Description is free text for tooling. It plays no part in traversal.
func (d *Dialogue) Description() string { return d.description }

// WithDescription returns a copy of the dialogue carrying desc.
func (d *Dialogue) WithDescription(desc string) *Dialogue {
	cp := *d
	cp.description = desc
	return &cp
}
