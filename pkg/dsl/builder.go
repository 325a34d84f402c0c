package dsl

import (
	"fmt"

	"github.com/aretw0/parley/internal/compiler"
	"github.com/aretw0/parley/internal/dto"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
)

// Builder manages the construction of one dialogue.
type Builder struct {
	name         string
	guid         string
	participants []dto.Participant
	startOwner   string
	start        []edge
	order        []string
	nodes        map[string]*NodeBuilder
	registry     *registry.Registry
}

// New creates a builder for the dialogue called name.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// WithRegistry compiles against r, so documents and Go code can share hooks.
// Hooks passed to Custom, Do and CustomArg are registered into it.
func (b *Builder) WithRegistry(r *registry.Registry) *Builder {
	b.registry = r
	return b
}

// GUID pins the dialogue GUID instead of deriving it from the name.
func (b *Builder) GUID(guid string) *Builder {
	b.guid = guid
	return b
}

// Participant declares a participant with its default values.
func (b *Builder) Participant(p domain.ParticipantData) *Builder {
	b.participants = append(b.participants, dto.Participant{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Gender:      string(p.Gender),
		Ints:        p.Ints,
		Floats:      p.Floats,
		Bools:       p.Bools,
		Names:       p.Names,
	})
	return b
}

// Owner sets the owner of the start node, used by entry conditions that name no participant.
func (b *Builder) Owner(name string) *Builder {
	b.startOwner = name
	return b
}

// Entry adds an entry point of the dialogue.
func (b *Builder) Entry(target string, opts ...EdgeOption) *Builder {
	b.start = append(b.start, newEdge(target, opts))
	return b
}

// Add creates a new node.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(key string) *NodeBuilder {
	if nb, ok := b.nodes[key]; ok {
		return nb
	}
	nb := &NodeBuilder{key: key, kind: domain.NodeSpeech, builder: b}
	b.nodes[key] = nb
	b.order = append(b.order, key)
	return nb
}

// Document returns the authoring record of the dialogue.
// Custom hooks are registered into reg under generated names.
func (b *Builder) Document(reg *registry.Registry) dto.Document {
	h := &hooks{registry: reg, prefix: "dsl." + b.name}
	doc := dto.Document{
		Name:         b.name,
		GUID:         b.guid,
		Participants: b.participants,
		Start: dto.Start{
			Owner: b.startOwner,
			Edges: h.edges(b.start),
		},
	}
	for _, key := range b.order {
		doc.Nodes = append(doc.Nodes, b.nodes[key].record(h))
	}
	return doc
}

// Build validates and compiles the dialogue.
func (b *Builder) Build() (*domain.Dialogue, error) {
	reg := b.registry
	if reg == nil {
		reg = registry.NewRegistry()
	}
	doc := b.Document(reg)

	c := compiler.New(compiler.WithRegistry(reg))
	if err := c.Validate(&doc); err != nil {
		return nil, fmt.Errorf("invalid dialogue %q: %w", b.name, err)
	}
	d, err := c.Compile(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile dialogue %q: %w", b.name, err)
	}
	return d, nil
}

// Loader builds the dialogue and serves it from an in-memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	d, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.NewLoader(d), nil
}

// hooks registers the Go objects carried by conditions, events and arguments.
type hooks struct {
	registry *registry.Registry
	prefix   string
	n        int
}

func (h *hooks) name(kind string) string {
	h.n++
	return fmt.Sprintf("%s.%s.%d", h.prefix, kind, h.n)
}

func (h *hooks) conditions(in []Cond) []dto.Condition {
	var out []dto.Condition
	for _, c := range in {
		rec := c.rec
		if c.hook != nil {
			rec.Hook = h.name("condition")
			h.registry.RegisterCondition(rec.Hook, c.hook)
		}
		out = append(out, rec)
	}
	return out
}

func (h *hooks) events(in []Ev) []dto.Event {
	var out []dto.Event
	for _, e := range in {
		rec := e.rec
		if e.hook != nil {
			rec.Hook = h.name("event")
			h.registry.RegisterEvent(rec.Hook, e.hook)
		}
		out = append(out, rec)
	}
	return out
}

func (h *hooks) arguments(in []Arg) []dto.Argument {
	var out []dto.Argument
	for _, a := range in {
		rec := a.rec
		if a.hook != nil {
			rec.Hook = h.name("text")
			h.registry.RegisterText(rec.Hook, a.hook)
		}
		out = append(out, rec)
	}
	return out
}

func (h *hooks) edges(in []edge) []dto.Edge {
	var out []dto.Edge
	for _, e := range in {
		out = append(out, dto.Edge{
			To:           e.to,
			Text:         e.text,
			SpeakerState: e.state,
			Arguments:    h.arguments(e.args),
			Conditions:   h.conditions(e.conds),
			Events:       h.events(e.events),
		})
	}
	return out
}
