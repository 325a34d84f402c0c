package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
)

// Participant is a map-backed domain.Participant.
// Dialogue values live in per-type maps; named conditions are read from Conditions
// and named events are appended to a log. Safe for concurrent use.
type Participant struct {
	mu sync.RWMutex

	name        string
	displayName string
	gender      domain.Gender
	icons       map[string]string

	ints       map[string]int
	floats     map[string]float64
	bools      map[string]bool
	names      map[string]string
	conditions map[string]bool
	events     []string
}

// NewParticipant creates an empty participant.
func NewParticipant(name string) *Participant {
	return &Participant{
		name:       name,
		gender:     domain.GenderNeutral,
		icons:      make(map[string]string),
		ints:       make(map[string]int),
		floats:     make(map[string]float64),
		bools:      make(map[string]bool),
		names:      make(map[string]string),
		conditions: make(map[string]bool),
	}
}

// FromData creates a participant seeded with declared values.
func FromData(data domain.ParticipantData) *Participant {
	p := NewParticipant(data.Name)
	p.displayName = data.DisplayName
	if data.Gender != "" {
		p.gender = data.Gender
	}
	for k, v := range data.Ints {
		p.ints[k] = v
	}
	for k, v := range data.Floats {
		p.floats[k] = v
	}
	for k, v := range data.Bools {
		p.bools[k] = v
	}
	for k, v := range data.Names {
		p.names[k] = v
	}
	return p
}

// Data snapshots the current values.
func (p *Participant) Data() domain.ParticipantData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d := domain.ParticipantData{
		Name:        p.name,
		DisplayName: p.displayName,
		Gender:      p.gender,
		Ints:        make(map[string]int, len(p.ints)),
		Floats:      make(map[string]float64, len(p.floats)),
		Bools:       make(map[string]bool, len(p.bools)),
		Names:       make(map[string]string, len(p.names)),
	}
	for k, v := range p.ints {
		d.Ints[k] = v
	}
	for k, v := range p.floats {
		d.Floats[k] = v
	}
	for k, v := range p.bools {
		d.Bools[k] = v
	}
	for k, v := range p.names {
		d.Names[k] = v
	}
	return d
}

func (p *Participant) SetDisplayName(name string) *Participant {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.displayName = name
	return p
}

func (p *Participant) SetGender(g domain.Gender) *Participant {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gender = g
	return p
}

// SetIcon sets the icon shown for a speaker state. The empty state is the default icon.
func (p *Participant) SetIcon(speakerState, icon string) *Participant {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.icons[speakerState] = icon
	return p
}

// SetCondition sets the answer to a named condition.
func (p *Participant) SetCondition(name string, value bool) *Participant {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conditions[name] = value
	return p
}

// Events returns the named events received so far, in order.
func (p *Participant) Events() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.events...)
}

func (p *Participant) ParticipantName() string { return p.name }

func (p *Participant) DisplayName(activeSpeaker string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.displayName == "" {
		return p.name
	}
	return p.displayName
}

func (p *Participant) Gender() domain.Gender {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gender
}

func (p *Participant) Icon(activeSpeaker, speakerState string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if icon, ok := p.icons[speakerState]; ok {
		return icon
	}
	return p.icons[""]
}

func (p *Participant) CheckCondition(ctx context.Context, s domain.SessionView, name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conditions[name]
}

func (p *Participant) IntValue(name string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ints[name]
}

func (p *Participant) FloatValue(name string) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.floats[name]
}

func (p *Participant) BoolValue(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bools[name]
}

func (p *Participant) NameValue(name string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.names[name]
}

func (p *Participant) OnDialogueEvent(ctx context.Context, s domain.SessionView, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, name)
}

func (p *Participant) ModifyIntValue(name string, delta bool, value int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if delta {
		value += p.ints[name]
	}
	p.ints[name] = value
}

func (p *Participant) ModifyFloatValue(name string, delta bool, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if delta {
		value += p.floats[name]
	}
	p.floats[name] = value
}

func (p *Participant) ModifyBoolValue(name string, value bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bools[name] = value
}

func (p *Participant) ModifyNameValue(name string, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names[name] = value
}

var _ domain.Participant = (*Participant)(nil)

// Pool is a fixed ports.ParticipantPool.
type Pool struct {
	mu           sync.RWMutex
	participants []domain.Participant
}

func NewPool(participants ...domain.Participant) *Pool {
	return &Pool{participants: participants}
}

// PoolFromDialogue seeds one Participant per participant declared by the dialogue.
func PoolFromDialogue(d *domain.Dialogue) *Pool {
	var ps []domain.Participant
	for _, data := range d.Participants() {
		ps = append(ps, FromData(data))
	}
	return NewPool(ps...)
}

func (p *Pool) Add(participants ...domain.Participant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.participants = append(p.participants, participants...)
}

// Participants returns the pool ordered by name.
func (p *Pool) Participants(ctx context.Context) ([]domain.Participant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := append([]domain.Participant(nil), p.participants...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ParticipantName() < out[j].ParticipantName()
	})
	return out, nil
}
