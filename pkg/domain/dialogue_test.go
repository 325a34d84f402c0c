package domain_test

import (
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *domain.Dialogue {
	t.Helper()
	start := domain.Node{Owner: "Alice", Edges: []domain.Edge{{TargetIndex: 0}}}
	nodes := []domain.Node{
		{Key: "greet", Owner: "Alice", SpeakerState: "happy", Edges: []domain.Edge{
			{TargetIndex: 1, SpeakerState: "curious", Conditions: []domain.Condition{
				{Participant: "Bob", Check: domain.IntCheck{Variable: "Trust", Op: domain.OpGreaterOrEqual, Value: 5}},
			}},
			{TargetIndex: 1},
		}},
		{Kind: domain.NodeEnd, Owner: "Alice"},
	}
	d, err := domain.NewDialogue("tavern", uuid.Nil, start, nodes, []domain.ParticipantData{
		{Name: "Alice", DisplayName: "Alice the Innkeeper"},
		{Name: "Carol"},
	})
	require.NoError(t, err)
	return d
}

func TestNewDialogue(t *testing.T) {
	d := sample(t)

	assert.Equal(t, "tavern", d.Name())
	assert.Equal(t, domain.DialogueGUID("tavern"), d.GUID())
	assert.Equal(t, 2, d.NodeCount())
	assert.Equal(t, domain.NodeStart, d.StartNode().Kind)

	second, ok := d.Node(1)
	require.True(t, ok)
	assert.Equal(t, "node_1", second.Key)
	assert.Equal(t, domain.NodeEnd, second.Kind)
	assert.True(t, d.IsEndNode(1))
	assert.False(t, d.IsEndNode(0))

	first, _ := d.Node(0)
	assert.Equal(t, domain.NodeSpeech, first.Kind, "kind defaults to speech")
	assert.Equal(t, domain.NodeGUID(d.GUID(), "greet"), first.GUID)
}

func TestDialogue_Lookups(t *testing.T) {
	d := sample(t)
	guid := d.GUIDForIndex(0)

	assert.Equal(t, 0, d.IndexForGUID(guid))
	assert.Equal(t, -1, d.IndexForGUID(uuid.New()))
	assert.Equal(t, uuid.Nil, d.GUIDForIndex(5))
	assert.Equal(t, 0, d.IndexForKey("greet"))
	assert.Equal(t, -1, d.IndexForKey("nope"))

	n, ok := d.NodeByGUID(guid)
	require.True(t, ok)
	assert.Equal(t, "greet", n.Key)

	_, ok = d.Node(-1)
	assert.False(t, ok)
	assert.False(t, d.IsValidIndex(2))
}

func TestDialogue_GUIDsAreStable(t *testing.T) {
	a, b := sample(t), sample(t)
	assert.Equal(t, a.GUIDForIndex(0), b.GUIDForIndex(0))
	assert.NotEqual(t, a.GUIDForIndex(0), a.GUIDForIndex(1))
}

func TestDialogue_Participants(t *testing.T) {
	d := sample(t)

	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, d.ParticipantNames(), "declared and referenced names, sorted")
	assert.True(t, d.HasParticipant("Bob"))
	assert.False(t, d.HasParticipant("Dave"))

	alice, ok := d.ParticipantData("Alice")
	require.True(t, ok)
	assert.Equal(t, "Alice the Innkeeper", alice.DisplayName)
}

func TestDialogue_SpeakerStates(t *testing.T) {
	assert.Equal(t, []string{"curious", "happy"}, sample(t).SpeakerStates())
}

func TestNewDialogue_Errors(t *testing.T) {
	start := domain.Node{Edges: []domain.Edge{{TargetIndex: 0}}}

	tests := []struct {
		name  string
		dname string
		start domain.Node
		nodes []domain.Node
	}{
		{"empty name", "", start, []domain.Node{{}}},
		{"start edge out of range", "d", domain.Node{Edges: []domain.Edge{{TargetIndex: 3}}}, []domain.Node{{}}},
		{"node edge out of range", "d", start, []domain.Node{{Edges: []domain.Edge{{TargetIndex: -1}}}}},
		{"duplicate key", "d", start, []domain.Node{{Key: "a"}, {Key: "a"}}},
		{"second start node", "d", start, []domain.Node{{Kind: domain.NodeStart}}},
		{"unknown kind", "d", start, []domain.Node{{Kind: domain.NodeKind("bogus")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewDialogue(tt.dname, uuid.Nil, tt.start, tt.nodes, nil)
			assert.Error(t, err)
		})
	}
}

func TestNodeKind_Valid(t *testing.T) {
	tests := []struct {
		kind domain.NodeKind
		want bool
	}{
		{domain.NodeSpeech, true},
		{domain.NodeSequence, true},
		{domain.NodeSelector, true},
		{domain.NodeEnd, true},
		{domain.NodeStart, false},
		{"", false},
		{"bogus", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Valid())
		})
	}
}

func TestParticipantUsage(t *testing.T) {
	start := domain.Node{Owner: "Alice", Edges: []domain.Edge{{TargetIndex: 0}}}
	nodes := []domain.Node{{
		Owner: "Alice",
		EnterEvents: []domain.Event{
			{Action: domain.NamedAction{Name: "greeted"}},
			{Participant: "Bob", Action: domain.ModifyInt{Variable: "Trust", Delta: true, Value: 1}},
			{Action: domain.ModifyName{Source: domain.SourceClassVariable, Variable: "Title"}},
		},
		Edges: []domain.Edge{{TargetIndex: 0, Conditions: []domain.Condition{
			{Check: domain.NamedCheck{Name: "ready"}},
			{Check: domain.FloatCheck{Variable: "Mood", Compare: domain.Comparand{Target: domain.CompareToVariable, Participant: "Bob", Variable: "Mood"}}},
			{Participant: "Bob", Check: domain.BoolCheck{Variable: "Armed"}},
		}}},
	}}
	d, err := domain.NewDialogue("usage", uuid.Nil, start, nodes, nil)
	require.NoError(t, err)

	alice := d.ParticipantUsage("Alice")
	assert.Equal(t, []string{"greeted"}, alice.Events)
	assert.Equal(t, []string{"ready"}, alice.Conditions)
	assert.Equal(t, []string{"Mood"}, alice.Floats)
	assert.Equal(t, []string{"Title"}, alice.ClassVariables)
	assert.Empty(t, alice.Ints)

	bob := d.ParticipantUsage("Bob")
	assert.Equal(t, []string{"Trust"}, bob.Ints)
	assert.Equal(t, []string{"Mood"}, bob.Floats)
	assert.Equal(t, []string{"Armed"}, bob.Bools)
	assert.Empty(t, bob.Events)
}
