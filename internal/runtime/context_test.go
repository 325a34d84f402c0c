package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/history"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trustDialogue: Start -> A; A offers B only when Bob trusts enough, and C unconditionally.
func trustDialogue(t *testing.T) *domain.Dialogue {
	return newDialogue(t, startAt(0),
		domain.Node{Key: "a", Owner: "Alice", Text: "Hello", Edges: []domain.Edge{
			edge(1, intCond("Bob", "Trust", domain.OpGreaterOrEqual, 5)),
			edge(2),
		}},
		endNode("b"),
		endNode("c"),
	)
}

func trustParticipants() map[string]domain.Participant {
	bob := memory.NewParticipant("Bob")
	bob.ModifyIntValue("Trust", false, 3)
	return bind(memory.NewParticipant("Alice"), bob)
}

func TestContext_UnsatisfiedEdgeIsHidden(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)

	c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
	require.True(t, c.Start(ctx))

	assert.Equal(t, 0, c.ActiveNodeIndex())
	assert.Equal(t, 2, c.AllOptionCount())
	require.Equal(t, 1, c.OptionCount())
	assert.Equal(t, 2, c.Options()[0].TargetIndex)
	assert.False(t, c.AllOptions()[0].Satisfied)
	assert.True(t, c.AllOptions()[1].Satisfied)

	t.Run("choosing the unsatisfied edge fails", func(t *testing.T) {
		c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
		require.True(t, c.Start(ctx))

		assert.False(t, c.ChooseOptionFromAll(ctx, 0))
		assert.True(t, c.IsEnded())
	})

	t.Run("choosing the satisfied option advances", func(t *testing.T) {
		c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
		require.True(t, c.Start(ctx))

		assert.True(t, c.ChooseOption(ctx, 0))
		assert.Equal(t, 2, c.ActiveNodeIndex())
		assert.True(t, c.IsEnded(), "c is an end node")
	})

	t.Run("choosing from all maps to the satisfied option", func(t *testing.T) {
		c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
		require.True(t, c.Start(ctx))

		assert.True(t, c.ChooseOptionFromAll(ctx, 1))
		assert.Equal(t, 2, c.ActiveNodeIndex())
	})
}

func TestContext_ChooseOptionOutOfRange(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)

	for _, index := range []int{-1, 1} {
		c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
		require.True(t, c.Start(ctx))

		assert.False(t, c.ChooseOption(ctx, index), "index %d", index)
		assert.True(t, c.IsEnded())
		assert.False(t, c.ChooseOption(ctx, 0), "an ended session refuses every choice")
	}
}

func TestContext_StartFailsWhenNoEntryIsSatisfied(t *testing.T) {
	ctx := context.Background()
	d := newDialogue(t,
		domain.Node{Owner: "Alice", Edges: []domain.Edge{edge(0, named("Alice", "ready", true))}},
		endNode("done"),
	)

	env, logs := captureEnv()
	c := runtime.NewContext(env, d, bind(memory.NewParticipant("Alice")))

	assert.False(t, c.Start(ctx))
	assert.Equal(t, runtime.NotStarted, c.State())
	assert.Equal(t, -1, c.ActiveNodeIndex())
	assert.Contains(t, logs.String(), "all possible start node conditions failed")
}

func TestContext_StartTakesFirstSatisfiedEntry(t *testing.T) {
	ctx := context.Background()
	alice := memory.NewParticipant("Alice").SetCondition("veteran", true)
	d := newDialogue(t,
		domain.Node{Owner: "Alice", Edges: []domain.Edge{
			edge(0, named("Alice", "newcomer", true)),
			{TargetIndex: 1, Conditions: []domain.Condition{named("Alice", "veteran", true)},
				Events: []domain.Event{{Action: domain.NamedAction{Name: "welcome_back"}}}},
			edge(0),
		}},
		domain.Node{Key: "intro", Owner: "Alice", Edges: []domain.Edge{edge(2)}},
		domain.Node{Key: "again", Owner: "Alice", Edges: []domain.Edge{edge(2)}},
		endNode("done"),
	)

	c := runtime.NewContext(runtime.Env{}, d, bind(alice))
	require.True(t, c.Start(ctx))
	assert.Equal(t, 1, c.ActiveNodeIndex())
	assert.Equal(t, []string{"welcome_back"}, alice.Events())
	assert.False(t, c.Start(ctx), "a session starts once")
}

func TestContext_StartDoesNotRetryLaterEntries(t *testing.T) {
	ctx := context.Background()
	d := newDialogue(t,
		domain.Node{Owner: "Alice", Edges: []domain.Edge{edge(0), edge(1)}},
		domain.Node{Key: "dead_end", Owner: "Alice", Edges: []domain.Edge{edge(2, named("Alice", "never", true))}},
		domain.Node{Key: "fine", Owner: "Alice", Edges: []domain.Edge{edge(2)}},
		endNode("done"),
	)

	env, logs := captureEnv()
	c := runtime.NewContext(env, d, bind(memory.NewParticipant("Alice")))

	assert.False(t, c.Start(ctx))
	assert.True(t, c.IsEnded())
	assert.False(t, c.WasNodeVisited(1, uuid.Nil, true), "the second entry is never tried")
	assert.Contains(t, logs.String(), "dialogue is stuck")
}

func TestContext_StuckSpeechNodeEnds(t *testing.T) {
	ctx := context.Background()
	d := newDialogue(t, startAt(0),
		domain.Node{Key: "dead_end", Owner: "Alice", Edges: []domain.Edge{edge(1, named("Alice", "never", true))}},
		endNode("done"),
	)

	env, logs := captureEnv()
	rec := &recorder{}
	env.Hooks = rec.hooks()
	c := runtime.NewContext(env, d, bind(memory.NewParticipant("Alice")))

	assert.False(t, c.Start(ctx))
	assert.True(t, c.IsEnded())
	assert.Contains(t, logs.String(), "dialogue is stuck")
	assert.Equal(t, []domain.EndReason{domain.EndFailure}, rec.reasons)
}

func TestContext_EndNode(t *testing.T) {
	ctx := context.Background()
	alice := memory.NewParticipant("Alice")
	d := newDialogue(t, startAt(0),
		domain.Node{Key: "bye", Kind: domain.NodeEnd, Owner: "Alice",
			EnterEvents: []domain.Event{{Action: domain.NamedAction{Name: "farewell"}}}},
	)

	rec := &recorder{}
	c := runtime.NewContext(runtime.Env{Hooks: rec.hooks()}, d, bind(alice))
	require.True(t, c.Start(ctx))

	assert.True(t, c.IsEnded())
	assert.Zero(t, c.OptionCount())
	assert.Equal(t, []string{"farewell"}, alice.Events())
	assert.Equal(t, []domain.EndReason{domain.EndTerminal}, rec.reasons)
}

func TestContext_Lifecycle(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	rec := &recorder{}

	c := runtime.NewContext(runtime.Env{Hooks: rec.hooks()}, d, trustParticipants())
	require.True(t, c.Start(ctx))
	require.True(t, c.ChooseOption(ctx, 0))

	assert.Equal(t, []domain.EventType{
		domain.EventSessionStart,
		domain.EventNodeEnter,
		domain.EventOptionSelected,
		domain.EventNodeEnter,
		domain.EventSessionEnd,
	}, rec.types)
	assert.Equal(t, []int{0, 2}, rec.nodes)
}

func TestContext_VisitsAreRecorded(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	env := runtime.Env{}
	c := runtime.NewContext(env, d, trustParticipants())
	require.True(t, c.Start(ctx))
	require.True(t, c.ChooseOption(ctx, 0))

	assert.True(t, c.WasNodeVisited(0, d.GUIDForIndex(0), true))
	assert.True(t, c.WasNodeVisited(2, uuid.Nil, true))
	assert.False(t, c.WasNodeVisited(1, d.GUIDForIndex(1), true))
	assert.Equal(t, []int{0, 2}, c.LocalHistory().Indices())
}

func TestContext_GlobalMemoryIsShared(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	env := runtime.Env{Memory: history.NewMemory()}

	first := runtime.NewContext(env, d, trustParticipants())
	require.True(t, first.Start(ctx))

	second := runtime.NewContext(env, d, trustParticipants())
	assert.True(t, second.WasNodeVisited(0, d.GUIDForIndex(0), false))
	assert.False(t, second.WasNodeVisited(0, d.GUIDForIndex(0), true))

	isolated := runtime.NewContext(runtime.Env{}, d, trustParticipants())
	assert.False(t, isolated.WasNodeVisited(0, d.GUIDForIndex(0), false))
}

func TestContext_Copy(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
	require.True(t, c.Start(ctx))

	cp := c.Copy()
	require.True(t, cp.ChooseOption(ctx, 0))

	assert.Equal(t, 2, cp.ActiveNodeIndex())
	assert.True(t, cp.IsEnded())
	assert.Equal(t, 0, c.ActiveNodeIndex())
	assert.False(t, c.IsEnded())
	assert.Equal(t, 1, c.OptionCount())
	assert.False(t, c.WasNodeVisited(2, uuid.Nil, true), "local history is not shared with the copy")
}

func TestContext_OptionQueries(t *testing.T) {
	ctx := context.Background()
	d := newDialogue(t, startAt(0),
		domain.Node{Key: "hub", Owner: "Alice", Edges: []domain.Edge{
			{TargetIndex: 1, Text: "Ask about {Topic}", SpeakerState: "curious",
				TextArguments: []domain.TextArgument{{DisplayString: "Topic", Kind: domain.ArgDisplayName, Participant: "Bob"}}},
			{TargetIndex: 2, Text: "Leave"},
		}},
		domain.Node{Key: "topic", Owner: "Alice", Edges: []domain.Edge{edge(0)}},
		endNode("leave"),
	)
	bob := memory.NewParticipant("Bob").SetDisplayName("the smith")
	c := runtime.NewContext(runtime.Env{}, d, bind(memory.NewParticipant("Alice"), bob))
	require.True(t, c.Start(ctx))

	assert.Equal(t, "Ask about the smith", c.OptionText(ctx, 0))
	assert.Equal(t, "Leave", c.OptionTextFromAll(ctx, 1))
	assert.Equal(t, "curious", c.OptionSpeakerState(ctx, 0))
	assert.True(t, c.IsOptionSatisfied(ctx, 1))
	assert.False(t, c.IsOptionConnectedToEndNode(ctx, 0, false))
	assert.True(t, c.IsOptionConnectedToEndNode(ctx, 1, true))
	assert.False(t, c.IsOptionConnectedToVisitedNode(ctx, 0, true, false))

	require.True(t, c.ChooseOption(ctx, 0))
	require.True(t, c.ChooseOption(ctx, 0))
	assert.True(t, c.IsOptionConnectedToVisitedNode(ctx, 0, true, false), "topic was visited")

	assert.Empty(t, c.OptionText(ctx, 9))
	assert.False(t, c.IsEnded(), "read-only queries never end the session")
}

func TestContext_ReevaluateChildren(t *testing.T) {
	ctx := context.Background()
	alice := memory.NewParticipant("Alice")
	d := newDialogue(t, startAt(0),
		domain.Node{Key: "door", Owner: "Alice", Edges: []domain.Edge{
			edge(1, named("Alice", "has_key", true)),
			edge(2),
		}},
		endNode("inside"),
		endNode("away"),
	)
	c := runtime.NewContext(runtime.Env{}, d, bind(alice))
	require.True(t, c.Start(ctx))
	require.Equal(t, 1, c.OptionCount())

	alice.SetCondition("has_key", true)
	assert.Equal(t, 1, c.OptionCount(), "options are cached until reevaluated")
	assert.True(t, c.ReevaluateChildren(ctx))
	assert.Equal(t, 2, c.OptionCount())
	assert.Equal(t, 0, c.ActiveNodeIndex())
}

func TestContext_ActiveSpeaker(t *testing.T) {
	ctx := context.Background()
	alice := memory.NewParticipant("Alice").SetDisplayName("Alice the Bold").SetIcon("", "alice.png").SetIcon("angry", "alice_angry.png")
	d := newDialogue(t, startAt(0),
		domain.Node{Key: "greet", Owner: "Alice", Text: "Hi", SpeakerState: "angry", Edges: []domain.Edge{edge(1)}},
		endNode("bye"),
	)
	c := runtime.NewContext(runtime.Env{}, d, bind(alice))
	require.True(t, c.Start(ctx))

	assert.Equal(t, "Alice", c.ActiveSpeaker())
	assert.Equal(t, "angry", c.ActiveSpeakerState())
	assert.Equal(t, "Hi", c.ActiveNodeText(ctx))
	assert.Equal(t, "Alice the Bold", c.ActiveParticipantDisplayName())
	assert.Equal(t, "alice_angry.png", c.ActiveParticipantIcon())
}

func TestContext_EnterNode(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	c := runtime.NewContext(runtime.Env{}, d, trustParticipants())

	require.True(t, c.EnterNode(ctx, 0))
	assert.Equal(t, runtime.Active, c.State())
	assert.False(t, c.EnterNode(ctx, 42))
	assert.True(t, c.IsEnded())
	assert.False(t, c.EnterNode(ctx, 0), "an ended session cannot be re-entered")
}

func TestContext_String(t *testing.T) {
	d := trustDialogue(t)
	c := runtime.NewContext(runtime.Env{}, d, trustParticipants())
	assert.Equal(t, "Dialogue = `test`, ActiveNodeIndex = -1, Participants = `Alice, Bob`", c.String())
}
