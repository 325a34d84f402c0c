package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParticipants(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	alice, bob := memory.NewParticipant("Alice"), memory.NewParticipant("Bob")

	t.Run("valid", func(t *testing.T) {
		assert.True(t, runtime.ValidateParticipants(ctx, logging.NewNop(), d, bind(alice, bob)))
	})

	t.Run("name mismatch", func(t *testing.T) {
		env, logs := captureEnv()
		binding := map[string]domain.Participant{"Alice": memory.NewParticipant("NotAlice"), "Bob": bob}

		assert.False(t, runtime.ValidateParticipants(ctx, env.Logger, d, binding))
		assert.Contains(t, logs.String(), "participant name mismatch")
	})

	t.Run("missing participant", func(t *testing.T) {
		env, logs := captureEnv()
		assert.False(t, runtime.ValidateParticipants(ctx, env.Logger, d, bind(alice)))
		assert.Contains(t, logs.String(), "missing=Bob")
	})

	t.Run("nil entry", func(t *testing.T) {
		binding := map[string]domain.Participant{"Alice": alice, "Bob": nil}
		assert.False(t, runtime.ValidateParticipants(ctx, logging.NewNop(), d, binding))
	})

	t.Run("extra participant only warns", func(t *testing.T) {
		env, logs := captureEnv()
		assert.True(t, runtime.ValidateParticipants(ctx, env.Logger, d, bind(alice, bob, memory.NewParticipant("Carol"))))
		assert.Contains(t, logs.String(), "level=WARN")
	})

	t.Run("nil dialogue", func(t *testing.T) {
		assert.False(t, runtime.ValidateParticipants(ctx, logging.NewNop(), nil, bind(alice)))
	})
}

func TestParticipantsFromList(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	alice, bob := memory.NewParticipant("Alice"), memory.NewParticipant("Bob")

	got, ok := runtime.ParticipantsFromList(ctx, logging.NewNop(), d, []domain.Participant{alice, bob, memory.NewParticipant("Alice")})
	require.True(t, ok)
	assert.Len(t, got, 2)
	assert.Same(t, alice, got["Alice"], "the first object with a name wins")

	_, ok = runtime.ParticipantsFromList(ctx, logging.NewNop(), d, nil)
	assert.False(t, ok)

	_, ok = runtime.ParticipantsFromList(ctx, logging.NewNop(), d, []domain.Participant{alice, nil})
	assert.False(t, ok)
}

func TestParticipantsFromPool(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	alice, bob := memory.NewParticipant("Alice"), memory.NewParticipant("Bob")

	got, ok := runtime.ParticipantsFromPool(ctx, logging.NewNop(), d, []domain.Participant{memory.NewParticipant("Carol"), alice, bob, alice})
	require.True(t, ok)
	assert.Equal(t, bind(alice, bob), got)

	_, ok = runtime.ParticipantsFromPool(ctx, logging.NewNop(), d, []domain.Participant{alice, bob, memory.NewParticipant("Bob")})
	assert.False(t, ok, "two objects claim the same name")

	_, ok = runtime.ParticipantsFromPool(ctx, logging.NewNop(), d, []domain.Participant{alice})
	assert.False(t, ok)
}

func TestCanStart(t *testing.T) {
	ctx := context.Background()
	d := trustDialogue(t)
	env := runtime.Env{}

	assert.True(t, runtime.CanStart(ctx, env, d, trustParticipants()))
	assert.False(t, runtime.CanStart(ctx, env, d, bind(memory.NewParticipant("Alice"))))

	gated := newDialogue(t,
		domain.Node{Owner: "Alice", Edges: []domain.Edge{edge(0, named("Alice", "ready", true))}},
		endNode("done"),
	)
	assert.False(t, runtime.CanStart(ctx, env, gated, bind(memory.NewParticipant("Alice"))))
	assert.True(t, runtime.CanStart(ctx, env, gated, bind(memory.NewParticipant("Alice").SetCondition("ready", true))))
}
