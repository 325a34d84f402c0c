package lua_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/parley/internal/compiler"
	"github.com/aretw0/parley/internal/runtime"
	"github.com/aretw0/parley/pkg/adapters/lua"
	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hooks = `
function conditions.rich(session, p)
	return p.int("Gold") >= 100
end

function events.pay(session, p)
	p.add_int("Gold", -60)
	p.emit("paid")
end

function texts.title(session, p, display)
	return p.display_name() .. " of " .. session.dialogue
end

function conditions.broken(session, p)
	error("boom")
end
`

const shop = `
name: shop
participants:
  - name: Merchant
  - name: Hero
    display_name: Hero
start:
  owner: Merchant
  edges:
    - to: offer
nodes:
  - key: offer
    owner: Merchant
    text: "Welcome, {who}."
    arguments:
      - display: who
        kind: custom
        participant: Hero
        hook: title
    edges:
      - to: sold
        text: Buy the sword.
        conditions:
          - type: custom
            participant: Hero
            hook: rich
        events:
          - type: custom
            participant: Hero
            hook: pay
      - to: bye
        text: Leave.
  - key: sold
    kind: end
  - key: bye
    kind: end
`

func TestScript_Names(t *testing.T) {
	s, err := lua.Load("hooks", hooks)
	require.NoError(t, err)

	conditions, events, texts := s.Names()
	assert.Equal(t, []string{"broken", "rich"}, conditions)
	assert.Equal(t, []string{"pay"}, events)
	assert.Equal(t, []string{"title"}, texts)
}

func TestScript_Hooks(t *testing.T) {
	ctx := context.Background()
	s, err := lua.Load("hooks", hooks)
	require.NoError(t, err)

	reg := registry.NewRegistry()
	assert.Equal(t, 4, s.Register(reg))

	d, err := compiler.New(compiler.WithRegistry(reg)).CompileBytes([]byte(shop))
	require.NoError(t, err)

	hero := memory.NewParticipant("Hero").SetDisplayName("Hero")
	hero.ModifyIntValue("Gold", false, 150)
	bound := map[string]domain.Participant{
		"Merchant": memory.NewParticipant("Merchant"),
		"Hero":     hero,
	}

	c := runtime.NewContext(runtime.Env{}, d, bound)
	require.True(t, c.Start(ctx))
	assert.Equal(t, "Welcome, Hero of shop.", c.ActiveNodeText(ctx))
	require.Equal(t, 2, c.OptionCount(), "a rich hero can buy")

	require.True(t, c.ChooseOption(ctx, 0))
	assert.True(t, c.IsEnded())
	assert.Equal(t, 90, hero.IntValue("Gold"))
	assert.Equal(t, []string{"paid"}, hero.Events())

	poor := runtime.NewContext(runtime.Env{}, d, bound)
	require.True(t, poor.Start(ctx))
	assert.Equal(t, 1, poor.OptionCount(), "90 gold is not enough")
}

func TestScript_RuntimeErrorFailsClosed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s, err := lua.Load("hooks", hooks, lua.WithLogger(logger))
	require.NoError(t, err)

	reg := registry.NewRegistry()
	s.Register(reg)
	broken, err := reg.Condition("broken")
	require.NoError(t, err)

	assert.False(t, broken.IsConditionMet(context.Background(), nil, memory.NewParticipant("Hero")))
	assert.Contains(t, buf.String(), "lua hook failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := lua.Load("bad", "function conditions.x(")
	assert.ErrorContains(t, err, `load lua script "bad"`)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(hooks), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`function events.wave(s, p) end`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	reg := registry.NewRegistry()
	n, err := lua.LoadDir(dir, reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = reg.Event("wave")
	assert.NoError(t, err)
}
