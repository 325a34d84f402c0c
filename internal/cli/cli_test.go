package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/parley/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeting = `
name: greeting
participants:
  - name: Host
  - name: Guest
    display_name: Traveler
start:
  edges:
    - to: hello
nodes:
  - key: hello
    owner: Host
    text: "Hello, {guest}!"
    arguments:
      - display: guest
        kind: display_name
        participant: Guest
    edges:
      - to: bye
        text: Goodbye.
  - key: bye
    kind: end
`

const stuck = `
name: stuck
participants:
  - name: Host
start:
  edges:
    - to: wait
nodes:
  - key: wait
    owner: Host
    text: ...
`

const toll = `
name: toll
participants:
  - name: Guard
  - name: Hero
    ints:
      Coins: 3
start:
  edges:
    - to: halt
nodes:
  - key: halt
    owner: Guard
    text: Halt!
    edges:
      - to: pass
        conditions:
          - type: custom
            participant: Hero
            hook: generous
      - to: leave
  - key: pass
    kind: end
  - key: leave
    kind: end
`

const generous = `
function conditions.generous(session, p)
	return p.int("Coins") > 1
end
`

func newOptions(t *testing.T, docs map[string]string, env map[string]string) Options {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	vars := map[string]string{
		"PARLEY_HISTORY_FILE": filepath.Join(t.TempDir(), "history.json"),
		"PARLEY_SCRIPTS":      t.TempDir(),
	}
	for k, v := range env {
		vars[k] = v
	}
	cfg, err := config.FromMap(vars)
	require.NoError(t, err)
	return Options{Dir: dir, Config: cfg}
}

func TestRunValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		opts := newOptions(t, map[string]string{"greeting.yaml": greeting}, nil)
		var out bytes.Buffer
		require.NoError(t, RunValidate(ctx, opts, &out))
		assert.Contains(t, out.String(), "1 dialogues are valid")
	})

	t.Run("stuck node", func(t *testing.T) {
		opts := newOptions(t, map[string]string{"greeting.yaml": greeting, "stuck.yaml": stuck}, nil)
		err := RunValidate(ctx, opts, io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 dialogues are invalid")
		assert.Contains(t, err.Error(), "would get stuck")
	})
}

func TestRunPlay_Headless(t *testing.T) {
	ctx := context.Background()
	opts := newOptions(t, map[string]string{"greeting.yaml": greeting}, nil)

	var out bytes.Buffer
	err := RunPlay(ctx, PlayOptions{Options: opts, Headless: true}, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Hello, Traveler!")

	_, err = os.Stat(opts.Config.HistoryFile)
	require.NoError(t, err, "history is flushed after the session")

	out.Reset()
	require.NoError(t, RunHistoryShow(ctx, opts, &out))
	assert.Contains(t, out.String(), "greeting")
	assert.Contains(t, out.String(), "nodes visited")

	out.Reset()
	require.NoError(t, RunGraph(ctx, opts, "greeting", true, &out))
	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), "visited;")

	out.Reset()
	require.NoError(t, RunHistoryClear(ctx, opts, "greeting", &out))
	assert.Contains(t, out.String(), "History of greeting cleared.")

	out.Reset()
	require.NoError(t, RunHistoryShow(ctx, opts, &out))
	assert.Equal(t, "No history recorded.\n", out.String())
}

func TestRunPlay_Interactive(t *testing.T) {
	ctx := context.Background()
	opts := newOptions(t, map[string]string{"greeting.yaml": greeting}, nil)

	var out bytes.Buffer
	err := RunPlay(ctx, PlayOptions{Options: opts}, strings.NewReader("7\n1\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1) Goodbye.")
	assert.Contains(t, out.String(), "Choose a number between 1 and 1.")
}

func TestRunPlay_PicksDialogue(t *testing.T) {
	ctx := context.Background()
	opts := newOptions(t, map[string]string{"greeting.yaml": greeting, "toll.yaml": toll}, nil)

	err := RunPlay(ctx, PlayOptions{Options: opts, Headless: true}, nil, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greeting, toll")

	err = RunPlay(ctx, PlayOptions{Options: opts, Dialogue: "greeting", Headless: true}, nil, io.Discard)
	require.NoError(t, err)
}

func TestRunPlay_LuaHooks(t *testing.T) {
	ctx := context.Background()
	opts := newOptions(t, map[string]string{"toll.yaml": toll}, nil)

	err := RunPlay(ctx, PlayOptions{Options: opts, Headless: true}, nil, io.Discard)
	require.Error(t, err, "the hook is not registered")

	require.NoError(t, os.WriteFile(filepath.Join(opts.Config.Scripts, "generous.lua"), []byte(generous), 0644))

	var out bytes.Buffer
	err = RunPlay(ctx, PlayOptions{Options: opts, Headless: true}, nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Halt!")

	out.Reset()
	require.NoError(t, RunGraph(ctx, opts, "toll", true, &out))
	assert.Contains(t, out.String(), "class n1 visited;", "the hook let the hero pass")
}

func TestRunPlay_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	opts := newOptions(t, map[string]string{"greeting.yaml": greeting}, map[string]string{
		"PARLEY_REDIS_ADDR":   mr.Addr(),
		"PARLEY_REDIS_PREFIX": "test:",
	})

	require.NoError(t, RunPlay(ctx, PlayOptions{Options: opts, Headless: true}, nil, io.Discard))
	assert.NotEmpty(t, mr.Keys())
	for _, key := range mr.Keys() {
		assert.True(t, strings.HasPrefix(key, "test:"), key)
	}

	var out bytes.Buffer
	require.NoError(t, RunHistoryClear(ctx, opts, "", &out))
	assert.Contains(t, out.String(), "History cleared.")

	out.Reset()
	require.NoError(t, RunHistoryShow(ctx, opts, &out))
	assert.Equal(t, "No history recorded.\n", out.String())
}

func TestRunServe_Shutdown(t *testing.T) {
	opts := newOptions(t, map[string]string{"greeting.yaml": greeting}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	err := RunServe(ctx, ServeOptions{Options: opts, Addr: "127.0.0.1:0"}, io.Discard)
	assert.NoError(t, err)
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(nil))
	assert.NoError(t, handleExecutionError(context.Canceled))
	assert.NoError(t, handleExecutionError(io.EOF))
	assert.Error(t, handleExecutionError(assert.AnError))
}

func TestSignalContext_Cancel(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()

	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled")
	}
	assert.Nil(t, sc.Signal())
}
