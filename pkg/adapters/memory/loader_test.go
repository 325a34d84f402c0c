package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/parley/pkg/adapters/memory"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeting = `
name: greeting
start:
  owner: Alice
  edges:
    - to: hello
nodes:
  - key: hello
    owner: Alice
    text: Hello!
    edges:
      - to: bye
  - key: bye
    kind: end
`

func TestInMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewFromSources(map[string]string{
		"greeting":     greeting,
		"intro/hello2": `{"name":"other","start":{"edges":[{"to":"end"}]},"nodes":[{"key":"end","kind":"end","owner":"Bob"}]}`,
	})
	require.NoError(t, err)

	ports.RunDialogueLoaderContract(t, loader, map[string]string{
		"greeting":     "greeting",
		"intro/hello2": "other",
	})
}

func TestInMemoryLoader_FromDialogues(t *testing.T) {
	src, err := memory.NewFromSources(map[string]string{"g": greeting})
	require.NoError(t, err)
	d, err := src.Load(context.Background(), "g")
	require.NoError(t, err)

	loader := memory.NewLoader(d)
	ids, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting"}, ids)
}

func TestInMemoryLoader_CompileError(t *testing.T) {
	_, err := memory.NewFromSources(map[string]string{"broken": `name: broken`})
	assert.ErrorContains(t, err, "failed to compile dialogue broken")
}
