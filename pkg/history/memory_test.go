package history_test

import (
	"sync"
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/history"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Visits(t *testing.T) {
	m := history.NewMemory()
	d1, d2 := uuid.New(), uuid.New()
	g := uuid.New()

	m.SetNodeVisited(d1, 2, g)
	assert.True(t, m.IsNodeVisited(d1, 2, g))
	assert.True(t, m.IsNodeVisited(d1, 7, g), "GUIDs win over indices")
	assert.False(t, m.IsNodeVisited(d2, 2, g), "dialogues are isolated")

	h, ok := m.NodeHistory(d1)
	require.True(t, ok)
	assert.Equal(t, []int{2}, h.Indices())

	_, ok = m.NodeHistory(d2)
	assert.False(t, ok)
}

func TestMemory_ExportReplace(t *testing.T) {
	m := history.NewMemory()
	d := uuid.New()
	m.SetNodeVisited(d, 1, uuid.Nil)

	exported := m.Export()
	h := exported[d]
	h.Add(5, uuid.Nil)
	assert.False(t, m.IsNodeVisited(d, 5, uuid.Nil), "exports are copies")

	other := uuid.New()
	m.Replace(map[uuid.UUID]domain.History{other: domain.NewHistory([]int{3}, nil)})
	assert.False(t, m.IsNodeVisited(d, 1, uuid.Nil))
	assert.True(t, m.IsNodeVisited(other, 3, uuid.Nil))
	assert.Equal(t, []uuid.UUID{other}, m.Dialogues())

	m.Forget(other)
	assert.Empty(t, m.Dialogues())

	m.SetNodeVisited(d, 1, uuid.Nil)
	m.Clear()
	assert.Empty(t, m.Export())
}

func TestMemory_Concurrent(t *testing.T) {
	m := history.NewMemory()
	d := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.SetNodeVisited(d, i, uuid.Nil)
			_ = m.IsNodeVisited(d, i, uuid.Nil)
		}(i)
	}
	wg.Wait()

	h, _ := m.NodeHistory(d)
	assert.Len(t, h.Indices(), 50)
}
