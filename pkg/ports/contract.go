package ports

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryStoreContract runs a suite of tests to verify that a HistoryStore
// implementation adheres to the defined interface contract.
func RunHistoryStoreContract(t *testing.T, store HistoryStore) {
	ctx := context.Background()
	dialogue := uuid.New()
	guidA, guidB := uuid.New(), uuid.New()

	t.Run("Save and Load", func(t *testing.T) {
		var h domain.History
		h.Add(0, guidA)
		h.Add(3, guidB)

		require.NoError(t, store.Save(ctx, dialogue, h), "Save should not return error")

		loaded, err := store.Load(ctx, dialogue)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, []int{0, 3}, loaded.Indices())
		assert.True(t, loaded.Contains(0, guidA))
		assert.True(t, loaded.Contains(3, guidB))
		assert.False(t, loaded.Contains(1, uuid.New()))
	})

	t.Run("Save Replaces", func(t *testing.T) {
		var h domain.History
		h.Add(7, uuid.Nil)
		require.NoError(t, store.Save(ctx, dialogue, h))

		loaded, err := store.Load(ctx, dialogue)
		require.NoError(t, err)
		assert.Equal(t, []int{7}, loaded.Indices())
		assert.Empty(t, loaded.GUIDs())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrHistoryNotFound)
	})

	t.Run("LoadAll", func(t *testing.T) {
		other := uuid.New()
		require.NoError(t, store.Save(ctx, other, domain.NewHistory([]int{1}, nil)))
		defer func() { _ = store.Delete(ctx, other) }()

		all, err := store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, all, dialogue)
		assert.Contains(t, all, other)
		assert.Equal(t, []int{1}, all[other].Indices())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, dialogue), "Delete should not return error")

		_, err := store.Load(ctx, dialogue)
		assert.ErrorIs(t, err, domain.ErrHistoryNotFound, "Load after Delete should return ErrHistoryNotFound")

		assert.NoError(t, store.Delete(ctx, dialogue), "Deleting twice should not fail")
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, uuid.New(), domain.NewHistory([]int{2}, nil)))
		require.NoError(t, store.Clear(ctx))

		all, err := store.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

// RunDialogueLoaderContract checks a loader that holds exactly the dialogues in
// want, keyed by ID with the expected dialogue name as value.
func RunDialogueLoaderContract(t *testing.T, loader DialogueLoader, want map[string]string) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		ids, err := loader.List(ctx)
		require.NoError(t, err, "List should not return error")

		expected := make([]string, 0, len(want))
		for id := range want {
			expected = append(expected, id)
		}
		sort.Strings(expected)
		assert.Equal(t, expected, ids, "List should return every ID, sorted")
	})

	t.Run("Load", func(t *testing.T) {
		for id, name := range want {
			d, err := loader.Load(ctx, id)
			require.NoError(t, err, "Load(%q) should not return error", id)
			assert.Equal(t, name, d.Name())
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load(ctx, "non_existent_dialogue_12345")
		assert.ErrorIs(t, err, domain.ErrDialogueNotFound)
	})
}
