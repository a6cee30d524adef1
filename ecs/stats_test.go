package ecs_test

import (
	"testing"

	"github.com/plus3/entstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	store := ecs.NewStore()

	stats := store.CollectStats()
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 0, stats.SlotCount)
	assert.Empty(t, stats.Types)

	for i := 0; i < 3; i++ {
		e := store.CreateEntity()
		require.NoError(t, ecs.Attach(store, e, Position{X: float32(i)}))
		if i > 0 {
			require.NoError(t, ecs.Attach(store, e, Velocity{DX: 1}))
		}
	}
	listener := ecs.SubscribeToAdd[Velocity](store)
	defer listener.Close()
	removed := ecs.SubscribeToRemove[Velocity](store)
	defer removed.Close()

	stats = store.CollectStats()
	assert.Equal(t, 3, stats.EntityCount)
	assert.Equal(t, 5, stats.SlotCount)
	assert.Equal(t, ecs.Entity(3), stats.NextEntity)
	assert.Equal(t, ecs.Slot{Lo: 5}, stats.NextSlot)

	require.Len(t, stats.Types, 2)
	assert.Equal(t, "ecs_test.Position", stats.Types[0].Name)
	assert.Equal(t, 3, stats.Types[0].Holders)
	assert.Equal(t, 3, stats.Types[0].Stored)
	assert.Equal(t, 0, stats.Types[0].AddListeners)

	assert.Equal(t, "ecs_test.Velocity", stats.Types[1].Name)
	assert.Equal(t, 2, stats.Types[1].Holders)
	assert.Equal(t, 2, stats.Types[1].Stored)
	assert.Equal(t, 1, stats.Types[1].AddListeners)
	assert.Equal(t, 1, stats.Types[1].RemoveListeners)

	require.NoError(t, store.RemoveEntity(1))
	stats = store.CollectStats()
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 3, stats.SlotCount)
	assert.Equal(t, 1, stats.Types[1].Holders)
}

func TestCollectStatsListsSubscribedTypes(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Position{}))

	added := ecs.SubscribeToAdd[Score](store)
	defer added.Close()
	removed := ecs.SubscribeToRemove[Tag](store)

	stats := store.CollectStats()
	require.Len(t, stats.Types, 3)
	assert.Equal(t, "ecs_test.Position", stats.Types[0].Name)

	assert.Equal(t, "ecs_test.Score", stats.Types[1].Name)
	assert.Equal(t, ecs.TypeOf[Score](), stats.Types[1].Type)
	assert.Zero(t, stats.Types[1].Holders)
	assert.Equal(t, 1, stats.Types[1].AddListeners)
	assert.Zero(t, stats.Types[1].RemoveListeners)

	assert.Equal(t, "ecs_test.Tag", stats.Types[2].Name)
	assert.Equal(t, 1, stats.Types[2].RemoveListeners)

	removed.Close()
	stats = store.CollectStats()
	require.Len(t, stats.Types, 2)
	assert.Equal(t, "ecs_test.Score", stats.Types[1].Name)
}
