package ecs_test

import (
	"testing"

	"github.com/plus3/entstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	t.Run("queued operations apply on flush", func(t *testing.T) {
		store := ecs.NewStore()
		e := store.CreateEntity()
		cmds := ecs.NewCommands()

		ecs.QueueAttach(cmds, e, Velocity{DX: 5, DY: 10})
		assert.Equal(t, 1, cmds.Len())
		assert.False(t, ecs.Has[Velocity](store, e), "attach must wait for flush")

		require.NoError(t, cmds.Flush(store))
		assert.Equal(t, 0, cmds.Len())

		vel, err := ecs.Get[Velocity](store, e)
		require.NoError(t, err)
		assert.Equal(t, Velocity{DX: 5, DY: 10}, vel)

		ecs.QueueDetach[Velocity](cmds, e)
		require.NoError(t, cmds.Flush(store))
		assert.False(t, ecs.Has[Velocity](store, e))
	})

	t.Run("removal during iteration", func(t *testing.T) {
		store := ecs.NewStore()
		for i := 0; i < 4; i++ {
			e := store.CreateEntity()
			require.NoError(t, ecs.Attach(store, e, Health{Current: i % 2, Max: 1}))
		}

		cmds := ecs.NewCommands()
		for e, h := range ecs.Each[Health](store) {
			if h.Current == 0 {
				cmds.RemoveEntity(e)
			}
		}
		require.NoError(t, cmds.Flush(store))

		assert.Equal(t, []ecs.Entity{1, 3}, ecs.Entities[Health](store))
		assert.Equal(t, 2, store.EntityCount())
	})

	t.Run("removed entities skip later operations", func(t *testing.T) {
		store := ecs.NewStore()
		e := store.CreateEntity()
		require.NoError(t, ecs.Attach(store, e, Position{}))
		cmds := ecs.NewCommands()

		ecs.QueueAttach(cmds, e, Velocity{DX: 1})
		ecs.QueueDetach[Position](cmds, e)
		cmds.RemoveEntity(e)
		cmds.RemoveEntity(e)

		assert.NoError(t, cmds.Flush(store))
		assert.False(t, store.Contains(e))
		assert.Equal(t, 0, ecs.Count[Velocity](store))
	})

	t.Run("defers run after structural changes", func(t *testing.T) {
		store := ecs.NewStore()
		e := store.CreateEntity()
		cmds := ecs.NewCommands()

		var seen bool
		cmds.Defer(func() {
			seen = ecs.Has[Name](store, e)
		})
		ecs.QueueAttach(cmds, e, Name{Value: "late"})

		require.NoError(t, cmds.Flush(store))
		assert.True(t, seen)
	})

	t.Run("work queued by a deferred func waits for the next flush", func(t *testing.T) {
		store := ecs.NewStore()
		e := store.CreateEntity()
		doomed := store.CreateEntity()
		cmds := ecs.NewCommands()

		cmds.Defer(func() {
			ecs.QueueAttach(cmds, e, Score(7))
			ecs.QueueDetach[Name](cmds, e)
			cmds.RemoveEntity(doomed)
		})
		ecs.QueueAttach(cmds, e, Name{Value: "first"})

		require.NoError(t, cmds.Flush(store))
		assert.Equal(t, 3, cmds.Len())
		assert.True(t, ecs.Has[Name](store, e))
		assert.False(t, ecs.Has[Score](store, e))
		assert.True(t, store.Contains(doomed))

		require.NoError(t, cmds.Flush(store))
		assert.Zero(t, cmds.Len())
		score, err := ecs.Get[Score](store, e)
		require.NoError(t, err)
		assert.Equal(t, Score(7), score)
		assert.False(t, ecs.Has[Name](store, e))
		assert.False(t, store.Contains(doomed))
	})

	t.Run("errors are joined and do not stop the flush", func(t *testing.T) {
		store := ecs.NewStore()
		e := store.CreateEntity()
		cmds := ecs.NewCommands()

		ecs.QueueDetach[Position](cmds, e)
		ecs.QueueAttach(cmds, ecs.Entity(42), Position{})
		ecs.QueueAttach(cmds, e, Position{X: 1})

		err := cmds.Flush(store)
		assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
		assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
		assert.True(t, ecs.Has[Position](store, e))
	})
}
