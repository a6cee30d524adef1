package ecs_test

import (
	"testing"

	"github.com/plus3/entstore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntity(t *testing.T) {
	store := ecs.NewStore()

	assert.Equal(t, ecs.Entity(0), store.CreateEntity())
	assert.Equal(t, ecs.Entity(1), store.CreateEntity())
	assert.Equal(t, ecs.Entity(2), store.CreateEntity())
	assert.Equal(t, 3, store.EntityCount())
	assert.True(t, store.Contains(1))
	assert.False(t, store.Contains(3))
}

func TestAttachGetRoundTrip(t *testing.T) {
	store := ecs.NewStore()
	e0 := store.CreateEntity()

	require.NoError(t, ecs.Attach(store, e0, Position{X: 1.0, Y: 2.0}))

	pos, err := ecs.Get[Position](store, e0)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 1.0, Y: 2.0}, pos)

	require.NoError(t, ecs.Detach[Position](store, e0))

	_, err = ecs.Get[Position](store, e0)
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
}

func TestAttachMultipleTypes(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()

	require.NoError(t, ecs.Attach(store, e, Position{X: 3, Y: 4}))
	require.NoError(t, ecs.Attach(store, e, Name{Value: "Test Entity"}))
	require.NoError(t, ecs.Attach(store, e, Score(32)))
	require.NoError(t, ecs.Attach(store, e, PlayerController{}))

	name, err := ecs.Get[Name](store, e)
	require.NoError(t, err)
	assert.Equal(t, "Test Entity", name.Value)

	score, err := ecs.Get[Score](store, e)
	require.NoError(t, err)
	assert.Equal(t, Score(32), score)

	assert.True(t, ecs.Has[PlayerController](store, e))
	assert.False(t, ecs.Has[Velocity](store, e))

	_, err = ecs.Get[Velocity](store, e)
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
}

func TestAttachUnknownEntity(t *testing.T) {
	store := ecs.NewStore()
	added := ecs.SubscribeToAdd[Position](store)
	before := store.CollectStats()

	err := ecs.Attach(store, ecs.Entity(123), Position{X: 1, Y: 1})
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)

	after := store.CollectStats()
	assert.Equal(t, before.SlotCount, after.SlotCount)
	assert.Equal(t, before.NextSlot, after.NextSlot)
	assert.Equal(t, 0, ecs.Count[Position](store))
	assert.Empty(t, added.Poll())
	assert.False(t, store.Contains(123))
}

func TestLookupUnknownEntity(t *testing.T) {
	store := ecs.NewStore()

	_, err := ecs.Get[Position](store, 123)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)

	_, err = ecs.GetMut[Position](store, 123)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)

	err = ecs.Detach[Position](store, 123)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
}

func TestLookupMissingComponent(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()

	_, err := ecs.Get[Position](store, e)
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)

	_, err = ecs.GetMut[Position](store, e)
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)

	err = ecs.Detach[Position](store, e)
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
}

func TestGetMut(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Position{X: 1234, Y: 4321}))

	pos, err := ecs.GetMut[Position](store, e)
	require.NoError(t, err)
	pos.X = 10

	changed, err := ecs.Get[Position](store, e)
	require.NoError(t, err)
	assert.Equal(t, float32(10), changed.X)
	assert.Equal(t, float32(4321), changed.Y)
}

func TestGetReturnsCopy(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Health{Current: 50, Max: 100}))

	h, err := ecs.Get[Health](store, e)
	require.NoError(t, err)
	h.Current = 0

	stored, err := ecs.Get[Health](store, e)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Current)
}

func TestReattachReplacesValue(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	added := ecs.SubscribeToAdd[Health](store)
	removed := ecs.SubscribeToRemove[Health](store)

	require.NoError(t, ecs.Attach(store, e, Health{Current: 10, Max: 100}))
	require.NoError(t, ecs.Attach(store, e, Health{Current: 90, Max: 100}))

	h, err := ecs.Get[Health](store, e)
	require.NoError(t, err)
	assert.Equal(t, 90, h.Current)

	stats := store.CollectStats()
	assert.Equal(t, 1, stats.SlotCount, "superseded slot must be evicted")
	require.Len(t, stats.Types, 1)
	assert.Equal(t, 1, stats.Types[0].Holders)
	assert.Equal(t, 1, stats.Types[0].Stored)

	assert.Equal(t, []ecs.Entity{e, e}, added.Poll())
	assert.Empty(t, removed.Poll())

	all, err := ecs.All[Health](store)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDetachTwice(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Velocity{DX: 1}))

	require.NoError(t, ecs.Detach[Velocity](store, e))
	assert.ErrorIs(t, ecs.Detach[Velocity](store, e), ecs.ErrComponentNotFound)
	assert.True(t, store.Contains(e), "detaching the last component keeps the entity")
}

func TestRemoveEntity(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Position{X: 1, Y: 1}))
	require.NoError(t, ecs.Attach(store, e, Health{Current: 100, Max: 100}))

	require.NoError(t, store.RemoveEntity(e))

	_, err := ecs.Get[Position](store, e)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
	_, err = ecs.GetMut[Health](store, e)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
	assert.ErrorIs(t, ecs.Attach(store, e, Velocity{}), ecs.ErrEntityNotFound)
	assert.ErrorIs(t, ecs.Detach[Position](store, e), ecs.ErrEntityNotFound)
	assert.ErrorIs(t, store.RemoveEntity(e), ecs.ErrEntityNotFound)
	_, err = store.ComponentTypes(e)
	assert.ErrorIs(t, err, ecs.ErrEntityNotFound)

	stats := store.CollectStats()
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 0, stats.SlotCount)
	assert.Equal(t, 0, ecs.Count[Position](store))
	assert.Equal(t, 0, ecs.Count[Health](store))
}

func TestHandlesAreNotReused(t *testing.T) {
	store := ecs.NewStore()
	e0 := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e0, Position{}))
	slotBefore := store.CollectStats().NextSlot

	require.NoError(t, store.RemoveEntity(e0))

	e1 := store.CreateEntity()
	assert.NotEqual(t, e0, e1)
	assert.Equal(t, ecs.Entity(1), e1)

	require.NoError(t, ecs.Attach(store, e1, Position{}))
	assert.True(t, slotBefore.Less(store.CollectStats().NextSlot))
}

func TestAllScenario(t *testing.T) {
	store := ecs.NewStore()
	e0 := store.CreateEntity()
	e1 := store.CreateEntity()
	v0 := Velocity{DX: 1, DY: 0}
	v1 := Velocity{DX: 0, DY: 1}
	require.NoError(t, ecs.Attach(store, e0, v0))
	require.NoError(t, ecs.Attach(store, e1, v1))

	all, err := ecs.All[Velocity](store)
	require.NoError(t, err)
	require.Len(t, all, 2)

	got := map[ecs.Entity]Velocity{}
	for _, entry := range all {
		got[entry.Entity] = *entry.Value
	}
	assert.Equal(t, map[ecs.Entity]Velocity{e0: v0, e1: v1}, got)
}

func TestAllExcludesDetachedAndRemoved(t *testing.T) {
	store := ecs.NewStore()
	var ids []ecs.Entity
	for i := 0; i < 5; i++ {
		e := store.CreateEntity()
		require.NoError(t, ecs.Attach(store, e, Score(i)))
		ids = append(ids, e)
	}

	require.NoError(t, ecs.Detach[Score](store, ids[1]))
	require.NoError(t, store.RemoveEntity(ids[3]))

	assert.Equal(t, []ecs.Entity{ids[0], ids[2], ids[4]}, ecs.Entities[Score](store))
	assert.Equal(t, 3, ecs.Count[Score](store))

	values, err := ecs.Values[Score](store)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, Score(0), *values[0])
	assert.Equal(t, Score(2), *values[1])
	assert.Equal(t, Score(4), *values[2])
}

func TestAllUnusedType(t *testing.T) {
	store := ecs.NewStore()

	all, err := ecs.All[Inventory](store)
	assert.NoError(t, err)
	assert.Empty(t, all)

	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Inventory{Items: []string{"sword"}}))
	require.NoError(t, ecs.Detach[Inventory](store, e))

	all, err = ecs.All[Inventory](store)
	assert.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, ecs.Entities[Inventory](store))
}

func TestAllValuesAreLive(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Health{Current: 10, Max: 10}))

	all, err := ecs.All[Health](store)
	require.NoError(t, err)
	require.Len(t, all, 1)
	all[0].Value.Current = 3

	h, err := ecs.Get[Health](store, e)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Current)
}

func TestEach(t *testing.T) {
	store := ecs.NewStore()
	for i := 0; i < 3; i++ {
		e := store.CreateEntity()
		require.NoError(t, ecs.Attach(store, e, Position{X: float32(i)}))
		require.NoError(t, ecs.Attach(store, e, Velocity{DX: 1}))
	}

	for e, pos := range ecs.Each[Position](store) {
		vel, err := ecs.Get[Velocity](store, e)
		require.NoError(t, err)
		pos.X += vel.DX
	}

	values, err := ecs.Values[Position](store)
	require.NoError(t, err)
	for i, pos := range values {
		assert.Equal(t, float32(i+1), pos.X)
	}

	count := 0
	for range ecs.Each[Position](store) {
		count++
		break
	}
	assert.Equal(t, 1, count)

	for range ecs.Each[Name](store) {
		t.Fatal("no entity holds a Name")
	}
}

func TestInvalidComponentTypes(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()

	assert.ErrorIs(t, ecs.Attach(store, e, &Position{}), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.Attach(store, e, map[string]int{}), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.Attach(store, e, func() {}), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.Attach(store, e, make(chan int)), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.Attach[any](store, e, 1), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.Attach(store, e, ecs.Entity(4)), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.Attach(store, e, ecs.Slot{}), ecs.ErrInvalidComponent)
	assert.ErrorIs(t, ecs.RegisterComponent[*Health](store), ecs.ErrInvalidComponent)

	types, err := store.ComponentTypes(e)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestComponentTypeErased(t *testing.T) {
	store := ecs.NewStore()
	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Velocity{DX: 2}))
	require.NoError(t, ecs.Attach(store, e, Health{Current: 1, Max: 2}))

	types, err := store.ComponentTypes(e)
	require.NoError(t, err)
	assert.Equal(t, []ecs.ComponentType{ecs.TypeOf[Health](), ecs.TypeOf[Velocity]()}, types)

	v, err := store.Component(e, ecs.TypeOf[Velocity]())
	require.NoError(t, err)
	vel, ok := v.(*Velocity)
	require.True(t, ok)
	vel.DY = 7

	got, err := ecs.Get[Velocity](store, e)
	require.NoError(t, err)
	assert.Equal(t, Velocity{DX: 2, DY: 7}, got)

	_, err = store.Component(e, ecs.TypeOf[Name]())
	assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
}

func TestRegisterComponent(t *testing.T) {
	store := ecs.NewStore()
	require.NoError(t, ecs.RegisterComponent[Name](store))

	stats := store.CollectStats()
	require.Len(t, stats.Types, 1)
	assert.Equal(t, ecs.TypeOf[Name](), stats.Types[0].Type)
	assert.Equal(t, 0, stats.Types[0].Holders)

	e := store.CreateEntity()
	require.NoError(t, ecs.Attach(store, e, Name{Value: "registered"}))
	n, err := ecs.Get[Name](store, e)
	require.NoError(t, err)
	assert.Equal(t, "registered", n.Value)
}

func TestVersionTracksStructuralChanges(t *testing.T) {
	store := ecs.NewStore()
	v := store.Version()

	e := store.CreateEntity()
	assert.Greater(t, store.Version(), v)
	v = store.Version()

	require.NoError(t, ecs.Attach(store, e, Tag("a")))
	assert.Greater(t, store.Version(), v)
	v = store.Version()

	_, err := ecs.GetMut[Tag](store, e)
	require.NoError(t, err)
	assert.Equal(t, v, store.Version(), "reads do not change the version")

	require.NoError(t, store.RemoveEntity(e))
	assert.Greater(t, store.Version(), v)
}

func TestEachEntity(t *testing.T) {
	store := ecs.NewStore(ecs.WithEntityCapacity(16), ecs.WithComponentCapacity(16))
	want := map[ecs.Entity]bool{}
	for i := 0; i < 10; i++ {
		want[store.CreateEntity()] = true
	}
	require.NoError(t, store.RemoveEntity(4))
	delete(want, 4)

	got := map[ecs.Entity]bool{}
	for e := range store.EachEntity() {
		got[e] = true
	}
	assert.Equal(t, want, got)
}

func TestManyComponentsAcrossBlocks(t *testing.T) {
	store := ecs.NewStore()
	const n = 200
	ids := make([]ecs.Entity, n)
	for i := range ids {
		ids[i] = store.CreateEntity()
		require.NoError(t, ecs.Attach(store, ids[i], Score(i)))
	}

	first, err := ecs.GetMut[Score](store, ids[0])
	require.NoError(t, err)

	for i := 0; i < n; i += 2 {
		require.NoError(t, ecs.Detach[Score](store, ids[i]))
	}
	for i := 0; i < n; i += 2 {
		require.NoError(t, ecs.Attach(store, ids[i], Score(-i)))
	}

	for i, e := range ids {
		s, err := ecs.Get[Score](store, e)
		require.NoError(t, err)
		if i%2 == 0 {
			assert.Equal(t, Score(-i), s)
		} else {
			assert.Equal(t, Score(i), s)
		}
	}
	assert.Equal(t, n, store.CollectStats().SlotCount)
	assert.NotNil(t, first)
}
