package ecs

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ X, Y int }
type counter int
type label string

// checkInvariants verifies that the entity index, the type index and the
// value pool describe the same set of components.
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()

	referenced := make(map[Slot]bool)
	s.entities.ForEach(func(e Entity, byType map[ComponentType]Slot) bool {
		for typ, slot := range byType {
			index := s.types[typ]
			require.NotNil(t, index, "type %s missing from type index", typ)
			got, ok := index.Get(e)
			require.True(t, ok, "entity %d missing from %s index", e, typ)
			assert.Equal(t, slot, got)

			entry, ok := s.pool[slot]
			require.True(t, ok, "slot %s missing from pool", slot)
			assert.Equal(t, typ, entry.typ)
			assert.False(t, referenced[slot], "slot %s referenced twice", slot)
			referenced[slot] = true
			assert.True(t, slot.Less(s.nextSlot))
		}
		assert.Less(t, e, s.nextEntity)
		return true
	})

	for typ, index := range s.types {
		index.ForEach(func(e Entity, slot Slot) bool {
			byType, ok := s.entities.Get(e)
			require.True(t, ok, "type index holds removed entity %d", e)
			assert.Equal(t, slot, byType[typ])
			return true
		})
	}

	assert.Len(t, s.pool, len(referenced), "pool holds unreferenced slots")

	live := 0
	for _, a := range s.arenas {
		live += a.live()
	}
	assert.Equal(t, len(s.pool), live)
}

func TestInvariantsUnderRandomOperations(t *testing.T) {
	s := NewStore()
	rng := rand.New(rand.NewPCG(1, 2))
	var entities []Entity

	for step := 0; step < 2000; step++ {
		if len(entities) == 0 || rng.IntN(10) == 0 {
			entities = append(entities, s.CreateEntity())
		}
		i := rng.IntN(len(entities))
		e := entities[i]

		switch rng.IntN(7) {
		case 0:
			_ = Attach(s, e, point{X: step, Y: -step})
		case 1:
			_ = Attach(s, e, counter(step))
		case 2:
			_ = Attach(s, e, label("x"))
		case 3:
			_ = Detach[point](s, e)
		case 4:
			_ = Detach[counter](s, e)
		case 5:
			if rng.IntN(4) == 0 {
				require.NoError(t, s.RemoveEntity(e))
				entities = append(entities[:i], entities[i+1:]...)
			}
		case 6:
			_, _ = All[point](s)
		}

		if step%100 == 0 {
			checkInvariants(t, s)
		}
	}
	checkInvariants(t, s)
}

func TestSlotsIncreaseAcrossOperations(t *testing.T) {
	s := NewStore()
	e := s.CreateEntity()

	var last Slot
	for i := 0; i < 10; i++ {
		require.NoError(t, Attach(s, e, counter(i)))
		byType, _ := s.entities.Get(e)
		current := byType[TypeOf[counter]()]
		if i > 0 {
			assert.True(t, last.Less(current))
		}
		last = current
	}
	checkInvariants(t, s)
}

func TestMissingPoolEntry(t *testing.T) {
	s := NewStore()
	e := s.CreateEntity()
	require.NoError(t, Attach(s, e, point{X: 1}))

	byType, _ := s.entities.Get(e)
	delete(s.pool, byType[TypeOf[point]()])

	_, err := Get[point](s, e)
	assert.ErrorIs(t, err, ErrComponentLookupNotFound)

	_, err = All[point](s)
	assert.ErrorIs(t, err, ErrComponentLookupNotFound)

	_, err = s.Component(e, TypeOf[point]())
	assert.ErrorIs(t, err, ErrComponentLookupNotFound)

	assert.ErrorIs(t, s.RemoveEntity(e), ErrComponentLookupNotFound)
	assert.False(t, s.Contains(e))
}

func TestMismatchedPoolEntry(t *testing.T) {
	s := NewStore()
	e := s.CreateEntity()
	require.NoError(t, Attach(s, e, point{X: 1}))
	require.NoError(t, Attach(s, e, counter(3)))

	byType, _ := s.entities.Get(e)
	slot := byType[TypeOf[point]()]
	entry := s.pool[slot]
	entry.typ = TypeOf[counter]()
	s.pool[slot] = entry

	_, err := GetMut[point](s, e)
	assert.ErrorIs(t, err, ErrComponentCast)

	_, err = Values[point](s)
	assert.ErrorIs(t, err, ErrComponentCast)

	_, err = s.Component(e, TypeOf[point]())
	assert.ErrorIs(t, err, ErrComponentCast)

	c, err := Get[counter](s, e)
	require.NoError(t, err)
	assert.Equal(t, counter(3), c)
}

func TestSlotCarry(t *testing.T) {
	s := NewStore()
	s.nextSlot = Slot{Hi: 0, Lo: ^uint64(0)}
	e := s.CreateEntity()

	require.NoError(t, Attach(s, e, label("a")))
	require.NoError(t, Attach(s, e, label("b")))

	assert.Equal(t, Slot{Hi: 1, Lo: 1}, s.nextSlot)
	byType, _ := s.entities.Get(e)
	assert.Equal(t, Slot{Hi: 1, Lo: 0}, byType[TypeOf[label]()])

	got, err := Get[label](s, e)
	require.NoError(t, err)
	assert.Equal(t, label("b"), got)
	checkInvariants(t, s)
}

func TestArenaReusesFreedCells(t *testing.T) {
	a := &typedArena[counter]{}
	first := a.put(1)
	second := a.put(2)
	a.free(first)
	a.free(first)
	assert.Equal(t, 1, a.live())
	assert.Nil(t, a.at(first))

	third := a.put(3)
	assert.Equal(t, first, third)
	assert.Equal(t, counter(3), *a.at(third))
	assert.Equal(t, counter(2), *a.at(second))
	assert.Nil(t, a.at(-1))
	assert.Nil(t, a.at(100))
	assert.Nil(t, a.value(100))
}
