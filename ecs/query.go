package ecs

import (
	"cmp"
	"iter"
	"slices"
)

// Entry pairs an entity with its component of type T.
type Entry[T any] struct {
	Entity Entity
	Value  *T
}

// All returns one entry per entity that currently holds a component of type
// T, ordered by entity handle. A type that was never attached, or that no
// entity holds any more, yields an empty result rather than an error. An
// error is only returned when the indices disagree with the value pool.
func All[T any](s *Store) ([]Entry[T], error) {
	t := TypeOf[T]()
	index := s.types[t]
	if index == nil || index.Len() == 0 {
		return nil, nil
	}

	entries := make([]Entry[T], 0, index.Len())
	var err error
	index.ForEach(func(e Entity, slot Slot) bool {
		var ptr *T
		ptr, err = resolve[T](s, slot, t)
		if err != nil {
			return false
		}
		entries = append(entries, Entry[T]{Entity: e, Value: ptr})
		return true
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b Entry[T]) int {
		return cmp.Compare(a.Entity, b.Entity)
	})
	return entries, nil
}

// Values returns the components of type T without their entities, in the
// same order as All.
func Values[T any](s *Store) ([]*T, error) {
	entries, err := All[T](s)
	if err != nil {
		return nil, err
	}
	values := make([]*T, len(entries))
	for i, entry := range entries {
		values[i] = entry.Value
	}
	return values, nil
}

// Entities returns every entity holding a component of type T, sorted.
func Entities[T any](s *Store) []Entity {
	index := s.types[TypeOf[T]()]
	if index == nil {
		return nil
	}
	entities := make([]Entity, 0, index.Len())
	index.ForEach(func(e Entity, _ Slot) bool {
		entities = append(entities, e)
		return true
	})
	slices.Sort(entities)
	return entities
}

// Count returns how many entities hold a component of type T.
func Count[T any](s *Store) int {
	index := s.types[TypeOf[T]()]
	if index == nil {
		return 0
	}
	return index.Len()
}

// Each iterates over the entities holding T in unspecified order without
// building a slice. Iteration stops early if a slot cannot be resolved; use
// All to observe that error. Components may be modified through the yielded
// pointer, but the store must not be structurally modified until iteration
// ends. Queue such changes on a Commands buffer instead.
func Each[T any](s *Store) iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		t := TypeOf[T]()
		index := s.types[t]
		if index == nil {
			return
		}
		index.ForEach(func(e Entity, slot Slot) bool {
			ptr, err := resolve[T](s, slot, t)
			if err != nil {
				return false
			}
			return yield(e, ptr)
		})
	}
}
