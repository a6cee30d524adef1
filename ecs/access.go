package ecs

import "github.com/rotisserie/eris"

// RegisterComponent prepares storage for T ahead of its first attachment.
// Registration is optional; Attach registers types on demand. It is useful
// when tooling should list a type before any entity holds it.
func RegisterComponent[T any](s *Store) error {
	t := TypeOf[T]()
	if err := validateComponentType(t); err != nil {
		return err
	}
	arenaFor[T](s, t)
	s.typeIndex(t)
	return nil
}

func arenaFor[T any](s *Store, t ComponentType) *typedArena[T] {
	if a, ok := s.arenas[t]; ok {
		if typed, ok := a.(*typedArena[T]); ok {
			return typed
		}
	}
	typed := &typedArena[T]{}
	s.arenas[t] = typed
	return typed
}

// Attach stores value as the entity's component of type T. If the entity
// already holds a T, the old value is evicted and replaced by the new one.
// Either way exactly one "added" notification fires for T.
//
// Attaching to an unknown entity fails with ErrEntityNotFound and leaves the
// store untouched.
func Attach[T any](s *Store, e Entity, value T) error {
	t := TypeOf[T]()
	if err := validateComponentType(t); err != nil {
		return err
	}
	byType, ok := s.entities.Get(e)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "attach %s to entity %d", t, e)
	}

	if old, ok := byType[t]; ok {
		if err := s.evict(old); err != nil {
			return eris.Wrapf(err, "replace %s on entity %d", t, e)
		}
	}

	slot := s.allocSlot()
	index := arenaFor[T](s, t).put(value)
	s.pool[slot] = poolEntry{typ: t, index: index}
	byType[t] = slot
	s.typeIndex(t).Put(e, slot)
	s.version++

	s.hub.NotifyAdd(t, e)
	return nil
}

// Detach removes the entity's component of type T and fires a "removed"
// notification for T.
func Detach[T any](s *Store, e Entity) error {
	return s.detach(e, TypeOf[T]())
}

// Get returns a copy of the entity's component of type T.
func Get[T any](s *Store, e Entity) (T, error) {
	ptr, err := GetMut[T](s, e)
	if err != nil {
		var zero T
		return zero, err
	}
	return *ptr, nil
}

// GetMut returns a pointer to the entity's component of type T. Writes
// through the pointer are visible to every later query. The pointer must
// not be used after the component is detached or replaced.
func GetMut[T any](s *Store, e Entity) (*T, error) {
	t := TypeOf[T]()
	slot, err := s.lookupSlot(e, t)
	if err != nil {
		return nil, err
	}
	return resolve[T](s, slot, t)
}

// Has reports whether the entity exists and holds a component of type T.
func Has[T any](s *Store, e Entity) bool {
	_, err := s.lookupSlot(e, TypeOf[T]())
	return err == nil
}

// SubscribeToAdd returns a listener that receives every entity that gets a
// component of type T attached from now on.
func SubscribeToAdd[T any](s *Store) *Listener {
	return s.hub.RegisterForAdd(TypeOf[T]())
}

// SubscribeToRemove returns a listener that receives every entity that loses
// a component of type T from now on, by Detach or RemoveEntity.
func SubscribeToRemove[T any](s *Store) *Listener {
	return s.hub.RegisterForRemove(TypeOf[T]())
}

func resolve[T any](s *Store, slot Slot, t ComponentType) (*T, error) {
	entry, err := s.poolEntry(slot)
	if err != nil {
		return nil, err
	}
	if entry.typ != t {
		return nil, s.castError(slot, t)
	}
	typed, ok := s.arenas[t].(*typedArena[T])
	if !ok {
		return nil, s.castError(slot, t)
	}
	ptr := typed.at(entry.index)
	if ptr == nil {
		return nil, s.lookupError(slot)
	}
	return ptr, nil
}
