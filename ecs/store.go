package ecs

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	defaultEntityCapacity    = 5
	defaultComponentCapacity = 5
)

type poolEntry struct {
	typ   ComponentType
	index int
}

// Store owns every component value together with the two indices that
// locate them: entity -> type -> slot and type -> entity -> slot. All three
// are updated together inside each operation.
//
// A Store is not safe for concurrent use.
type Store struct {
	entities *intmap.Map[Entity, map[ComponentType]Slot]
	types    map[ComponentType]*intmap.Map[Entity, Slot]
	pool     map[Slot]poolEntry
	arenas   map[ComponentType]arena
	hub      *Hub

	nextEntity Entity
	nextSlot   Slot
	version    uint64

	entityCapacity    int
	componentCapacity int
	log               zerolog.Logger
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entityCapacity:    defaultEntityCapacity,
		componentCapacity: defaultComponentCapacity,
		log:               zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.entities = intmap.New[Entity, map[ComponentType]Slot](s.entityCapacity)
	s.types = make(map[ComponentType]*intmap.Map[Entity, Slot], s.componentCapacity)
	s.pool = make(map[Slot]poolEntry, s.componentCapacity)
	s.arenas = make(map[ComponentType]arena, s.componentCapacity)
	s.hub = NewHub()
	return s
}

// Hub returns the notification hub that receives this store's add and
// remove events.
func (s *Store) Hub() *Hub {
	return s.hub
}

// CreateEntity allocates the next entity handle with no components.
func (s *Store) CreateEntity() Entity {
	id := s.nextEntity
	s.nextEntity++

	s.entities.Put(id, make(map[ComponentType]Slot))
	s.version++
	s.log.Debug().Uint64("entity", uint64(id)).Msg("entity created")
	return id
}

// RemoveEntity detaches every component the entity holds, firing one removal
// notification per component type, and then forgets the handle.
func (s *Store) RemoveEntity(e Entity) error {
	byType, ok := s.entities.Get(e)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "remove entity %d", e)
	}
	s.entities.Del(e)

	var errs []error
	for _, t := range sortedTypes(byType) {
		slot := byType[t]
		if index := s.types[t]; index != nil {
			index.Del(e)
		}
		if err := s.evict(slot); err != nil {
			errs = append(errs, eris.Wrapf(err, "remove entity %d", e))
		}
		s.hub.NotifyRemove(t, e)
	}

	s.version++
	s.log.Debug().Uint64("entity", uint64(e)).Int("components", len(byType)).Msg("entity removed")
	return errors.Join(errs...)
}

// Contains reports whether the entity exists.
func (s *Store) Contains(e Entity) bool {
	return s.entities.Has(e)
}

// EntityCount returns the number of live entities.
func (s *Store) EntityCount() int {
	return s.entities.Len()
}

// Version increases on every structural change (entity created or removed,
// component attached or detached). Caches keyed on it can tell when to rebuild.
func (s *Store) Version() uint64 {
	return s.version
}

// EachEntity iterates over all live entities in unspecified order.
// The store must not be structurally modified during iteration.
func (s *Store) EachEntity() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		s.entities.ForEach(func(e Entity, _ map[ComponentType]Slot) bool {
			return yield(e)
		})
	}
}

// ComponentTypes returns the types attached to an entity, sorted by name.
func (s *Store) ComponentTypes(e Entity) ([]ComponentType, error) {
	byType, ok := s.entities.Get(e)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "component types of entity %d", e)
	}
	return sortedTypes(byType), nil
}

// Component returns a pointer to the entity's component of type t, boxed as
// any. It is the type-erased counterpart of GetMut for tooling that only has
// a reflect.Type at hand.
func (s *Store) Component(e Entity, t ComponentType) (any, error) {
	slot, err := s.lookupSlot(e, t)
	if err != nil {
		return nil, err
	}
	entry, err := s.poolEntry(slot)
	if err != nil {
		return nil, err
	}
	if entry.typ != t {
		return nil, s.castError(slot, t)
	}
	a, ok := s.arenas[t]
	if !ok {
		return nil, s.castError(slot, t)
	}
	v := a.value(entry.index)
	if v == nil {
		return nil, s.lookupError(slot)
	}
	return v, nil
}

func (s *Store) lookupSlot(e Entity, t ComponentType) (Slot, error) {
	byType, ok := s.entities.Get(e)
	if !ok {
		return Slot{}, eris.Wrapf(ErrEntityNotFound, "entity %d", e)
	}
	slot, ok := byType[t]
	if !ok {
		return Slot{}, eris.Wrapf(ErrComponentNotFound, "%s on entity %d", t, e)
	}
	return slot, nil
}

func (s *Store) poolEntry(slot Slot) (poolEntry, error) {
	entry, ok := s.pool[slot]
	if !ok {
		return poolEntry{}, s.lookupError(slot)
	}
	return entry, nil
}

func (s *Store) allocSlot() Slot {
	slot := s.nextSlot
	s.nextSlot = s.nextSlot.Next()
	return slot
}

// evict frees a slot's value and deletes it from the pool. The caller is
// responsible for the two indices.
func (s *Store) evict(slot Slot) error {
	entry, ok := s.pool[slot]
	if !ok {
		return s.lookupError(slot)
	}
	delete(s.pool, slot)
	if a, ok := s.arenas[entry.typ]; ok {
		a.free(entry.index)
	}
	return nil
}

func (s *Store) detach(e Entity, t ComponentType) error {
	byType, ok := s.entities.Get(e)
	if !ok {
		return eris.Wrapf(ErrEntityNotFound, "detach %s from entity %d", t, e)
	}
	slot, ok := byType[t]
	if !ok {
		return eris.Wrapf(ErrComponentNotFound, "detach %s from entity %d", t, e)
	}

	delete(byType, t)
	if index := s.types[t]; index != nil {
		index.Del(e)
	}
	err := s.evict(slot)
	s.version++
	s.hub.NotifyRemove(t, e)
	return err
}

func (s *Store) typeIndex(t ComponentType) *intmap.Map[Entity, Slot] {
	index, ok := s.types[t]
	if !ok {
		index = intmap.New[Entity, Slot](s.componentCapacity)
		s.types[t] = index
	}
	return index
}

func (s *Store) lookupError(slot Slot) error {
	s.log.Error().Str("slot", slot.String()).Msg("index references a slot missing from the value pool")
	return eris.Wrapf(ErrComponentLookupNotFound, "slot %s", slot)
}

func (s *Store) castError(slot Slot, want ComponentType) error {
	s.log.Error().Str("slot", slot.String()).Stringer("want", want).Msg("slot holds a value of another type")
	return eris.Wrapf(ErrComponentCast, "slot %s is not %s", slot, want)
}

func sortedTypes(byType map[ComponentType]Slot) []ComponentType {
	types := make([]ComponentType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b ComponentType) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}
