package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when an entity handle is not present in the store.
	ErrEntityNotFound = eris.New("entity not found")
	// ErrComponentNotFound is returned when an entity has no component of the requested type.
	ErrComponentNotFound = eris.New("component not found")
	// ErrComponentCast means a slot's stored type disagrees with the requested
	// type. It indicates a broken store invariant, not a caller mistake.
	ErrComponentCast = eris.New("component type does not match stored value")
	// ErrComponentLookupNotFound means an index referenced a slot that has no
	// value pool entry. Like ErrComponentCast it indicates a broken invariant.
	ErrComponentLookupNotFound = eris.New("slot missing from value pool")
	// ErrInvalidComponent is returned when a value cannot be stored as a component.
	ErrInvalidComponent = eris.New("invalid component type")
)
