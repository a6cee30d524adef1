package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentType is the runtime tag stored alongside every value in the pool.
type ComponentType = reflect.Type

var (
	entityType = reflect.TypeFor[Entity]()
	slotType   = reflect.TypeFor[Slot]()
)

// TypeOf returns the component type tag for T.
func TypeOf[T any]() ComponentType {
	return reflect.TypeFor[T]()
}

// validateComponentType rejects types that cannot be stored by value.
// Components can be structs or primitives (int, string, etc.), but not
// pointers, maps, channels, functions, interfaces or store handles.
func validateComponentType(t ComponentType) error {
	if t == nil {
		return eris.Wrap(ErrInvalidComponent, "nil type")
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return eris.Wrapf(ErrInvalidComponent, "%s: components must be value types", t)
	}
	if t == entityType || t == slotType {
		return eris.Wrapf(ErrInvalidComponent, "%s: store handles cannot be components", t)
	}
	return nil
}

const blockSize = 64

// arena is the type-erased view of a typedArena used by the store when the
// concrete component type is not known statically.
type arena interface {
	free(index int)
	value(index int) any
	live() int
}

type block[T any] struct {
	values [blockSize]T
	filled [blockSize]bool
}

// typedArena owns the component values of one type. Values live in fixed
// size blocks that are never moved, so pointers handed out by GetMut stay
// valid until the component is detached.
type typedArena[T any] struct {
	blocks    []*block[T]
	freeCells []int
	nextIndex int
	count     int
}

func (a *typedArena[T]) put(item T) int {
	var index int
	if n := len(a.freeCells); n > 0 {
		index = a.freeCells[n-1]
		a.freeCells = a.freeCells[:n-1]
	} else {
		index = a.nextIndex
		a.nextIndex++
		if index/blockSize >= len(a.blocks) {
			a.blocks = append(a.blocks, &block[T]{})
		}
	}

	b := a.blocks[index/blockSize]
	b.values[index%blockSize] = item
	b.filled[index%blockSize] = true
	a.count++
	return index
}

func (a *typedArena[T]) at(index int) *T {
	if index < 0 || index >= a.nextIndex {
		return nil
	}
	b := a.blocks[index/blockSize]
	if !b.filled[index%blockSize] {
		return nil
	}
	return &b.values[index%blockSize]
}

func (a *typedArena[T]) value(index int) any {
	if ptr := a.at(index); ptr != nil {
		return ptr
	}
	return nil
}

func (a *typedArena[T]) free(index int) {
	if index < 0 || index >= a.nextIndex {
		return
	}
	b := a.blocks[index/blockSize]
	if !b.filled[index%blockSize] {
		return
	}
	var zero T
	b.values[index%blockSize] = zero
	b.filled[index%blockSize] = false
	a.freeCells = append(a.freeCells, index)
	a.count--
}

func (a *typedArena[T]) live() int {
	return a.count
}
