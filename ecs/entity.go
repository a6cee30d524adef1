package ecs

import (
	"fmt"
	"math/bits"
)

// Entity is an opaque handle for a game object. Handles are handed out in
// increasing order starting at 0 and are never reused after removal.
type Entity uint64

// Slot identifies exactly one stored component value inside a Store's value
// pool. Slots are 128 bits wide, assigned in increasing order and never reused.
type Slot struct {
	Hi uint64
	Lo uint64
}

// Next returns the slot handle that follows s.
func (s Slot) Next() Slot {
	lo, carry := bits.Add64(s.Lo, 1, 0)
	return Slot{Hi: s.Hi + carry, Lo: lo}
}

// Less reports whether s was allocated before o.
func (s Slot) Less(o Slot) bool {
	if s.Hi != o.Hi {
		return s.Hi < o.Hi
	}
	return s.Lo < o.Lo
}

func (s Slot) String() string {
	return fmt.Sprintf("%016x%016x", s.Hi, s.Lo)
}
