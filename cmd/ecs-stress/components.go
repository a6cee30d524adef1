package main

import (
	"math/rand/v2"

	"github.com/plus3/entstore/ecs"
)

type Position struct{ X, Y, Z float64 }
type Velocity struct{ X, Y, Z float64 }
type Health struct{ Current, Max int32 }
type Age struct{ Ticks uint64 }
type Label struct{ Text string }
type Flags struct{ Bits uint32 }
type Inventory struct{ Items []uint16 }
type Marker struct{}

// componentKind is the type-erased handle the churn and mutate systems use
// to work with one component type picked at random.
type componentKind struct {
	name   string
	attach func(s *ecs.Store, e ecs.Entity, rng *rand.Rand) error
	detach func(s *ecs.Store, e ecs.Entity) error
	has    func(s *ecs.Store, e ecs.Entity) bool
	touch  func(s *ecs.Store) int
	add    func(s *ecs.Store) *ecs.Listener
	remove func(s *ecs.Store) *ecs.Listener
}

func kindOf[T any](build func(*rand.Rand) T, mutate func(*T)) componentKind {
	return componentKind{
		name: ecs.TypeOf[T]().String(),
		attach: func(s *ecs.Store, e ecs.Entity, rng *rand.Rand) error {
			return ecs.Attach(s, e, build(rng))
		},
		detach: ecs.Detach[T],
		has:    ecs.Has[T],
		touch: func(s *ecs.Store) int {
			n := 0
			for _, v := range ecs.Each[T](s) {
				mutate(v)
				n++
			}
			return n
		},
		add:    ecs.SubscribeToAdd[T],
		remove: ecs.SubscribeToRemove[T],
	}
}

// stressKinds lists every component type the stress test exercises.
func stressKinds() []componentKind {
	return []componentKind{
		kindOf(func(r *rand.Rand) Position {
			return Position{X: r.Float64(), Y: r.Float64(), Z: r.Float64()}
		}, func(p *Position) { p.X += 0.1 }),
		kindOf(func(r *rand.Rand) Velocity {
			return Velocity{X: r.NormFloat64(), Y: r.NormFloat64()}
		}, func(v *Velocity) { v.Z = v.X * v.Y }),
		kindOf(func(r *rand.Rand) Health {
			return Health{Current: 100, Max: 100}
		}, func(h *Health) {
			if h.Current > 0 {
				h.Current--
			}
		}),
		kindOf(func(r *rand.Rand) Age { return Age{} }, func(a *Age) { a.Ticks++ }),
		kindOf(func(r *rand.Rand) Label {
			return Label{Text: "entity"}
		}, func(l *Label) {}),
		kindOf(func(r *rand.Rand) Flags {
			return Flags{Bits: r.Uint32()}
		}, func(f *Flags) { f.Bits ^= 1 }),
		kindOf(func(r *rand.Rand) Inventory {
			items := make([]uint16, r.IntN(4))
			for i := range items {
				items[i] = uint16(r.IntN(1000))
			}
			return Inventory{Items: items}
		}, func(inv *Inventory) {}),
		kindOf(func(r *rand.Rand) Marker { return Marker{} }, func(m *Marker) {}),
	}
}
