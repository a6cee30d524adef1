package main

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/plus3/entstore/ecs"
)

// AsteroidGenerator spawns one asteroid every Interval seconds while fewer
// than MaxAsteroids exist.
type AsteroidGenerator struct {
	Interval     float32
	MaxAsteroids int
	// Lifetime in seconds given to new asteroids. Zero means they live forever.
	Lifetime float32
	Rand     *rand.Rand

	elapsed float32
	spawned int
}

func (g *AsteroidGenerator) Initialize(store *ecs.Store) error {
	if g.Rand == nil {
		g.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.Interval <= 0 {
		g.Interval = 0.5
	}
	return nil
}

func (g *AsteroidGenerator) Update(dt float64, store *ecs.Store) error {
	g.elapsed += float32(dt)
	for g.elapsed >= g.Interval {
		g.elapsed -= g.Interval
		if g.MaxAsteroids > 0 && ecs.Count[Voxels](store) >= g.MaxAsteroids {
			continue
		}
		if _, err := g.Spawn(store); err != nil {
			return err
		}
	}
	return nil
}

// Spawn creates a single random asteroid.
func (g *AsteroidGenerator) Spawn(store *ecs.Store) (ecs.Entity, error) {
	rng := g.Rand
	between := func(lo, hi float32) float32 {
		return lo + rng.Float32()*(hi-lo)
	}

	width := 10 + rng.IntN(20)
	height := 10 + rng.IntN(20)
	shape := GenerateAsteroid(rng, width, height)

	e := store.CreateEntity()
	err := errors.Join(
		ecs.Attach(store, e, Physics{
			Position:        Vec2{X: between(-1, 1), Y: between(-1, 1)},
			Velocity:        Vec2{X: between(-0.25, 0.25), Y: between(-0.25, 0.25)},
			Mass:            between(0.1, 1),
			AngularVelocity: between(-1, 1),
		}),
		ecs.Attach(store, e, shape),
		ecs.Attach(store, e, Collider{Radius: float32(max(width, height)) * shape.Size / 2}),
		ecs.Attach(store, e, Collisions{}),
	)
	if err == nil && g.Lifetime > 0 {
		err = ecs.Attach(store, e, Lifetime{Remaining: g.Lifetime})
	}
	if err != nil {
		return e, err
	}

	g.spawned++
	return e, nil
}

// Spawned returns the number of asteroids created so far.
func (g *AsteroidGenerator) Spawned() int {
	return g.spawned
}

// PhysicsSystem steps every body.
type PhysicsSystem struct{}

func (s *PhysicsSystem) Initialize(store *ecs.Store) error {
	return nil
}

func (s *PhysicsSystem) Update(dt float64, store *ecs.Store) error {
	for _, body := range ecs.Each[Physics](store) {
		body.Step(float32(dt))
	}
	return nil
}

// CollisionSystem resolves overlapping colliders with an elastic bounce.
// The resulting change in velocity is left in Physics.Momentum for the next
// physics step.
type CollisionSystem struct {
	total int
}

type collisionBody struct {
	entity   ecs.Entity
	radius   float32
	physics  *Physics
	momentum Vec2
}

func (s *CollisionSystem) Initialize(store *ecs.Store) error {
	return nil
}

func (s *CollisionSystem) Update(dt float64, store *ecs.Store) error {
	colliders, err := ecs.All[Collider](store)
	if err != nil {
		return err
	}

	bodies := make([]collisionBody, 0, len(colliders))
	for _, c := range colliders {
		p, err := ecs.GetMut[Physics](store, c.Entity)
		if errors.Is(err, ecs.ErrComponentNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		bodies = append(bodies, collisionBody{entity: c.Entity, radius: c.Value.Radius, physics: p})
	}

	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := &bodies[i], &bodies[j]
			da, db, ok := bounce(a.physics, b.physics, a.radius+b.radius)
			if !ok {
				continue
			}
			a.momentum = a.momentum.Add(da)
			b.momentum = b.momentum.Add(db)
			s.total++
			s.count(store, a.entity)
			s.count(store, b.entity)
		}
	}

	for _, body := range bodies {
		body.physics.Momentum = body.physics.Momentum.Add(body.momentum)
	}
	return nil
}

func (s *CollisionSystem) count(store *ecs.Store, e ecs.Entity) {
	if c, err := ecs.GetMut[Collisions](store, e); err == nil {
		c.Count++
	}
}

// Total returns the number of collisions resolved so far.
func (s *CollisionSystem) Total() int {
	return s.total
}

// bounce returns the velocity changes of an elastic collision between a and
// b, or false if they do not touch or are already moving apart.
func bounce(a, b *Physics, reach float32) (Vec2, Vec2, bool) {
	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	if dist >= reach || dist == 0 {
		return Vec2{}, Vec2{}, false
	}

	normal := delta.Scale(1 / dist)
	closing := a.Velocity.Sub(b.Velocity).Dot(normal)
	if closing <= 0 {
		return Vec2{}, Vec2{}, false
	}

	ma, mb := massOf(a), massOf(b)
	impulse := 2 * closing / (ma + mb)
	return normal.Scale(-impulse * mb), normal.Scale(impulse * ma), true
}

func massOf(p *Physics) float32 {
	if p.Mass <= 0 || math.IsNaN(float64(p.Mass)) {
		return 1
	}
	return p.Mass
}

// LifetimeSystem counts down Lifetime components and removes expired
// entities once the countdown pass is finished.
type LifetimeSystem struct {
	commands *ecs.Commands
	expired  int
}

func (s *LifetimeSystem) Initialize(store *ecs.Store) error {
	s.commands = ecs.NewCommands()
	return nil
}

func (s *LifetimeSystem) Update(dt float64, store *ecs.Store) error {
	for e, life := range ecs.Each[Lifetime](store) {
		life.Remaining -= float32(dt)
		if life.Remaining <= 0 {
			s.commands.RemoveEntity(e)
			s.expired++
		}
	}
	return s.commands.Flush(store)
}

// Expired returns the number of entities removed so far.
func (s *LifetimeSystem) Expired() int {
	return s.expired
}
