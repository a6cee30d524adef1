package main

import (
	"image/color"
	"math"
)

// Vec2 is a position or velocity in world units. The visible world spans
// [-1, 1] on both axes.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float32 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Physics moves an entity. Momentum is an impulse that is folded into the
// velocity on the next step and then cleared.
type Physics struct {
	Position        Vec2
	Velocity        Vec2
	Momentum        Vec2
	Mass            float32
	Rotation        float32
	AngularVelocity float32
}

// Step advances the body by dt seconds. Bodies leaving the world reappear
// on the opposite edge.
func (p *Physics) Step(dt float32) {
	if p.Momentum != (Vec2{}) {
		p.Velocity = p.Velocity.Add(p.Momentum)
		p.Momentum = Vec2{}
	}

	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Position.X = wrap(p.Position.X)
	p.Position.Y = wrap(p.Position.Y)
	p.Rotation = float32(math.Mod(float64(p.Rotation+p.AngularVelocity*dt), 2*math.Pi))
}

func wrap(v float32) float32 {
	switch {
	case v > 1:
		return v - 2
	case v < -1:
		return v + 2
	}
	return v
}

// Collider marks an entity as solid. Radius is in world units.
type Collider struct {
	Radius float32
}

// Voxels is the asteroid's shape: a Width x Height grid of filled cells,
// each Size world units across, centered on the entity's position.
type Voxels struct {
	Width  int
	Height int
	Size   float32
	Filled []bool
	Color  color.RGBA
}

// At reports whether the cell at (x, y) is filled.
func (v Voxels) At(x, y int) bool {
	if x < 0 || y < 0 || x >= v.Width || y >= v.Height {
		return false
	}
	return v.Filled[x+y*v.Width]
}

// FilledCount returns the number of filled cells.
func (v Voxels) FilledCount() int {
	n := 0
	for _, filled := range v.Filled {
		if filled {
			n++
		}
	}
	return n
}

// Lifetime removes the entity once Remaining reaches zero.
type Lifetime struct {
	Remaining float32
}

// Collisions counts the collisions an entity has taken part in.
type Collisions struct {
	Count int
}
