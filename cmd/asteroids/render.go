package main

import (
	"errors"
	"fmt"
	"image/color"
	"maps"
	"math"
	"slices"

	"github.com/plus3/entstore/ecs"
	"github.com/plus3/entstore/render"
)

var hudColor = color.RGBA{255, 255, 255, 255}

// asteroidMesh is the precomputed draw list for one asteroid: the centers
// of its filled voxels relative to the asteroid's center.
type asteroidMesh struct {
	cells []Vec2
	size  float32
	color color.RGBA
}

func buildMesh(v Voxels) asteroidMesh {
	mesh := asteroidMesh{
		cells: make([]Vec2, 0, v.FilledCount()),
		size:  v.Size,
		color: v.Color,
	}
	originX := float32(v.Width) / 2
	originY := float32(v.Height) / 2
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			if !v.At(x, y) {
				continue
			}
			mesh.cells = append(mesh.cells, Vec2{
				X: (float32(x) + 0.5 - originX) * v.Size,
				Y: (originY - float32(y) - 0.5) * v.Size,
			})
		}
	}
	return mesh
}

// AsteroidRenderService keeps a mesh for every entity holding Voxels. It
// learns about asteroids through the store's add and remove notifications
// instead of scanning for them every frame.
type AsteroidRenderService struct {
	// Status, when set, is printed in the top-left corner every frame.
	Status func() string

	added   *ecs.Listener
	removed *ecs.Listener
	meshes  map[ecs.Entity]asteroidMesh
}

func (s *AsteroidRenderService) Initialize(store *ecs.Store, queue *render.DrawQueue) error {
	s.added = ecs.SubscribeToAdd[Voxels](store)
	s.removed = ecs.SubscribeToRemove[Voxels](store)
	s.meshes = make(map[ecs.Entity]asteroidMesh)

	// Asteroids that existed before the subscription never produce an event.
	for e, v := range ecs.Each[Voxels](store) {
		s.meshes[e] = buildMesh(*v)
	}
	return nil
}

func (s *AsteroidRenderService) Update(dt float64, store *ecs.Store, queue *render.DrawQueue) error {
	for _, e := range s.removed.Poll() {
		delete(s.meshes, e)
	}

	for _, e := range s.added.Poll() {
		v, err := ecs.Get[Voxels](store, e)
		if errors.Is(err, ecs.ErrEntityNotFound) || errors.Is(err, ecs.ErrComponentNotFound) {
			// Added and removed again within the same frame.
			continue
		}
		if err != nil {
			return err
		}
		s.meshes[e] = buildMesh(v)
	}

	queue.SetLayer(0)
	for _, e := range slices.Sorted(maps.Keys(s.meshes)) {
		mesh := s.meshes[e]

		var body Physics
		if p, err := ecs.Get[Physics](store, e); err == nil {
			body = p
		}
		sin, cos := math.Sincos(float64(body.Rotation))
		for _, c := range mesh.cells {
			x := c.X*float32(cos) - c.Y*float32(sin)
			y := c.X*float32(sin) + c.Y*float32(cos)
			queue.Rect(body.Position.X+x, body.Position.Y+y, mesh.size, mesh.size, mesh.color)
		}
	}

	queue.SetLayer(1)
	status := fmt.Sprintf("asteroids: %d", len(s.meshes))
	if s.Status != nil {
		status += "  " + s.Status()
	}
	queue.Text(-1, 1, status, hudColor)
	return nil
}

// Tracked returns the number of asteroids the service currently draws.
func (s *AsteroidRenderService) Tracked() int {
	return len(s.meshes)
}
