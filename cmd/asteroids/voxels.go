package main

import (
	"image/color"
	"math/rand/v2"
)

const voxelSize = 0.01

var asteroidColors = []color.RGBA{
	{169, 169, 169, 255},
	{186, 176, 160, 255},
	{150, 140, 130, 255},
	{200, 190, 170, 255},
}

// ellipseChance returns the probability that the cell at (x, y) is filled
// in a width x height grid: 1 at the center of the inscribed ellipse,
// falling to 0 at its edge and outside.
func ellipseChance(x, y, width, height float32) float64 {
	hw, hh := width/2, height/2
	dx, dy := x-hw, y-hh
	d := dx*dx/(hw*hw) + dy*dy/(hh*hh)
	if d >= 1 {
		return 0
	}
	return float64(1 - d)
}

// GenerateAsteroid builds a random roughly elliptical voxel shape.
func GenerateAsteroid(rng *rand.Rand, width, height int) Voxels {
	v := Voxels{
		Width:  width,
		Height: height,
		Size:   voxelSize,
		Filled: make([]bool, width*height),
		Color:  asteroidColors[rng.IntN(len(asteroidColors))],
	}

	for i := range v.Filled {
		x := float32(i%width) + 0.5
		y := float32(i/width) + 0.5
		v.Filled[i] = rng.Float64() < ellipseChance(x, y, float32(width), float32(height))
	}
	return v
}
