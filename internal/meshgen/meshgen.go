// Package meshgen builds small synthetic triangle meshes for tests and
// developer tools: raw vertex and index slices, no engine types, so it
// can sit below every other package.
package meshgen

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SingleTriangle returns one right triangle in the XY plane with legs of
// length 1.
func SingleTriangle() ([]mgl32.Vec3, []int32) {
	vertices := []mgl32.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	return vertices, []int32{0, 1, 2}
}

// UnitCube returns the classic 8-vertex, 12-triangle unit cube.
func UnitCube() ([]mgl32.Vec3, []int32) {
	vertices := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, // bottom ring (z=0)
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}, // top ring (z=1)
	}
	indices := []int32{
		0, 2, 1, 0, 3, 2, // bottom
		4, 5, 6, 4, 6, 7, // top
		0, 1, 5, 0, 5, 4, // front
		2, 3, 7, 2, 7, 6, // back
		1, 2, 6, 1, 6, 5, // right
		3, 0, 4, 3, 4, 7, // left
	}
	return vertices, indices
}

// CubeFace returns a single unit-square face (4 vertices, 2 triangles)
// lying in the XY plane, the canonical near-planar flattening case.
func CubeFace() ([]mgl32.Vec3, []int32) {
	vertices := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	return vertices, []int32{0, 1, 2, 0, 2, 3}
}

// Grid returns a planar nx×ny quad grid in the XY plane with unit
// spacing, triangulated into 2*nx*ny triangles.
func Grid(nx, ny int) ([]mgl32.Vec3, []int32) {
	vertices := make([]mgl32.Vec3, 0, (nx+1)*(ny+1))
	for y := 0; y <= ny; y++ {
		for x := 0; x <= nx; x++ {
			vertices = append(vertices, mgl32.Vec3{float32(x), float32(y), 0})
		}
	}

	stride := int32(nx + 1)
	indices := make([]int32, 0, 6*nx*ny)
	for y := int32(0); y < int32(ny); y++ {
		for x := int32(0); x < int32(nx); x++ {
			v0 := y*stride + x
			v1 := v0 + 1
			v2 := v0 + stride
			v3 := v2 + 1
			indices = append(indices, v0, v1, v3, v0, v3, v2)
		}
	}
	return vertices, indices
}

// Sphere returns a UV sphere with the given ring and segment counts,
// radius 1, centered at the origin. rings >= 2 and segments >= 3.
func Sphere(rings, segments int) ([]mgl32.Vec3, []int32) {
	var vertices []mgl32.Vec3
	vertices = append(vertices, mgl32.Vec3{0, 0, 1}) // north pole

	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			vertices = append(vertices, mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
				float32(math.Cos(phi)),
			})
		}
	}
	south := int32(len(vertices))
	vertices = append(vertices, mgl32.Vec3{0, 0, -1})

	var indices []int32
	ring := func(r, s int) int32 {
		return int32(1 + (r-1)*segments + s%segments)
	}

	// Pole caps.
	for s := 0; s < segments; s++ {
		indices = append(indices, 0, ring(1, s), ring(1, s+1))
		indices = append(indices, south, ring(rings-1, s+1), ring(rings-1, s))
	}
	// Quad bands between rings.
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a := ring(r, s)
			b := ring(r, s+1)
			c := ring(r+1, s)
			d := ring(r+1, s+1)
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return vertices, indices
}

// TwoIslands returns two disconnected single-triangle islands, the
// degenerate capture case the connectivity stage must tolerate.
func TwoIslands() ([]mgl32.Vec3, []int32) {
	vertices := []mgl32.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{10, 0, 0}, {11, 0, 0}, {10, 1, 0},
	}
	return vertices, []int32{0, 1, 2, 3, 4, 5}
}
