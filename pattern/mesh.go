package pattern

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an immutable snapshot of a captured triangle mesh: a vertex
// array plus triangle index triples. It is the shared read-only input to
// every pipeline stage; no stage mutates it.
type Mesh struct {
	vertices        []mgl32.Vec3
	triangleIndices []int32
}

// NewMesh validates and snapshots a mesh. Both slices are copied so later
// caller-side mutation cannot reach into a running pipeline.
//
// Validation: at least 3 vertices, index count a positive multiple of 3,
// every index within the vertex range. Violations return ErrInvalidMesh.
func NewMesh(vertices []mgl32.Vec3, triangleIndices []int32) (*Mesh, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrInvalidMesh, len(vertices))
	}
	if len(triangleIndices) == 0 {
		return nil, fmt.Errorf("%w: mesh has no triangles", ErrInvalidMesh)
	}
	if len(triangleIndices)%3 != 0 {
		return nil, fmt.Errorf("%w: triangle index count %d is not a multiple of 3", ErrInvalidMesh, len(triangleIndices))
	}
	for i, idx := range triangleIndices {
		if idx < 0 || int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: triangle index %d at position %d out of range [0,%d)", ErrInvalidMesh, idx, i, len(vertices))
		}
	}

	m := &Mesh{
		vertices:        make([]mgl32.Vec3, len(vertices)),
		triangleIndices: make([]int32, len(triangleIndices)),
	}
	copy(m.vertices, vertices)
	copy(m.triangleIndices, triangleIndices)
	return m, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.triangleIndices) / 3 }

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int32) mgl32.Vec3 { return m.vertices[i] }

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c int32) {
	return m.triangleIndices[3*t], m.triangleIndices[3*t+1], m.triangleIndices[3*t+2]
}

// TriangleVertices returns the three corner positions of triangle t.
func (m *Mesh) TriangleVertices(t int) (pa, pb, pc mgl32.Vec3) {
	a, b, c := m.Triangle(t)
	return m.vertices[a], m.vertices[b], m.vertices[c]
}

// Centroid returns the centroid of triangle t.
func (m *Mesh) Centroid(t int) mgl32.Vec3 {
	pa, pb, pc := m.TriangleVertices(t)
	return pa.Add(pb).Add(pc).Mul(1.0 / 3.0)
}
