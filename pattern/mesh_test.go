package pattern

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stitchloft/seamline/internal/meshgen"
)

func TestNewMesh_Valid(t *testing.T) {
	vertices, indices := meshgen.UnitCube()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	if got := m.VertexCount(); got != 8 {
		t.Errorf("VertexCount = %d, want 8", got)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount = %d, want 12", got)
	}
}

func TestNewMesh_Invalid(t *testing.T) {
	tri := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	tests := []struct {
		name     string
		vertices []mgl32.Vec3
		indices  []int32
	}{
		{"empty mesh", nil, nil},
		{"too few vertices", tri[:2], []int32{0, 1, 0}},
		{"no triangles", tri, nil},
		{"index count not multiple of 3", tri, []int32{0, 1}},
		{"index out of range", tri, []int32{0, 1, 3}},
		{"negative index", tri, []int32{0, 1, -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMesh(tc.vertices, tc.indices)
			if !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("NewMesh error = %v, want ErrInvalidMesh", err)
			}
		})
	}
}

func TestNewMesh_CopiesInput(t *testing.T) {
	vertices, indices := meshgen.SingleTriangle()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	// Caller-side mutation must not reach the snapshot.
	vertices[0] = mgl32.Vec3{99, 99, 99}
	indices[0] = 2

	if got := m.Vertex(0); got != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("Vertex(0) = %v, snapshot shares caller storage", got)
	}
	if a, _, _ := m.Triangle(0); a != 0 {
		t.Errorf("Triangle(0) first index = %d, snapshot shares caller storage", a)
	}
}

func TestMesh_Centroid(t *testing.T) {
	vertices, indices := meshgen.SingleTriangle()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	want := mgl32.Vec3{1.0 / 3.0, 1.0 / 3.0, 0}
	if got := m.Centroid(0); got.Sub(want).Len() > 1e-6 {
		t.Errorf("Centroid(0) = %v, want %v", got, want)
	}
}
