package pattern

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/stitchloft/seamline/internal/meshgen"
)

func TestBuildAdjacency_Cube(t *testing.T) {
	vertices, indices := meshgen.UnitCube()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	adj, err := BuildAdjacency(testCheckpoint(), m)
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}
	if got := adj.TriangleCount(); got != 12 {
		t.Fatalf("TriangleCount = %d, want 12", got)
	}

	// A closed cube is manifold: every triangle has exactly 3 neighbors.
	for ti := int32(0); ti < 12; ti++ {
		if got := len(adj.Neighbors(ti)); got != 3 {
			t.Errorf("triangle %d has %d neighbors, want 3", ti, got)
		}
	}
}

func TestBuildAdjacency_Symmetric(t *testing.T) {
	vertices, indices := meshgen.Grid(3, 3)
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	adj, err := BuildAdjacency(testCheckpoint(), m)
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}
	for ti := int32(0); ti < int32(m.TriangleCount()); ti++ {
		for _, nb := range adj.Neighbors(ti) {
			back := false
			for _, rev := range adj.Neighbors(nb) {
				if rev == ti {
					back = true
					break
				}
			}
			if !back {
				t.Errorf("adjacency not symmetric: %d -> %d without reverse edge", ti, nb)
			}
		}
	}
}

func TestBuildAdjacency_PairedQuadTriangles(t *testing.T) {
	vertices, indices := meshgen.CubeFace()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	adj, err := BuildAdjacency(testCheckpoint(), m)
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}
	got := append([]int32(nil), adj.Neighbors(0)...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if diff := cmp.Diff([]int32{1}, got); diff != "" {
		t.Errorf("Neighbors(0) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAdjacency_Cancelled(t *testing.T) {
	vertices, indices := meshgen.Grid(8, 8)
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cp := newCheckpoint(ctx, nil, 0, nil)
	if _, err := BuildAdjacency(cp, m); err == nil {
		t.Fatal("expected cancellation error, got nil")
	}
}

func TestBuildAdjacency_Islands(t *testing.T) {
	vertices, indices := meshgen.TwoIslands()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	adj, err := BuildAdjacency(testCheckpoint(), m)
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}
	for ti := int32(0); ti < 2; ti++ {
		if got := len(adj.Neighbors(ti)); got != 0 {
			t.Errorf("island triangle %d has %d neighbors, want 0", ti, got)
		}
	}
}
