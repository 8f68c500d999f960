package pattern

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stitchloft/seamline/internal/meshgen"
	"github.com/stitchloft/seamline/internal/timeutil"
)

// assertPartition fails unless the panels cover every mesh triangle
// exactly once and each panel's vertex set matches its triangles.
func assertPartition(t *testing.T, m *Mesh, panels []Panel) {
	t.Helper()

	type triple struct{ a, b, c int32 }
	seen := make(map[triple]int)
	total := 0
	for _, p := range panels {
		if len(p.TriangleIndices)%3 != 0 {
			t.Fatalf("panel %s triangle indices not in triples", p.ID)
		}
		vertexSet := make(map[int32]struct{}, len(p.VertexIndices))
		for _, v := range p.VertexIndices {
			vertexSet[v] = struct{}{}
		}
		for i := 0; i < p.TriangleCount(); i++ {
			tr := triple{p.TriangleIndices[3*i], p.TriangleIndices[3*i+1], p.TriangleIndices[3*i+2]}
			seen[tr]++
			total++
			for _, v := range []int32{tr.a, tr.b, tr.c} {
				if _, ok := vertexSet[v]; !ok {
					t.Errorf("panel %s references vertex %d outside its vertex set", p.ID, v)
				}
			}
		}
		if len(vertexSet) < 3 {
			t.Errorf("panel %s has %d vertices, want >= 3", p.ID, len(vertexSet))
		}
	}

	if total != m.TriangleCount() {
		t.Errorf("panels cover %d triangles, mesh has %d", total, m.TriangleCount())
	}
	for ti := 0; ti < m.TriangleCount(); ti++ {
		a, b, c := m.Triangle(ti)
		if n := seen[triple{a, b, c}]; n != 1 {
			t.Errorf("triangle %d appears in %d panels, want 1", ti, n)
		}
	}
}

// assertPanelsConnected fails unless each panel's triangles form a single
// connected component of the mesh adjacency graph.
func assertPanelsConnected(t *testing.T, m *Mesh, panels []Panel) {
	t.Helper()
	adj, err := BuildAdjacency(testCheckpoint(), m)
	if err != nil {
		t.Fatalf("BuildAdjacency: %v", err)
	}

	// Recover triangle ids per panel by triple lookup.
	index := make(map[[3]int32]int, m.TriangleCount())
	for ti := 0; ti < m.TriangleCount(); ti++ {
		a, b, c := m.Triangle(ti)
		index[[3]int32{a, b, c}] = ti
	}

	assignment := make(ClusterAssignment, m.TriangleCount())
	for pi, p := range panels {
		for i := 0; i < p.TriangleCount(); i++ {
			key := [3]int32{p.TriangleIndices[3*i], p.TriangleIndices[3*i+1], p.TriangleIndices[3*i+2]}
			assignment[index[key]] = pi
		}
	}
	assertConnectedClusters(t, adj, assignment, len(panels))
}

func TestSegment_CubeSixPanels(t *testing.T) {
	vertices, indices := meshgen.UnitCube()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	panels, err := Segment(context.Background(), m, 6, DefaultSegmentationConfig())
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(panels) < 4 || len(panels) > 6 {
		t.Errorf("got %d panels, want 4..6 for a cube at K=6", len(panels))
	}
	assertPartition(t, m, panels)
	assertPanelsConnected(t, m, panels)
}

func TestSegment_CubeSinglePanel(t *testing.T) {
	vertices, indices := meshgen.UnitCube()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	panels, err := Segment(context.Background(), m, 1, DefaultSegmentationConfig())
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(panels) != 1 {
		t.Fatalf("got %d panels, want exactly 1", len(panels))
	}
	if got := panels[0].TriangleCount(); got != 12 {
		t.Errorf("panel covers %d triangles, want all 12", got)
	}
	assertPartition(t, m, panels)
}

func TestSegment_SingleTriangleClampsK(t *testing.T) {
	vertices, indices := meshgen.SingleTriangle()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	panels, err := Segment(context.Background(), m, 5, DefaultSegmentationConfig())
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	if len(panels) != 1 {
		t.Fatalf("got %d panels, want 1", len(panels))
	}
	if got := len(panels[0].VertexIndices); got != 3 {
		t.Errorf("panel has %d vertices, want 3", got)
	}
	if got := len(panels[0].TriangleIndices); got != 3 {
		t.Errorf("panel has %d triangle indices, want 3", got)
	}
}

func TestSegment_SphereDeterministicWithFixedSeed(t *testing.T) {
	vertices, indices := meshgen.Sphere(6, 8)
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	cfg := DefaultSegmentationConfig()
	p1, err := Segment(context.Background(), m, 4, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	p2, err := Segment(context.Background(), m, 4, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(p1) != len(p2) {
		t.Fatalf("panel counts diverged: %d vs %d", len(p1), len(p2))
	}
	for i := range p1 {
		if len(p1[i].TriangleIndices) != len(p2[i].TriangleIndices) {
			t.Errorf("panel %d sizes diverged: %d vs %d", i, len(p1[i].TriangleIndices), len(p2[i].TriangleIndices))
		}
	}
}

func TestSegment_InvalidPanelCount(t *testing.T) {
	vertices, indices := meshgen.UnitCube()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	for _, k := range []int{0, -3} {
		_, err := Segment(context.Background(), m, k, DefaultSegmentationConfig())
		if !errors.Is(err, ErrInvalidPanelCount) {
			t.Errorf("k=%d: error = %v, want ErrInvalidPanelCount", k, err)
		}
	}
}

func TestSegment_NilMesh(t *testing.T) {
	_, err := Segment(context.Background(), nil, 1, DefaultSegmentationConfig())
	if !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("error = %v, want ErrInvalidMesh", err)
	}
}

func TestSegment_Cancelled(t *testing.T) {
	vertices, indices := meshgen.Grid(10, 10)
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Segment(ctx, m, 4, DefaultSegmentationConfig())
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
}

func TestSegment_ContextDeadline(t *testing.T) {
	vertices, indices := meshgen.Grid(10, 10)
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err = Segment(ctx, m, 4, DefaultSegmentationConfig())
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", err)
	}
}

func TestSegment_WallClockBudget(t *testing.T) {
	vertices, indices := meshgen.Grid(10, 10)
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	// Every clock read steps 1s forward: the 2s default budget is spent
	// by the first few yield points.
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	clock.SetAutoAdvance(time.Second)

	_, err = segmentWithClock(context.Background(), m, 4, DefaultSegmentationConfig(), clock)
	if !errors.Is(err, ErrSegmentationTimeout) {
		t.Errorf("error = %v, want ErrSegmentationTimeout", err)
	}
}

func TestSegment_ConfigValidation(t *testing.T) {
	vertices, indices := meshgen.CubeFace()
	m, err := NewMesh(vertices, indices)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	cfg := DefaultSegmentationConfig()
	cfg.MaxIterations = 0
	if _, err := Segment(context.Background(), m, 1, cfg); err == nil {
		t.Error("expected config validation error, got nil")
	}
}
