// Package pattern segments captured triangle meshes into surface panels
// and unfolds each panel into a distortion-minimized 2D pattern piece.
//
// The pipeline runs strictly forward over an immutable mesh snapshot:
// feature extraction, K-means++ clustering, connectivity enforcement,
// boundary smoothing, panel assembly, then per-panel flattening. Every
// invocation owns all of its intermediate state, so independent calls can
// run concurrently; long loops yield cooperatively and honor context
// cancellation and wall-clock budgets.
package pattern

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/stitchloft/seamline/internal/timeutil"
)

// Segment partitions the mesh into at most targetPanelCount contiguous
// panels.
//
// The result covers every mesh triangle exactly once, each panel's
// triangles form one connected component of the adjacency graph, and the
// panel count lands between 1 and targetPanelCount inclusive. On any
// failure no partial result is returned. With cfg.RandomSeed unset the
// call is deterministic for a given mesh, count, and config.
func Segment(ctx context.Context, m *Mesh, targetPanelCount int, cfg SegmentationConfig) ([]Panel, error) {
	return segmentWithClock(ctx, m, targetPanelCount, cfg, timeutil.RealClock{})
}

// segmentWithClock is Segment with an injectable clock so tests can
// drive the wall-clock budget.
func segmentWithClock(ctx context.Context, m *Mesh, targetPanelCount int, cfg SegmentationConfig, clock timeutil.Clock) ([]Panel, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mesh", ErrInvalidMesh)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("segmentation config: %w", err)
	}
	if targetPanelCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPanelCount, targetPanelCount)
	}
	// More panels than triangles is satisfiable only by clamping: a
	// 1-triangle mesh asked for 5 panels yields 1 panel, not an error.
	if targetPanelCount > m.TriangleCount() {
		targetPanelCount = m.TriangleCount()
	}

	budget := time.Duration(float64(cfg.TimeoutSeconds) * float64(time.Second))
	cp := newCheckpoint(ctx, clock, budget, ErrSegmentationTimeout)

	seed := cfg.Seed
	if cfg.RandomSeed {
		seed = clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	vertexFeatures, err := ExtractVertexFeatures(cp, m)
	if err != nil {
		return nil, fmt.Errorf("feature extraction: %w", err)
	}
	triangleFeatures, err := ExtractTriangleFeatures(cp, m, vertexFeatures)
	if err != nil {
		return nil, fmt.Errorf("feature extraction: %w", err)
	}

	assignment, err := ClusterTriangles(cp, triangleFeatures, targetPanelCount, cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}

	adj, err := BuildAdjacency(cp, m)
	if err != nil {
		return nil, fmt.Errorf("adjacency: %w", err)
	}
	if err := EnforceConnectivity(cp, m, adj, assignment, targetPanelCount); err != nil {
		return nil, fmt.Errorf("connectivity: %w", err)
	}
	if err := SmoothBoundaries(cp, adj, assignment, targetPanelCount, cfg.SmoothingPasses); err != nil {
		return nil, fmt.Errorf("smoothing: %w", err)
	}

	// Smoothing can re-split a cluster along a thin neck; enforce
	// connectivity once more so the per-panel invariant holds on output.
	if err := EnforceConnectivity(cp, m, adj, assignment, targetPanelCount); err != nil {
		return nil, fmt.Errorf("connectivity: %w", err)
	}

	panels, err := AssemblePanels(m, assignment, targetPanelCount)
	if err != nil {
		return nil, err
	}
	return panels, nil
}
