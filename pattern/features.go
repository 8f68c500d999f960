package pattern

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexFeature is the per-vertex descriptor the clustering metric runs
// on: position, unit normal, discrete Gaussian curvature, and the mean
// length of incident edges. Computed once per segmentation call, never
// mutated.
type VertexFeature struct {
	Position      mgl32.Vec3
	Normal        mgl32.Vec3
	Curvature     float32
	AvgEdgeLength float32
}

// TriangleFeature carries the same descriptor shape for a triangle,
// averaged from its three corners with the centroid as position.
type TriangleFeature struct {
	Position      mgl32.Vec3
	Normal        mgl32.Vec3
	Curvature     float32
	AvgEdgeLength float32
}

// minCurvatureTriangles is the incident-triangle count below which the
// angle-defect estimate is too noisy to use; such vertices report zero
// curvature.
const minCurvatureTriangles = 3

// ExtractVertexFeatures computes per-vertex features for every mesh
// vertex, index-aligned with the mesh's vertex array.
//
// Normals are area-weighted averages of incident triangle normals with
// near-degenerate triangles (area < 1e-6) excluded; a vertex whose total
// weight collapses to zero falls back to +Z. Curvature is the angle
// defect 2π - Σ(interior angles) normalized by one third of the incident
// area. Accumulation runs in float64 so 100K-triangle sums keep their
// low bits; results are float32.
func ExtractVertexFeatures(cp *checkpoint, m *Mesh) ([]VertexFeature, error) {
	nv := m.VertexCount()
	nt := m.TriangleCount()

	normalSums := make([][3]float64, nv)
	angleSums := make([]float64, nv)
	areaSums := make([]float64, nv)
	incident := make([]int32, nv)

	for t := 0; t < nt; t++ {
		if t%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}
		a, b, c := m.Triangle(t)
		pa, pb, pc := m.TriangleVertices(t)

		an := triangleAreaNormal(pa, pb, pc)
		area := float64(an.Len()) * 0.5
		if area >= degenerateAreaEpsilon {
			// The unnormalized cross product is already the unit normal
			// scaled by twice the area, so accumulating it as is gives
			// the area weighting for free.
			for _, vid := range [3]int32{a, b, c} {
				normalSums[vid][0] += float64(an.X()) * 0.5
				normalSums[vid][1] += float64(an.Y()) * 0.5
				normalSums[vid][2] += float64(an.Z()) * 0.5
			}
		}

		angleSums[a] += float64(cornerAngle(pa, pb, pc))
		angleSums[b] += float64(cornerAngle(pb, pc, pa))
		angleSums[c] += float64(cornerAngle(pc, pa, pb))
		for _, vid := range [3]int32{a, b, c} {
			areaSums[vid] += area
			incident[vid]++
		}
	}

	edgeSums, edgeCounts, err := vertexEdgeStats(cp, m)
	if err != nil {
		return nil, err
	}

	features := make([]VertexFeature, nv)
	for v := 0; v < nv; v++ {
		if v%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}
		f := &features[v]
		f.Position = m.Vertex(int32(v))

		ns := normalSums[v]
		f.Normal = safeNormalize(mgl32.Vec3{float32(ns[0]), float32(ns[1]), float32(ns[2])})

		// Discrete Gaussian curvature by angle defect, normalized by the
		// one-third incident area (each triangle contributes a third of
		// its area to each corner's Voronoi-ish region).
		if incident[v] >= minCurvatureTriangles && areaSums[v] > 0 {
			defect := 2*math.Pi - angleSums[v]
			f.Curvature = float32(defect / (areaSums[v] / 3))
		}

		if edgeCounts[v] > 0 {
			f.AvgEdgeLength = float32(edgeSums[v] / float64(edgeCounts[v]))
		}
	}
	return features, nil
}

// vertexEdgeStats accumulates, per vertex, the summed length and count of
// its distinct incident edges. Edges shared by several triangles count
// once; the packed-pair set deduplicates.
func vertexEdgeStats(cp *checkpoint, m *Mesh) (sums []float64, counts []int32, err error) {
	nv := m.VertexCount()
	nt := m.TriangleCount()
	sums = make([]float64, nv)
	counts = make([]int32, nv)

	seen := make(map[uint64]struct{}, 3*nt/2)
	for t := 0; t < nt; t++ {
		if t%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, nil, err
			}
		}
		a, b, c := m.Triangle(t)
		for _, e := range [3][2]int32{{a, b}, {b, c}, {c, a}} {
			key := packEdge(e[0], e[1])
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			length := float64(m.Vertex(e[0]).Sub(m.Vertex(e[1])).Len())
			sums[e[0]] += length
			counts[e[0]]++
			sums[e[1]] += length
			counts[e[1]]++
		}
	}
	return sums, counts, nil
}

// ExtractTriangleFeatures derives per-triangle features from the vertex
// features: centroid position, corner normals re-averaged with each
// corner's incident-area weight and renormalized, and arithmetic means of
// curvature and edge length.
func ExtractTriangleFeatures(cp *checkpoint, m *Mesh, vertex []VertexFeature) ([]TriangleFeature, error) {
	nv := m.VertexCount()
	nt := m.TriangleCount()

	// Vertex normals come out of the vertex pass unit length, so the
	// incident-area weights have to be rebuilt before re-averaging the
	// corners.
	areaSums := make([]float64, nv)
	for t := 0; t < nt; t++ {
		if t%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}
		a, b, c := m.Triangle(t)
		pa, pb, pc := m.TriangleVertices(t)
		area := float64(triangleArea(pa, pb, pc))
		areaSums[a] += area
		areaSums[b] += area
		areaSums[c] += area
	}

	features := make([]TriangleFeature, nt)
	for t := 0; t < nt; t++ {
		if t%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}
		a, b, c := m.Triangle(t)
		fa, fb, fc := vertex[a], vertex[b], vertex[c]

		// Weight each corner's unit normal by that vertex's incident area
		// and renormalize; corners backed by more surface dominate.
		var ns [3]float64
		for _, corner := range [3]struct {
			n mgl32.Vec3
			w float64
		}{
			{fa.Normal, areaSums[a]},
			{fb.Normal, areaSums[b]},
			{fc.Normal, areaSums[c]},
		} {
			ns[0] += corner.w * float64(corner.n.X())
			ns[1] += corner.w * float64(corner.n.Y())
			ns[2] += corner.w * float64(corner.n.Z())
		}

		features[t] = TriangleFeature{
			Position:      m.Centroid(t),
			Normal:        safeNormalize(mgl32.Vec3{float32(ns[0]), float32(ns[1]), float32(ns[2])}),
			Curvature:     (fa.Curvature + fb.Curvature + fc.Curvature) / 3,
			AvgEdgeLength: (fa.AvgEdgeLength + fb.AvgEdgeLength + fc.AvgEdgeLength) / 3,
		}
	}
	return features, nil
}
