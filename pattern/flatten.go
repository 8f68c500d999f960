package pattern

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Rect2 is an axis-aligned 2D bounding box.
type Rect2 struct {
	Min, Max mgl32.Vec2
}

// FlattenedPanel is the 2D pattern piece produced from one Panel.
//
// Points2D is index-aligned with the source panel's VertexIndices.
// Edges lists boundary/seam edges as local point-index pairs with i < j,
// sorted lexicographically. AvgEdgeError and MaxEdgeError report the
// relative edge-length distortion the relaxation settled at; flat panels
// land near zero, non-developable ones report whatever best effort was
// achieved.
type FlattenedPanel struct {
	SourcePanelID uuid.UUID
	Points2D      []mgl32.Vec2
	Edges         [][2]int32
	Bounds        Rect2
	AvgEdgeError  float32
	MaxEdgeError  float32
}

// relaxYieldStride is how many relaxation iterations run between yield
// points.
const relaxYieldStride = 16

// spring couples two local point indices with the original 3D edge length
// as rest length.
type spring struct {
	i, j int32
	rest float64
}

// Flatten unfolds each panel into a 2D pattern piece. Panels are
// processed in order; the first failure aborts the whole call with no
// partial result. The context is checked at yield points, so a caller
// deadline surfaces as ErrTimeout and cancellation as ErrCancelled.
func Flatten(ctx context.Context, panels []Panel, m *Mesh, cfg FlatteningConfig) ([]FlattenedPanel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flattening config: %w", err)
	}
	cp := newCheckpoint(ctx, nil, 0, nil)

	out := make([]FlattenedPanel, 0, len(panels))
	for i := range panels {
		fp, err := flattenPanel(cp, &panels[i], m, cfg)
		if err != nil {
			return nil, fmt.Errorf("panel %d (%s): %w", i, panels[i].ID, err)
		}
		out = append(out, *fp)
	}
	return out, nil
}

// flattenPanel projects one panel onto its best-fit plane and relaxes the
// 2D layout until mesh edge lengths are approximated.
func flattenPanel(cp *checkpoint, p *Panel, m *Mesh, cfg FlatteningConfig) (*FlattenedPanel, error) {
	if len(p.TriangleIndices) == 0 || len(p.VertexIndices) == 0 {
		return nil, fmt.Errorf("%w: no geometry", ErrEmptyPanel)
	}
	if len(p.VertexIndices) < minPanelVertices {
		return nil, fmt.Errorf("%w: %d vertices", ErrInvalidGeometry, len(p.VertexIndices))
	}
	if err := cp.yield(); err != nil {
		return nil, err
	}

	// Local indexing: position i in VertexIndices is local point i.
	local := make(map[int32]int32, len(p.VertexIndices))
	for i, v := range p.VertexIndices {
		local[v] = int32(i)
	}
	// Every triangle corner must resolve to a local point; a missing
	// entry would silently alias local index 0 in the spring graph.
	for _, vid := range p.TriangleIndices {
		if _, ok := local[vid]; !ok {
			return nil, fmt.Errorf("%w: triangle vertex %d missing from panel vertex set", ErrInvalidGeometry, vid)
		}
	}

	points := projectToPlane(p, m, local)

	springs, boundary := panelSprings(p, m, local)
	if err := relax(cp, points, springs, cfg); err != nil {
		return nil, err
	}

	fp := &FlattenedPanel{
		SourcePanelID: p.ID,
		Points2D:      make([]mgl32.Vec2, len(points)),
		Edges:         boundary,
	}
	for i, pt := range points {
		fp.Points2D[i] = mgl32.Vec2{float32(pt.X()), float32(pt.Y())}
	}
	fp.Bounds = bounds2D(fp.Points2D)
	fp.AvgEdgeError, fp.MaxEdgeError = edgeErrors(points, springs)
	return fp, nil
}

// projectToPlane lays the panel out on its best-fit plane: points are
// centered on the panel centroid and projected onto an orthonormal
// in-plane basis. Relative placement survives; edge lengths are only
// approximate until relaxation.
func projectToPlane(p *Panel, m *Mesh, local map[int32]int32) []mgl64.Vec2 {
	normal := panelNormal(p, m)
	u, v := planeBasis(normal)

	var centroid mgl64.Vec3
	for _, vid := range p.VertexIndices {
		pos := m.Vertex(vid)
		centroid = centroid.Add(mgl64.Vec3{float64(pos.X()), float64(pos.Y()), float64(pos.Z())})
	}
	centroid = centroid.Mul(1 / float64(len(p.VertexIndices)))

	points := make([]mgl64.Vec2, len(p.VertexIndices))
	for _, vid := range p.VertexIndices {
		pos := m.Vertex(vid)
		d := mgl64.Vec3{float64(pos.X()), float64(pos.Y()), float64(pos.Z())}.Sub(centroid)
		points[local[vid]] = mgl64.Vec2{d.Dot(u), d.Dot(v)}
	}
	return points
}

// panelNormal returns the area-weighted average normal of the panel's
// triangles. When the average cancels out (closed or heavily folded
// surfaces), it falls back to the least-variance axis of the panel's
// points: the right singular vector of the centered point matrix with the
// smallest singular value.
func panelNormal(p *Panel, m *Mesh) mgl64.Vec3 {
	var sum mgl64.Vec3
	for t := 0; t < p.TriangleCount(); t++ {
		a := p.TriangleIndices[3*t]
		b := p.TriangleIndices[3*t+1]
		c := p.TriangleIndices[3*t+2]
		an := triangleAreaNormal(m.Vertex(a), m.Vertex(b), m.Vertex(c))
		sum = sum.Add(mgl64.Vec3{float64(an.X()), float64(an.Y()), float64(an.Z())})
	}
	if l := sum.Len(); l > 1e-9 {
		return sum.Mul(1 / l)
	}
	return leastVarianceAxis(p, m)
}

// leastVarianceAxis computes the flattest direction of the panel's vertex
// cloud via SVD of the centered n×3 point matrix.
func leastVarianceAxis(p *Panel, m *Mesh) mgl64.Vec3 {
	n := len(p.VertexIndices)
	var cx, cy, cz float64
	for _, vid := range p.VertexIndices {
		pos := m.Vertex(vid)
		cx += float64(pos.X())
		cy += float64(pos.Y())
		cz += float64(pos.Z())
	}
	cx /= float64(n)
	cy /= float64(n)
	cz /= float64(n)

	data := make([]float64, 0, 3*n)
	for _, vid := range p.VertexIndices {
		pos := m.Vertex(vid)
		data = append(data, float64(pos.X())-cx, float64(pos.Y())-cy, float64(pos.Z())-cz)
	}

	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(n, 3, data), mat.SVDThinV) {
		return mgl64.Vec3{0, 0, 1}
	}
	var v mat.Dense
	svd.VTo(&v)
	// Columns of V are ordered by descending singular value; the last is
	// the least-variance axis.
	return mgl64.Vec3{v.At(0, 2), v.At(1, 2), v.At(2, 2)}
}

// planeBasis builds an orthonormal (u, v) basis spanning the plane
// perpendicular to normal.
func planeBasis(normal mgl64.Vec3) (u, v mgl64.Vec3) {
	ref := mgl64.Vec3{1, 0, 0}
	if absf(normal.X()) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u = normal.Cross(ref).Normalize()
	v = normal.Cross(u).Normalize()
	return u, v
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// panelSprings derives the unique mesh edges inside the panel as springs
// with 3D rest lengths, and the boundary edge list (edges incident to
// exactly one panel triangle). Both use local point indices.
func panelSprings(p *Panel, m *Mesh, local map[int32]int32) ([]spring, [][2]int32) {
	type edgeInfo struct {
		count int32
		rest  float64
	}
	edges := make(map[uint64]*edgeInfo, len(p.TriangleIndices))

	for t := 0; t < p.TriangleCount(); t++ {
		a := p.TriangleIndices[3*t]
		b := p.TriangleIndices[3*t+1]
		c := p.TriangleIndices[3*t+2]
		for _, e := range [3][2]int32{{a, b}, {b, c}, {c, a}} {
			key := packEdge(local[e[0]], local[e[1]])
			info := edges[key]
			if info == nil {
				rest := float64(m.Vertex(e[0]).Sub(m.Vertex(e[1])).Len())
				info = &edgeInfo{rest: rest}
				edges[key] = info
			}
			info.count++
		}
	}

	springs := make([]spring, 0, len(edges))
	var boundary [][2]int32
	for key, info := range edges {
		i, j := unpackEdge(key)
		springs = append(springs, spring{i: i, j: j, rest: info.rest})
		if info.count == 1 {
			boundary = append(boundary, [2]int32{i, j})
		}
	}

	// Map iteration order is random; sort both lists so repeated runs
	// relax in the same order and emit identical seam lists.
	sort.Slice(springs, func(a, b int) bool {
		if springs[a].i != springs[b].i {
			return springs[a].i < springs[b].i
		}
		return springs[a].j < springs[b].j
	})
	sort.Slice(boundary, func(a, b int) bool {
		if boundary[a][0] != boundary[b][0] {
			return boundary[a][0] < boundary[b][0]
		}
		return boundary[a][1] < boundary[b][1]
	})
	return springs, boundary
}

// relax runs Gauss-Seidel spring relaxation: each point is nudged toward
// satisfying all its incident springs at once, updates land immediately,
// and the loop stops at the iteration cap or when the largest point
// displacement in a sweep falls under the convergence threshold.
func relax(cp *checkpoint, points []mgl64.Vec2, springs []spring, cfg FlatteningConfig) error {
	n := len(points)
	degree := make([]float64, n)
	incident := make([][]int32, n)
	for s := range springs {
		incident[springs[s].i] = append(incident[springs[s].i], int32(s))
		incident[springs[s].j] = append(incident[springs[s].j], int32(s))
		degree[springs[s].i]++
		degree[springs[s].j]++
	}

	threshold := float64(cfg.ConvergenceThreshold)
	for iter := 0; iter < cfg.RelaxationIterations; iter++ {
		if iter%relaxYieldStride == 0 {
			if err := cp.yield(); err != nil {
				return err
			}
		}

		maxDisp := 0.0
		for i := 0; i < n; i++ {
			if degree[i] == 0 {
				continue
			}
			var corr mgl64.Vec2
			for _, si := range incident[i] {
				s := &springs[si]
				other := s.j
				if other == int32(i) {
					other = s.i
				}
				delta := points[other].Sub(points[i])
				dist := delta.Len()
				if dist < 1e-12 {
					continue
				}
				// Move this endpoint half the length error along the
				// edge; the other half belongs to the far endpoint on
				// its own visit.
				corr = corr.Add(delta.Mul((dist - s.rest) / dist * 0.5))
			}
			corr = corr.Mul(1 / degree[i])
			points[i] = points[i].Add(corr)
			if d := corr.Len(); d > maxDisp {
				maxDisp = d
			}
		}

		if maxDisp < threshold {
			break
		}
	}
	return nil
}

// bounds2D returns the axis-aligned bounding box of the 2D points.
func bounds2D(points []mgl32.Vec2) Rect2 {
	r := Rect2{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		if p.X() < r.Min.X() {
			r.Min[0] = p.X()
		}
		if p.Y() < r.Min.Y() {
			r.Min[1] = p.Y()
		}
		if p.X() > r.Max.X() {
			r.Max[0] = p.X()
		}
		if p.Y() > r.Max.Y() {
			r.Max[1] = p.Y()
		}
	}
	return r
}

// edgeErrors reports the mean and max relative edge-length error of the
// relaxed layout against the springs' 3D rest lengths.
func edgeErrors(points []mgl64.Vec2, springs []spring) (avg, max float32) {
	if len(springs) == 0 {
		return 0, 0
	}
	errs := make([]float64, 0, len(springs))
	maxErr := 0.0
	for _, s := range springs {
		if s.rest <= 0 {
			continue
		}
		d := points[s.j].Sub(points[s.i]).Len()
		rel := absf(d-s.rest) / s.rest
		errs = append(errs, rel)
		if rel > maxErr {
			maxErr = rel
		}
	}
	if len(errs) == 0 {
		return 0, 0
	}
	return float32(stat.Mean(errs, nil)), float32(maxErr)
}
