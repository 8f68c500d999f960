package pattern

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// degenerateAreaEpsilon marks triangles too small to contribute to
// area-weighted sums; captured meshes routinely contain slivers.
const degenerateAreaEpsilon = 1e-6

// unitZ is the fallback normal when area weighting collapses to zero.
var unitZ = mgl32.Vec3{0, 0, 1}

// triangleAreaNormal returns the unnormalized cross product of two
// triangle edges. Its length is twice the triangle area and its direction
// is the face normal, so one cross product serves both.
func triangleAreaNormal(pa, pb, pc mgl32.Vec3) mgl32.Vec3 {
	return pb.Sub(pa).Cross(pc.Sub(pa))
}

// triangleArea returns the area of the triangle (pa, pb, pc).
func triangleArea(pa, pb, pc mgl32.Vec3) float32 {
	return triangleAreaNormal(pa, pb, pc).Len() * 0.5
}

// cornerAngle returns the interior angle at corner p of the triangle
// (p, q, r), clamped against float32 rounding outside [-1, 1].
func cornerAngle(p, q, r mgl32.Vec3) float32 {
	u := q.Sub(p)
	v := r.Sub(p)
	lu := u.Len()
	lv := v.Len()
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := float64(u.Dot(v) / (lu * lv))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return float32(math.Acos(cos))
}

// safeNormalize normalizes v, falling back to +Z when v is effectively
// zero length.
func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return unitZ
	}
	return v.Mul(1 / l)
}

// packEdge packs an unordered vertex pair into a single map key, smaller
// index in the high half. Same trick as packing grid cells into one
// integer key: one map lookup instead of a two-level structure.
func packEdge(a, b int32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

// unpackEdge reverses packEdge.
func unpackEdge(key uint64) (a, b int32) {
	return int32(key >> 32), int32(uint32(key))
}
