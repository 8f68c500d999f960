package pattern

import (
	"fmt"
	"math"
	"math/rand"
)

// ClusterAssignment maps triangle index to cluster label in [0, K). It is
// mutated in place across Lloyd's iterations and the connectivity and
// smoothing passes, then frozen once handed to the panel assembler.
type ClusterAssignment []int

// lloydYieldStride is how many Lloyd iterations run between yield points
// and wall-clock checks.
const lloydYieldStride = 5

// featureDistance is the weighted clustering metric between two triangle
// features. Position contributes its Euclidean distance, normals their
// deviation from parallel (1 - dot), curvature and edge length their
// absolute differences.
func featureDistance(a, b *TriangleFeature, w DistanceWeights) float32 {
	d := w.Position * a.Position.Sub(b.Position).Len()
	d += w.Normal * (1 - a.Normal.Dot(b.Normal))
	d += w.Curvature * abs32(a.Curvature-b.Curvature)
	d += w.EdgeLength * abs32(a.AvgEdgeLength-b.AvgEdgeLength)
	return d
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// ClusterTriangles partitions triangle features into k clusters with
// K-means++ seeding followed by Lloyd's refinement.
//
// Seeding picks the first center uniformly and each later center with
// probability proportional to squared distance from the nearest chosen
// center. Lloyd's loop alternates nearest-center assignment and
// feature-wise center recomputation until the maximum center displacement
// drops below cfg.ConvergenceThreshold or cfg.MaxIterations is reached.
// Empty clusters keep their previous center.
func ClusterTriangles(cp *checkpoint, features []TriangleFeature, k int, cfg SegmentationConfig, rng *rand.Rand) (ClusterAssignment, error) {
	n := len(features)
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d with %d triangles", ErrInvalidPanelCount, k, n)
	}

	centers, err := seedCenters(cp, features, k, cfg.DistanceWeights, rng)
	if err != nil {
		return nil, err
	}

	assignment := make(ClusterAssignment, n)
	counts := make([]int, k)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if iter%lloydYieldStride == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}

		// Assignment step.
		for t := range features {
			best := 0
			bestDist := float32(math.MaxFloat32)
			for c := range centers {
				if d := featureDistance(&features[t], &centers[c], cfg.DistanceWeights); d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignment[t] = best
		}

		// Update step: feature-wise means. Normals are averaged then
		// renormalized; clusters that lost all members keep their
		// previous center.
		next := make([]TriangleFeature, k)
		for c := range counts {
			counts[c] = 0
		}
		for t, c := range assignment {
			f := &features[t]
			next[c].Position = next[c].Position.Add(f.Position)
			next[c].Normal = next[c].Normal.Add(f.Normal)
			next[c].Curvature += f.Curvature
			next[c].AvgEdgeLength += f.AvgEdgeLength
			counts[c]++
		}

		maxShift := float32(0)
		for c := range next {
			if counts[c] == 0 {
				next[c] = centers[c]
				continue
			}
			inv := 1 / float32(counts[c])
			next[c].Position = next[c].Position.Mul(inv)
			next[c].Normal = safeNormalize(next[c].Normal)
			next[c].Curvature *= inv
			next[c].AvgEdgeLength *= inv

			if shift := featureDistance(&next[c], &centers[c], cfg.DistanceWeights); shift > maxShift {
				maxShift = shift
			}
		}
		centers = next

		if maxShift < cfg.ConvergenceThreshold {
			break
		}
	}
	return assignment, nil
}

// seedCenters implements K-means++ seeding over the weighted metric.
func seedCenters(cp *checkpoint, features []TriangleFeature, k int, w DistanceWeights, rng *rand.Rand) ([]TriangleFeature, error) {
	n := len(features)
	centers := make([]TriangleFeature, 0, k)
	centers = append(centers, features[rng.Intn(n)])

	// nearest[t] tracks squared distance from triangle t to its closest
	// already-chosen center; each new center only needs one pass.
	nearest := make([]float64, n)
	for t := range features {
		d := float64(featureDistance(&features[t], &centers[0], w))
		nearest[t] = d * d
	}

	for len(centers) < k {
		if err := cp.yield(); err != nil {
			return nil, err
		}

		var total float64
		for _, d2 := range nearest {
			total += d2
		}

		var pick int
		if total <= 0 {
			// All remaining triangles coincide with a chosen center;
			// distance weighting is meaningless, pick uniformly.
			pick = rng.Intn(n)
		} else {
			target := rng.Float64() * total
			acc := 0.0
			pick = n - 1
			for t, d2 := range nearest {
				acc += d2
				if acc >= target {
					pick = t
					break
				}
			}
		}

		centers = append(centers, features[pick])
		latest := &centers[len(centers)-1]
		for t := range features {
			d := float64(featureDistance(&features[t], latest, w))
			if d2 := d * d; d2 < nearest[t] {
				nearest[t] = d2
			}
		}
	}
	return centers, nil
}
