package pattern

import "math"

// EnforceConnectivity rewrites assignment so that every cluster label
// covers exactly one connected component of the triangle adjacency graph.
//
// For each label, a stack-based flood fill partitions the label's
// triangles into components. The largest component keeps the label; every
// smaller (orphan) component moves wholesale to the cluster of its
// nearest external neighbor, measured by triangle-centroid distance
// across the component's outward edges. An orphan with no external
// neighbors at all (an isolated mesh island) falls to cluster 0. The
// advertised cluster count never grows; triangles only move between
// existing labels.
func EnforceConnectivity(cp *checkpoint, m *Mesh, adj *Adjacency, assignment ClusterAssignment, k int) error {
	n := len(assignment)
	stack := make([]int32, 0, 64)

	// A single sweep can push a fragment into a label that was already
	// checked, so sweep until a fixed point. Every reassignment merges a
	// component into a neighboring one, strictly shrinking the total
	// component count, so this terminates within n sweeps.
	for {
		// seen[t] stamps the label whose flood fill reached t, standing
		// in for a per-label visited reset.
		seen := make([]int, n)
		for t := range seen {
			seen[t] = -1
		}

		changed := false
		for label := 0; label < k; label++ {
			if err := cp.yield(); err != nil {
				return err
			}

			components := components(adj, assignment, label, seen, stack)
			if len(components) < 2 {
				continue
			}

			// Keep the biggest component under the original label.
			largest := 0
			for i, comp := range components {
				if len(comp) > len(components[largest]) {
					largest = i
				}
			}

			for i, comp := range components {
				if i == largest {
					continue
				}
				target := nearestExternalCluster(m, adj, assignment, comp)
				if target == label {
					continue
				}
				for _, t := range comp {
					assignment[t] = target
				}
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

// components flood-fills the triangles carrying label into connected
// components. seen and stack are scratch space reused across labels.
func components(adj *Adjacency, assignment ClusterAssignment, label int, seen []int, stack []int32) [][]int32 {
	var comps [][]int32
	for t := range assignment {
		if assignment[t] != label || seen[t] == label {
			continue
		}

		var comp []int32
		stack = append(stack[:0], int32(t))
		seen[t] = label
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)

			for _, nb := range adj.Neighbors(cur) {
				if seen[nb] != label && assignment[nb] == label {
					seen[nb] = label
					stack = append(stack, nb)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// nearestExternalCluster finds, over all outward edges of an orphan
// component, the adjacent triangle of another cluster closest by centroid
// distance, and returns that cluster's label. Falls back to cluster 0 for
// fully isolated components.
func nearestExternalCluster(m *Mesh, adj *Adjacency, assignment ClusterAssignment, comp []int32) int {
	inComp := make(map[int32]struct{}, len(comp))
	for _, t := range comp {
		inComp[t] = struct{}{}
	}

	best := 0
	bestDist := math.MaxFloat64
	found := false
	for _, t := range comp {
		ct := m.Centroid(int(t))
		for _, nb := range adj.Neighbors(t) {
			if _, ok := inComp[nb]; ok {
				continue
			}
			d := float64(ct.Sub(m.Centroid(int(nb))).Len())
			if d < bestDist {
				bestDist = d
				best = assignment[nb]
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	return best
}
