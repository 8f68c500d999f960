package pattern

// Adjacency is the triangle adjacency graph of a mesh: two triangles are
// adjacent when they share an undirected edge (an unordered vertex pair).
//
// Neighbor lists live in one flat slice indexed through per-triangle
// offsets (CSR layout) rather than a map keyed by triangle id. At 100K+
// triangles the flat layout keeps traversal cache-friendly and avoids
// hashing in the flood-fill and smoothing inner loops. The graph is rebuilt
// per segmentation call and never persisted.
type Adjacency struct {
	offsets   []int32 // len = triangle count + 1
	neighbors []int32 // concatenated neighbor lists
}

// BuildAdjacency derives the triangle adjacency graph of m, yielding at
// the usual stride so large meshes stay cancellable mid-build.
func BuildAdjacency(cp *checkpoint, m *Mesh) (*Adjacency, error) {
	n := m.TriangleCount()

	// Pass 1: group triangles by shared edge. A manifold edge belongs to
	// at most 2 triangles, but noisy captures can produce non-manifold
	// edges, so the map holds a slice.
	edges := make(map[uint64][]int32, 3*n/2)
	for t := 0; t < n; t++ {
		if t%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}
		a, b, c := m.Triangle(t)
		edges[packEdge(a, b)] = append(edges[packEdge(a, b)], int32(t))
		edges[packEdge(b, c)] = append(edges[packEdge(b, c)], int32(t))
		edges[packEdge(c, a)] = append(edges[packEdge(c, a)], int32(t))
	}

	// Pass 2: count neighbors per triangle, then fill the CSR arrays.
	counts := make([]int32, n)
	for _, tris := range edges {
		if len(tris) < 2 {
			continue
		}
		for _, ti := range tris {
			counts[ti] += int32(len(tris) - 1)
		}
	}

	adj := &Adjacency{offsets: make([]int32, n+1)}
	for t := 0; t < n; t++ {
		adj.offsets[t+1] = adj.offsets[t] + counts[t]
	}
	adj.neighbors = make([]int32, adj.offsets[n])

	cursor := make([]int32, n)
	copy(cursor, adj.offsets[:n])
	visited := 0
	for _, tris := range edges {
		if visited%yieldEvery == 0 {
			if err := cp.yield(); err != nil {
				return nil, err
			}
		}
		visited++
		if len(tris) < 2 {
			continue
		}
		for _, ti := range tris {
			for _, tj := range tris {
				if ti == tj {
					continue
				}
				adj.neighbors[cursor[ti]] = tj
				cursor[ti]++
			}
		}
	}
	return adj, nil
}

// Neighbors returns the triangles sharing an edge with triangle t. The
// returned slice aliases internal storage and must not be modified.
func (a *Adjacency) Neighbors(t int32) []int32 {
	return a.neighbors[a.offsets[t]:a.offsets[t+1]]
}

// TriangleCount returns the number of triangles in the graph.
func (a *Adjacency) TriangleCount() int { return len(a.offsets) - 1 }
