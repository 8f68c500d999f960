package pattern

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/google/uuid"
)

// Panel is one connected patch of mesh surface destined to become a flat
// pattern piece.
//
// TriangleIndices holds flattened index triples in mesh triangle order.
// VertexIndices is the sorted, deduplicated set of vertex ids those
// triples reference; flattening aligns its 2D points with this order.
// Panels are immutable once assembled.
type Panel struct {
	ID              uuid.UUID
	VertexIndices   []int32
	TriangleIndices []int32
	Color           color.RGBA
}

// minPanelVertices is the vertex count below which a cluster cannot form
// a usable pattern piece and is silently dropped.
const minPanelVertices = 3

// AssemblePanels converts final cluster labels into Panel values. Only
// clusters with at least one triangle and three distinct vertices are
// emitted; empty and near-empty clusters are dropped without error, since
// clustering legitimately starves clusters on small meshes. Colors come
// from the fixed palette keyed by cluster index. Returns
// ErrSegmentationFailed when nothing usable remains.
func AssemblePanels(m *Mesh, assignment ClusterAssignment, k int) ([]Panel, error) {
	panels := make([]Panel, 0, k)

	for cluster := 0; cluster < k; cluster++ {
		var triangles []int32
		vertexSet := make(map[int32]struct{})

		for t, c := range assignment {
			if c != cluster {
				continue
			}
			a, b, cc := m.Triangle(t)
			triangles = append(triangles, a, b, cc)
			vertexSet[a] = struct{}{}
			vertexSet[b] = struct{}{}
			vertexSet[cc] = struct{}{}
		}

		if len(triangles) == 0 || len(vertexSet) < minPanelVertices {
			continue
		}

		vertices := make([]int32, 0, len(vertexSet))
		for v := range vertexSet {
			vertices = append(vertices, v)
		}
		sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })

		panels = append(panels, Panel{
			ID:              uuid.New(),
			VertexIndices:   vertices,
			TriangleIndices: triangles,
			Color:           panelColor(cluster),
		})
	}

	if len(panels) == 0 {
		return nil, fmt.Errorf("%w: %d clusters over %d triangles left nothing usable", ErrSegmentationFailed, k, len(assignment))
	}
	return panels, nil
}

// TriangleCount returns the number of triangles in the panel.
func (p *Panel) TriangleCount() int { return len(p.TriangleIndices) / 3 }
