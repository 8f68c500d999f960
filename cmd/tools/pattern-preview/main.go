// Command pattern-preview runs the full segmentation and flattening
// pipeline over a synthetic mesh and renders the resulting 2D pattern
// pieces to an SVG, for eyeballing panel layout and seam quality.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stitchloft/seamline/internal/meshgen"
	"github.com/stitchloft/seamline/pattern"
)

func main() {
	shape := flag.String("shape", "sphere", "synthetic mesh: cube, sphere, or grid")
	panels := flag.Int("panels", 6, "target panel count")
	output := flag.String("o", "pattern.svg", "output SVG path")
	flag.Parse()

	var vertices []mgl32.Vec3
	var indices []int32
	switch *shape {
	case "cube":
		vertices, indices = meshgen.UnitCube()
	case "sphere":
		vertices, indices = meshgen.Sphere(12, 16)
	case "grid":
		vertices, indices = meshgen.Grid(10, 10)
	default:
		log.Fatalf("unknown shape %q", *shape)
	}

	mesh, err := pattern.NewMesh(vertices, indices)
	if err != nil {
		log.Fatalf("mesh: %v", err)
	}

	ctx := context.Background()
	segmented, err := pattern.Segment(ctx, mesh, *panels, pattern.DefaultSegmentationConfig())
	if err != nil {
		log.Fatalf("segment: %v", err)
	}
	log.Printf("%s mesh (%d triangles) segmented into %d panels", *shape, mesh.TriangleCount(), len(segmented))

	flattened, err := pattern.Flatten(ctx, segmented, mesh, pattern.DefaultFlatteningConfig())
	if err != nil {
		log.Fatalf("flatten: %v", err)
	}

	if err := render(segmented, flattened, *output); err != nil {
		log.Fatalf("render: %v", err)
	}
	log.Printf("✓ Created: %s", *output)
}

// render lays the flattened panels out left to right with a small gutter
// and draws each panel's boundary edges in its display color.
func render(panels []pattern.Panel, flat []pattern.FlattenedPanel, path string) error {
	p := plot.New()
	p.Title.Text = "flattened pattern pieces"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	const gutter = 0.5
	offset := 0.0
	for i, fp := range flat {
		shift := offset - float64(fp.Bounds.Min.X())
		for _, e := range fp.Edges {
			a := fp.Points2D[e[0]]
			b := fp.Points2D[e[1]]
			line, err := plotter.NewLine(plotter.XYs{
				{X: float64(a.X()) + shift, Y: float64(a.Y())},
				{X: float64(b.X()) + shift, Y: float64(b.Y())},
			})
			if err != nil {
				return fmt.Errorf("panel %d edge: %w", i, err)
			}
			line.Color = panels[i].Color
			p.Add(line)
		}
		log.Printf("panel %d: %d points, avg edge error %.2f%%, max %.2f%%",
			i, len(fp.Points2D), fp.AvgEdgeError*100, fp.MaxEdgeError*100)
		offset += float64(fp.Bounds.Max.X()-fp.Bounds.Min.X()) + gutter
	}

	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}
