// Package shape builds the primitive solids consumed by the csg engine.
// Every factory honors the producer contract: closed meshes of planar (or
// near-planar, for curved surfaces), convex, consistently wound polygon
// loops with outward-facing normals.
package shape

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/carve/pkg/csg"
)

// cubeFaces lists, per face, the corner indices (bit i selects the +X/+Y/+Z
// half via bits 0/1/2) and the outward face normal.
var cubeFaces = [6]struct {
	corners [4]int
	normal  v3.Vec
}{
	{[4]int{0, 4, 6, 2}, v3.Vec{X: -1}},
	{[4]int{1, 3, 7, 5}, v3.Vec{X: 1}},
	{[4]int{0, 1, 5, 4}, v3.Vec{Y: -1}},
	{[4]int{2, 6, 7, 3}, v3.Vec{Y: 1}},
	{[4]int{0, 2, 3, 1}, v3.Vec{Z: -1}},
	{[4]int{4, 5, 7, 6}, v3.Vec{Z: 1}},
}

// Cube returns an axis-aligned cuboid spanning center±radius, one quad per
// face. All six polygons carry tag as their shared tag.
func Cube(center, radius v3.Vec, tag any) (*csg.Solid, error) {
	if radius.X <= 0 || radius.Y <= 0 || radius.Z <= 0 {
		return nil, &csg.GeometryError{
			Op:     "shape.Cube",
			Reason: fmt.Sprintf("radius must be positive on every axis, got %+v", radius),
		}
	}
	polygons := make([]*csg.Polygon, 0, 6)
	for _, face := range cubeFaces {
		vertices := make([]csg.Vertex, 0, 4)
		for _, i := range face.corners {
			pos := v3.Vec{
				X: center.X + radius.X*axisSign(i&1),
				Y: center.Y + radius.Y*axisSign(i&2),
				Z: center.Z + radius.Z*axisSign(i&4),
			}
			vertices = append(vertices, csg.Vertex{Pos: pos, Normal: face.normal})
		}
		polygons = append(polygons, csg.MustPolygon(vertices, tag))
	}
	return csg.FromPolygons(polygons), nil
}

func axisSign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}

// Sphere returns a UV sphere with smooth vertex normals. slices is the
// longitudinal resolution (≥3), stacks the latitudinal (≥2). Quads near
// the poles degenerate to triangles. The quads are slightly non-planar by
// construction; the engine's split tolerance absorbs this.
func Sphere(center v3.Vec, radius float64, slices, stacks int, tag any) (*csg.Solid, error) {
	if radius <= 0 {
		return nil, &csg.GeometryError{
			Op:     "shape.Sphere",
			Reason: fmt.Sprintf("radius must be positive, got %g", radius),
		}
	}
	if slices < 3 || stacks < 2 {
		return nil, &csg.GeometryError{
			Op:     "shape.Sphere",
			Reason: fmt.Sprintf("need at least 3 slices and 2 stacks, got %d/%d", slices, stacks),
		}
	}

	vertex := func(theta, phi float64) csg.Vertex {
		theta *= 2 * math.Pi
		phi *= math.Pi
		dir := v3.Vec{
			X: math.Cos(theta) * math.Sin(phi),
			Y: math.Cos(phi),
			Z: math.Sin(theta) * math.Sin(phi),
		}
		return csg.Vertex{Pos: center.Add(dir.MulScalar(radius)), Normal: dir}
	}

	var polygons []*csg.Polygon
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			var vertices []csg.Vertex
			vertices = append(vertices, vertex(float64(i)/float64(slices), float64(j)/float64(stacks)))
			if j > 0 {
				vertices = append(vertices, vertex(float64(i+1)/float64(slices), float64(j)/float64(stacks)))
			}
			if j < stacks-1 {
				vertices = append(vertices, vertex(float64(i+1)/float64(slices), float64(j+1)/float64(stacks)))
			}
			vertices = append(vertices, vertex(float64(i)/float64(slices), float64(j+1)/float64(stacks)))
			polygons = append(polygons, csg.MustPolygon(vertices, tag))
		}
	}
	return csg.FromPolygons(polygons), nil
}

// Cylinder returns a capped cylinder from start to end. Side normals are
// smooth (radially outward); cap normals are flat along the axis.
func Cylinder(start, end v3.Vec, radius float64, slices int, tag any) (*csg.Solid, error) {
	if radius <= 0 {
		return nil, &csg.GeometryError{
			Op:     "shape.Cylinder",
			Reason: fmt.Sprintf("radius must be positive, got %g", radius),
		}
	}
	if slices < 3 {
		return nil, &csg.GeometryError{
			Op:     "shape.Cylinder",
			Reason: fmt.Sprintf("need at least 3 slices, got %d", slices),
		}
	}
	ray := end.Sub(start)
	if ray.Length() < csg.Epsilon {
		return nil, &csg.GeometryError{
			Op:     "shape.Cylinder",
			Reason: "start and end coincide",
		}
	}

	axisZ := ray.Normalize()
	perp := v3.Vec{X: 1}
	if math.Abs(axisZ.Y) <= 0.5 {
		perp = v3.Vec{Y: 1}
	}
	axisX := perp.Cross(axisZ).Normalize()
	axisY := axisX.Cross(axisZ).Normalize()

	startV := csg.Vertex{Pos: start, Normal: axisZ.Neg()}
	endV := csg.Vertex{Pos: end, Normal: axisZ}

	// point places a rim vertex at the given height fraction (0 or 1) and
	// angle fraction. normalBlend selects the shading normal: -1/+1 for the
	// flat caps, 0 for the smooth side.
	point := func(stack, slice, normalBlend float64) csg.Vertex {
		angle := slice * 2 * math.Pi
		out := axisX.MulScalar(math.Cos(angle)).Add(axisY.MulScalar(math.Sin(angle)))
		pos := start.Add(ray.MulScalar(stack)).Add(out.MulScalar(radius))
		normal := out.MulScalar(1 - math.Abs(normalBlend)).Add(axisZ.MulScalar(normalBlend))
		return csg.Vertex{Pos: pos, Normal: normal}
	}

	var polygons []*csg.Polygon
	for i := 0; i < slices; i++ {
		t0 := float64(i) / float64(slices)
		t1 := float64(i+1) / float64(slices)
		polygons = append(polygons,
			csg.MustPolygon([]csg.Vertex{startV, point(0, t0, -1), point(0, t1, -1)}, tag),
			csg.MustPolygon([]csg.Vertex{point(0, t1, 0), point(0, t0, 0), point(1, t0, 0), point(1, t1, 0)}, tag),
			csg.MustPolygon([]csg.Vertex{endV, point(1, t1, 1), point(1, t0, 1)}, tag),
		)
	}
	return csg.FromPolygons(polygons), nil
}
