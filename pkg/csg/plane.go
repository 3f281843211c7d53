package csg

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the distance tolerance used to decide whether a point lies on
// a plane. Vertices within Epsilon of a plane classify as coplanar.
const Epsilon = 1e-5

// Vertex/polygon classification relative to a plane. The values are bit
// flags so per-vertex types OR together into an overall polygon type:
// a polygon with both front and back vertices ORs to spanning.
const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// Plane is an oriented plane in 3D: the set of points p with
// dot(Normal, p) == W. Normal is unit length. Points on the Normal side
// are "in front".
type Plane struct {
	Normal v3.Vec
	W      float64
}

// PlaneFromPoints derives the plane through three non-collinear points,
// oriented by the right-hand rule over the winding a, b, c.
func PlaneFromPoints(a, b, c v3.Vec) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, W: n.Dot(a)}
}

// Flip reverses the plane's orientation in place.
func (p *Plane) Flip() {
	p.Normal = p.Normal.Neg()
	p.W = -p.W
}

// Split classifies poly against the plane and appends it, or its fragments,
// to the appropriate lists. Whole coplanar polygons go to coplanarFront or
// coplanarBack depending on whether their own plane faces the same way as
// this one; whole front/back polygons pass through unchanged; spanning
// polygons are cut along the plane into a front and a back fragment.
//
// Fragments keep the original polygon's Shared tag. A degenerate fragment
// with fewer than three vertices is discarded on that side only, so apart
// from that case the polygon's covered area is conserved exactly.
func (p Plane) Split(poly *Polygon, coplanarFront, coplanarBack, frontOut, backOut *[]*Polygon) {
	// Classify each vertex; OR the per-vertex types into the polygon type.
	polyType := 0
	types := make([]int, len(poly.Vertices))
	for i, v := range poly.Vertices {
		d := p.Normal.Dot(v.Pos) - p.W
		t := coplanar
		if d < -Epsilon {
			t = back
		} else if d > Epsilon {
			t = front
		}
		polyType |= t
		types[i] = t
	}

	switch polyType {
	case coplanar:
		// Orientation tie-break: a coplanar polygon facing the same way as
		// the splitting plane counts as front. This rule decides which copy
		// of an overlapping coplanar polygon survives a boolean operation.
		if p.Normal.Dot(poly.Plane.Normal) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case front:
		*frontOut = append(*frontOut, poly)
	case back:
		*backOut = append(*backOut, poly)
	case spanning:
		var f, b []Vertex
		for i := range poly.Vertices {
			j := (i + 1) % len(poly.Vertices)
			ti, tj := types[i], types[j]
			vi, vj := poly.Vertices[i], poly.Vertices[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if ti|tj == spanning {
				// The edge vi->vj crosses the plane; emit the crossing
				// point to both sides.
				t := (p.W - p.Normal.Dot(vi.Pos)) / p.Normal.Dot(vj.Pos.Sub(vi.Pos))
				v := vi.Interpolate(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*frontOut = append(*frontOut, newPolygon(f, poly.Shared))
		}
		if len(b) >= 3 {
			*backOut = append(*backOut, newPolygon(b, poly.Shared))
		}
	}
}
