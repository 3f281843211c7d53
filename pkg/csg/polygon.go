package csg

import "fmt"

// Polygon is a convex, planar loop of at least three vertices, wound
// counter-clockwise when viewed from the front (the side its plane normal
// points at).
//
// Shared is an opaque tag carried verbatim through clone, flip and split.
// Fragments cut from the same polygon keep the same tag, so it can encode
// per-surface identity (material, part name) across boolean operations.
// The kernel never inspects it.
type Polygon struct {
	Vertices []Vertex
	Shared   any
	Plane    Plane
}

// NewPolygon builds a polygon from a vertex loop. It fails with a
// *GeometryError if the loop has fewer than three vertices or its first
// three vertices are collinear (degenerate plane normal). Planarity and
// convexity of the full loop are the producer's responsibility and are
// not checked; violating them produces incorrect geometry, not errors.
func NewPolygon(vertices []Vertex, shared any) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, &GeometryError{
			Op:     "NewPolygon",
			Reason: fmt.Sprintf("need at least 3 vertices, got %d", len(vertices)),
		}
	}
	a, b, c := vertices[0].Pos, vertices[1].Pos, vertices[2].Pos
	if b.Sub(a).Cross(c.Sub(a)).Length() < Epsilon {
		return nil, &GeometryError{
			Op:     "NewPolygon",
			Reason: "degenerate plane normal (first three vertices are collinear)",
		}
	}
	return newPolygon(vertices, shared), nil
}

// MustPolygon is NewPolygon for vertex loops known to be valid, such as
// those emitted by the primitive factories. It panics on error.
func MustPolygon(vertices []Vertex, shared any) *Polygon {
	p, err := NewPolygon(vertices, shared)
	if err != nil {
		panic(err)
	}
	return p
}

// newPolygon is the unchecked constructor used for split fragments, which
// are valid by construction.
func newPolygon(vertices []Vertex, shared any) *Polygon {
	return &Polygon{
		Vertices: vertices,
		Shared:   shared,
		Plane:    PlaneFromPoints(vertices[0].Pos, vertices[1].Pos, vertices[2].Pos),
	}
}

// Clone returns a deep copy sharing nothing with p except the opaque tag.
func (p *Polygon) Clone() *Polygon {
	vertices := make([]Vertex, len(p.Vertices))
	copy(vertices, p.Vertices)
	return &Polygon{Vertices: vertices, Shared: p.Shared, Plane: p.Plane}
}

// Flip reverses the polygon's orientation in place: the vertex order is
// reversed, every shading normal is negated, and the plane is flipped, so
// plane and winding stay consistent.
func (p *Polygon) Flip() {
	for i, j := 0, len(p.Vertices)-1; i < j; i, j = i+1, j-1 {
		p.Vertices[i], p.Vertices[j] = p.Vertices[j], p.Vertices[i]
	}
	for i, v := range p.Vertices {
		p.Vertices[i] = v.flip()
	}
	p.Plane.Flip()
}
