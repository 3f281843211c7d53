package csg

// Solid is a closed polygon mesh treated as the boundary of a 3D volume.
// The polygon list is flat; order carries no meaning. Boolean operations
// return new Solids and never mutate their operands.
//
// The mesh is assumed to be a closed 2-manifold with outward-facing,
// consistently wound polygons. This is not validated; see the package
// documentation for the producer contract.
type Solid struct {
	polygons []*Polygon
}

// FromPolygons wraps an already-built polygon list without validation.
// The caller guarantees planarity, winding and closure.
func FromPolygons(polygons []*Polygon) *Solid {
	return &Solid{polygons: polygons}
}

// Polygons returns the solid's polygon list. The slice is fresh on every
// call; the polygons themselves are shared, so treat them as read-only.
func (s *Solid) Polygons() []*Polygon {
	out := make([]*Polygon, len(s.polygons))
	copy(out, s.polygons)
	return out
}

// Clone returns a deep, independent copy of the solid.
func (s *Solid) Clone() *Solid {
	polygons := make([]*Polygon, len(s.polygons))
	for i, p := range s.polygons {
		polygons[i] = p.Clone()
	}
	return &Solid{polygons: polygons}
}

// Union returns a new solid covering space in either s or other.
//
//	A.Union(B)
//
//	+-------+            +-------+
//	|       |            |       |
//	|   A   |            |       |
//	|    +--+----+   =   |       +----+
//	+----+--+    |       +----+       |
//	     |   B   |            |       |
//	     |       |            |       |
//	     +-------+            +-------+
//
// Each tree is clipped against the other, then b is additionally clipped
// inverted so that coplanar polygons contributed by both operands survive
// exactly once (from a's copy).
func (s *Solid) Union(other *Solid) *Solid {
	a := newNode(s.Clone().polygons)
	b := newNode(other.Clone().polygons)
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	return FromPolygons(a.allPolygons())
}

// Subtract returns a new solid covering space in s but not in other,
// via A - B = ~(~A | B).
//
//	A.Subtract(B)
//
//	+-------+            +-------+
//	|       |            |       |
//	|   A   |            |       |
//	|    +--+----+   =   |    +--+
//	+----+--+    |       +----+
//	     |   B   |
//	     |       |
//	     +-------+
func (s *Solid) Subtract(other *Solid) *Solid {
	a := newNode(s.Clone().polygons)
	b := newNode(other.Clone().polygons)
	a.invert()
	a.clipTo(b)
	b.clipTo(a)
	b.invert()
	b.clipTo(a)
	b.invert()
	a.build(b.allPolygons())
	a.invert()
	return FromPolygons(a.allPolygons())
}

// Intersect returns a new solid covering space in both s and other,
// via A & B = ~(~A | ~B).
//
//	A.Intersect(B)
//
//	+-------+
//	|       |
//	|   A   |
//	|    +--+----+   =   +--+
//	+----+--+    |       +--+
//	     |   B   |
//	     |       |
//	     +-------+
func (s *Solid) Intersect(other *Solid) *Solid {
	a := newNode(s.Clone().polygons)
	b := newNode(other.Clone().polygons)
	a.invert()
	b.clipTo(a)
	b.invert()
	a.clipTo(b)
	b.clipTo(a)
	a.build(b.allPolygons())
	a.invert()
	return FromPolygons(a.allPolygons())
}

// Inverse returns a new solid with solid and empty space swapped.
func (s *Solid) Inverse() *Solid {
	out := s.Clone()
	for _, p := range out.polygons {
		p.Flip()
	}
	return out
}
