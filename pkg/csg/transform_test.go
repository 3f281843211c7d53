package csg

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTranslate(t *testing.T) {
	s := cubeSolid(v3.Vec{}, 1, nil)
	moved := s.Translate(v3.Vec{X: 3, Y: -2, Z: 0.5})

	lo, hi := moved.BoundingBox()
	wantLo := v3.Vec{X: 2, Y: -3, Z: -0.5}
	wantHi := v3.Vec{X: 4, Y: -1, Z: 1.5}
	if !vecApprox(lo, wantLo, 1e-12) || !vecApprox(hi, wantHi, 1e-12) {
		t.Errorf("bounds [%+v, %+v], want [%+v, %+v]", lo, hi, wantLo, wantHi)
	}

	// Planes stay consistent with the moved vertices.
	for i, p := range moved.Polygons() {
		for _, v := range p.Vertices {
			if d := p.Plane.Normal.Dot(v.Pos) - p.Plane.W; math.Abs(d) > 1e-9 {
				t.Errorf("polygon %d vertex off its plane by %g", i, d)
			}
		}
	}

	// The original is untouched.
	lo, hi = s.BoundingBox()
	if !vecApprox(lo, v3.Vec{X: -1, Y: -1, Z: -1}, 1e-12) || !vecApprox(hi, v3.Vec{X: 1, Y: 1, Z: 1}, 1e-12) {
		t.Error("Translate mutated the original solid")
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	// An elongated box rotated 90 degrees about Z swaps its X and Y extents.
	s := stretchX(cubeSolid(v3.Vec{}, 1, nil), 2)

	r := s.Rotate(v3.Vec{Z: 90})
	lo, hi := r.BoundingBox()
	if !approxEq(hi.Y-lo.Y, 4, 1e-9) || !approxEq(hi.X-lo.X, 2, 1e-9) {
		t.Errorf("rotated extents x=%g y=%g, want x=2 y=4", hi.X-lo.X, hi.Y-lo.Y)
	}
	if !approxEq(r.Volume(), s.Volume(), 1e-9) {
		t.Errorf("rotation changed volume from %g to %g", s.Volume(), r.Volume())
	}

	// Planes rebuilt from rotated geometry stay consistent.
	for i, p := range r.Polygons() {
		for _, v := range p.Vertices {
			if d := p.Plane.Normal.Dot(v.Pos) - p.Plane.W; math.Abs(d) > 1e-9 {
				t.Errorf("polygon %d vertex off its plane by %g", i, d)
			}
		}
	}
}

func TestRotateOrderIsXThenYThenZ(t *testing.T) {
	// Start with a point solid marker: a thin box along +X. Rotating
	// (90, 0, 90) must first carry +X to +X (X-rotation is a no-op on the
	// axis itself), then Z carries +X to +Y.
	s := cubeSolid(v3.Vec{X: 2}, 0.1, nil)
	r := s.Rotate(v3.Vec{X: 90, Z: 90})

	lo, hi := r.BoundingBox()
	centerY := (lo.Y + hi.Y) / 2
	if !approxEq(centerY, 2, 1e-9) {
		t.Errorf("rotated center y = %g, want 2", centerY)
	}
}

func TestScale(t *testing.T) {
	s := cubeSolid(v3.Vec{}, 1, nil)
	big := s.Scale(3)

	if !approxEq(big.Volume(), 8*27, 1e-6) {
		t.Errorf("scaled volume = %g, want %g", big.Volume(), 8.0*27)
	}
	lo, hi := big.BoundingBox()
	if !vecApprox(lo, v3.Vec{X: -3, Y: -3, Z: -3}, 1e-12) || !vecApprox(hi, v3.Vec{X: 3, Y: 3, Z: 3}, 1e-12) {
		t.Errorf("scaled bounds [%+v, %+v]", lo, hi)
	}
}

func TestVolumeOfUnitCube(t *testing.T) {
	s := cubeSolid(v3.Vec{X: 5, Y: -3, Z: 2}, 0.5, nil)
	if !approxEq(s.Volume(), 1, 1e-12) {
		t.Errorf("volume = %g, want 1", s.Volume())
	}
}

func TestBoundingBoxEmptySolid(t *testing.T) {
	s := FromPolygons(nil)
	lo, hi := s.BoundingBox()
	if lo != (v3.Vec{}) || hi != (v3.Vec{}) {
		t.Errorf("empty bounds [%+v, %+v], want zero vectors", lo, hi)
	}
	if s.Volume() != 0 {
		t.Errorf("empty volume = %g, want 0", s.Volume())
	}
}

func vecApprox(a, b v3.Vec, tol float64) bool {
	return approxEq(a.X, b.X, tol) && approxEq(a.Y, b.Y, tol) && approxEq(a.Z, b.Z, tol)
}

// stretchX scales the solid's X coordinates by k, fixing up planes from the
// stretched geometry. Test-only helper for building non-cubic boxes.
func stretchX(s *Solid, k float64) *Solid {
	out := s.Clone()
	for _, p := range out.polygons {
		for i := range p.Vertices {
			p.Vertices[i].Pos.X *= k
		}
		a, b, c := p.Vertices[0].Pos, p.Vertices[1].Pos, p.Vertices[2].Pos
		p.Plane = PlaneFromPoints(a, b, c)
	}
	return out
}
