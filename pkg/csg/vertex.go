package csg

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a polygon corner: a position plus a shading normal.
// Vertices have value semantics; copying one is a clone.
type Vertex struct {
	Pos    v3.Vec
	Normal v3.Vec
}

// Interpolate returns a new vertex between v and other, with position and
// normal both linearly blended by t. The normal is not renormalized; a
// blended shading normal may be non-unit. t outside [0,1] extrapolates.
func (v Vertex) Interpolate(other Vertex, t float64) Vertex {
	return Vertex{
		Pos:    lerp(v.Pos, other.Pos, t),
		Normal: lerp(v.Normal, other.Normal, t),
	}
}

// flip inverts orientation-specific data, i.e. the shading normal.
// Called when the owning polygon's orientation is reversed.
func (v Vertex) flip() Vertex {
	return Vertex{Pos: v.Pos, Normal: v.Normal.Neg()}
}

func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
