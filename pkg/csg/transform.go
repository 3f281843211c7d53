package csg

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Translate returns a copy of the solid moved by offset.
func (s *Solid) Translate(offset v3.Vec) *Solid {
	out := s.Clone()
	for _, p := range out.polygons {
		for i, v := range p.Vertices {
			p.Vertices[i].Pos = v.Pos.Add(offset)
		}
		p.Plane.W += p.Plane.Normal.Dot(offset)
	}
	return out
}

// Rotate returns a copy of the solid rotated by Euler angles in degrees,
// applied X then Y then Z about the origin. Positions and shading normals
// rotate; each polygon plane is rebuilt from its rotated geometry.
func (s *Solid) Rotate(angles v3.Vec) *Solid {
	m := rotationXYZ(angles)
	out := s.Clone()
	for _, p := range out.polygons {
		for i, v := range p.Vertices {
			p.Vertices[i] = Vertex{Pos: m.apply(v.Pos), Normal: m.apply(v.Normal)}
		}
		n := m.apply(p.Plane.Normal)
		p.Plane = Plane{Normal: n, W: n.Dot(p.Vertices[0].Pos)}
	}
	return out
}

// Scale returns a copy of the solid scaled uniformly about the origin.
// k must be positive: mirror scaling would reverse winding and is not
// supported.
func (s *Solid) Scale(k float64) *Solid {
	out := s.Clone()
	for _, p := range out.polygons {
		for i, v := range p.Vertices {
			p.Vertices[i].Pos = v.Pos.MulScalar(k)
		}
		p.Plane.W *= k
	}
	return out
}

// BoundingBox returns the axis-aligned bounds of all vertices. An empty
// solid yields two zero vectors.
func (s *Solid) BoundingBox() (min, max v3.Vec) {
	if len(s.polygons) == 0 {
		return v3.Vec{}, v3.Vec{}
	}
	min = s.polygons[0].Vertices[0].Pos
	max = min
	for _, p := range s.polygons {
		for _, v := range p.Vertices {
			min = min.Min(v.Pos)
			max = max.Max(v.Pos)
		}
	}
	return min, max
}

// Volume returns the enclosed volume of the solid, computed as the sum of
// signed tetrahedron volumes over a fan triangulation of every polygon.
// The result is only meaningful for closed, consistently wound meshes.
func (s *Solid) Volume() float64 {
	var sum float64
	for _, p := range s.polygons {
		a := p.Vertices[0].Pos
		for i := 1; i < len(p.Vertices)-1; i++ {
			b := p.Vertices[i].Pos
			c := p.Vertices[i+1].Pos
			sum += a.Dot(b.Cross(c))
		}
	}
	return math.Abs(sum / 6)
}

// mat3 is a row-major 3x3 matrix, used only for rotations.
type mat3 [9]float64

func (m mat3) apply(v v3.Vec) v3.Vec {
	return v3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

func (m mat3) mul(o mat3) mat3 {
	var r mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i*3+j] = m[i*3]*o[j] + m[i*3+1]*o[3+j] + m[i*3+2]*o[6+j]
		}
	}
	return r
}

// rotationXYZ builds the combined rotation Rz * Ry * Rx for Euler angles
// in degrees, matching the X-then-Y-then-Z application order.
func rotationXYZ(degrees v3.Vec) mat3 {
	toRad := math.Pi / 180
	sx, cx := math.Sincos(degrees.X * toRad)
	sy, cy := math.Sincos(degrees.Y * toRad)
	sz, cz := math.Sincos(degrees.Z * toRad)
	rx := mat3{1, 0, 0, 0, cx, -sx, 0, sx, cx}
	ry := mat3{cy, 0, sy, 0, 1, 0, -sy, 0, cy}
	rz := mat3{cz, -sz, 0, sz, cz, 0, 0, 0, 1}
	return rz.mul(ry).mul(rx)
}
