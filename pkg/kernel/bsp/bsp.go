// Package bsp implements the kernel.Kernel interface on the csg BSP
// engine. This is the reference backend: booleans operate directly on the
// polygon meshes, so primitive tessellation resolution is fixed at
// construction time by the segments parameters.
package bsp

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/carve/pkg/csg"
	"github.com/chazu/carve/pkg/kernel"
	"github.com/chazu/carve/pkg/shape"
	"github.com/chazu/carve/pkg/tessellate"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.Solid = (*bspSolid)(nil)

// bspSolid wraps a csg.Solid to implement kernel.Solid.
type bspSolid struct {
	s *csg.Solid
}

// BoundingBox returns the axis-aligned bounding box.
func (s *bspSolid) BoundingBox() (min, max [3]float64) {
	lo, hi := s.s.BoundingBox()
	return [3]float64{lo.X, lo.Y, lo.Z}, [3]float64{hi.X, hi.Y, hi.Z}
}

// Kernel implements kernel.Kernel using BSP-tree booleans on polygon
// meshes.
type Kernel struct{}

// New returns a new BSP kernel.
func New() *Kernel {
	return &Kernel{}
}

// unwrap extracts the underlying csg.Solid from a kernel.Solid.
func unwrap(s kernel.Solid) *csg.Solid {
	return s.(*bspSolid).s
}

// wrap creates a kernel.Solid from a csg.Solid.
func wrap(s *csg.Solid) kernel.Solid {
	return &bspSolid{s: s}
}

// Box creates a box with the given dimensions and its minimum corner at
// the origin, per the kernel placement convention.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	half := v3.Vec{X: x / 2, Y: y / 2, Z: z / 2}
	s, err := shape.Cube(half, half, nil)
	if err != nil {
		panic(fmt.Sprintf("bsp.Box: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere of the given radius centered at the origin.
// segments controls the longitudinal resolution; latitudinal resolution
// is half of it.
func (k *Kernel) Sphere(radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = 16
	}
	s, err := shape.Sphere(v3.Vec{}, radius, segments, max(2, segments/2), nil)
	if err != nil {
		panic(fmt.Sprintf("bsp.Sphere: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder along the Z axis, centered at the origin.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if segments < 3 {
		segments = 32
	}
	s, err := shape.Cylinder(
		v3.Vec{Z: -height / 2}, v3.Vec{Z: height / 2}, radius, segments, nil)
	if err != nil {
		panic(fmt.Sprintf("bsp.Cylinder: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Union(unwrap(b)))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Subtract(unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(unwrap(a).Intersect(unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Translate(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(unwrap(s).Rotate(v3.Vec{X: x, Y: y, Z: z}))
}

// Scale scales a solid uniformly about the origin. k must be positive,
// per the kernel precondition.
func (k *Kernel) Scale(s kernel.Solid, factor float64) kernel.Solid {
	if factor <= 0 {
		panic(fmt.Sprintf("bsp.Scale: factor must be positive, got %g", factor))
	}
	return wrap(unwrap(s).Scale(factor))
}

// ToMesh converts a solid to a triangle mesh by fan triangulation. No
// sampling is involved; the mesh is exact for the stored polygons.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return tessellate.Mesh(unwrap(s)), nil
}
