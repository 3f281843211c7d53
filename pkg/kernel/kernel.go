// Package kernel defines the abstract geometry kernel interface.
// Implementations (bsp, sdfx) provide solid modeling and boolean
// operations behind this interface, so callers can swap the mesh-based
// BSP engine for the SDF backend without changing anything else.
//
// Placement conventions shared by all backends: Box has its minimum
// corner at the origin; Sphere is centered at the origin; Cylinder runs
// along the Z axis, centered at the origin.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
//
// Primitive dimensions (box extents, radii, heights) must be positive and
// the uniform Scale factor must be positive; backends fail fast on
// violations rather than producing degenerate geometry. Callers exposing
// these operations to untrusted input validate first, as the script
// builtins do.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Sphere(radius float64, segments int) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, k float64) Solid        // uniform, about the origin, k > 0

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
