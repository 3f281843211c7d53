package csg

import "fmt"

// GeometryError reports malformed input geometry: too few vertices, a
// degenerate normal, or parameters that cannot produce a valid solid.
// The kernel fails fast with this error instead of propagating silently
// wrong results.
type GeometryError struct {
	Op     string // which constructor or factory rejected the input
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: %s: %s", e.Op, e.Reason)
}
