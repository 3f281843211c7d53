// Package csg implements boolean set operations (union, subtraction,
// intersection) on closed polygon meshes using BSP trees.
// Solids are immutable from the caller's point of view: every boolean
// operation deep-clones its operands before building and mutating the
// intermediate trees, so operands are never modified.
package csg
