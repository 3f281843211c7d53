// Package stl writes kernel meshes in the STL format, binary or ASCII.
// It is a pure consumer of the mesh layout; it never repairs or reorders
// geometry.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/chazu/carve/pkg/kernel"
)

// binaryTriangle is the 50-byte on-disk record of one binary STL facet.
type binaryTriangle struct {
	Normal   [3]float32
	Vertices [3][3]float32
	Attr     uint16
}

// WriteBinary writes the mesh as binary STL: an 80-byte header, a uint32
// triangle count, then 50 bytes per facet, all little-endian.
func WriteBinary(w io.Writer, m *kernel.Mesh) error {
	var header [80]byte
	copy(header[:], "carve "+m.Name)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	count := uint32(m.TriangleCount())
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		rec := binaryTriangle{
			Normal:   faceNormal(a, b, c),
			Vertices: [3][3]float32{a, b, c},
		}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("stl: write facet %d: %w", i, err)
		}
	}
	return nil
}

// WriteASCII writes the mesh as ASCII STL. Larger output than binary;
// useful for inspection and diffing.
func WriteASCII(w io.Writer, m *kernel.Mesh) error {
	bw := bufio.NewWriter(w)
	name := m.Name
	if name == "" {
		name = "carve"
	}
	fmt.Fprintf(bw, "solid %s\n", name)
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		n := faceNormal(a, b, c)
		fmt.Fprintf(bw, "  facet normal %e %e %e\n", n[0], n[1], n[2])
		fmt.Fprintf(bw, "    outer loop\n")
		for _, v := range [3][3]float32{a, b, c} {
			fmt.Fprintf(bw, "      vertex %e %e %e\n", v[0], v[1], v[2])
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: flush: %w", err)
	}
	return nil
}

// faceNormal computes the unit facet normal from the triangle's winding.
// STL facet normals are flat per-face, so the mesh's shading normals are
// not used. A degenerate triangle gets a zero normal, which readers
// accept.
func faceNormal(a, b, c [3]float32) [3]float32 {
	e1 := [3]float64{float64(b[0] - a[0]), float64(b[1] - a[1]), float64(b[2] - a[2])}
	e2 := [3]float64{float64(c[0] - a[0]), float64(c[1] - a[1]), float64(c[2] - a[2])}
	n := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if length < 1e-12 {
		return [3]float32{}
	}
	return [3]float32{
		float32(n[0] / length),
		float32(n[1] / length),
		float32(n[2] / length),
	}
}
