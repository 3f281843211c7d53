package kernel

// Mesh is a triangle mesh suitable for rendering or export.
// All arrays are flat: Vertices holds 3 floats per vertex (x,y,z),
// Normals 3 floats per vertex, Indices 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which scene solid this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangle returns the vertex positions of triangle i as three flat
// [x y z] arrays.
func (m *Mesh) Triangle(i int) (a, b, c [3]float32) {
	read := func(idx uint32) [3]float32 {
		return [3]float32{m.Vertices[idx*3], m.Vertices[idx*3+1], m.Vertices[idx*3+2]}
	}
	return read(m.Indices[i*3]), read(m.Indices[i*3+1]), read(m.Indices[i*3+2])
}
