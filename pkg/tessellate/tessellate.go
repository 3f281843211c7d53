// Package tessellate converts csg polygon soup into triangle meshes.
// Polygons are convex by the engine's data model, so triangulation is a
// simple fan around the first vertex. The tessellator is read-only and
// never mutates the solid.
package tessellate

import (
	"github.com/chazu/carve/pkg/csg"
	"github.com/chazu/carve/pkg/kernel"
)

// Mesh flattens every polygon of the solid into one triangle mesh.
// Vertex positions and shading normals come straight from the csg
// vertices; vertices are not deduplicated across polygons.
func Mesh(s *csg.Solid) *kernel.Mesh {
	return fromPolygons(s.Polygons(), "")
}

// ByTag splits the solid's polygons into one mesh per string-typed shared
// tag, in first-seen order. Polygons with a nil or non-string tag are
// collected into a single unnamed mesh appended last. The opaque tag is
// never otherwise interpreted.
func ByTag(s *csg.Solid) []*kernel.Mesh {
	groups := make(map[string][]*csg.Polygon)
	var order []string
	var untagged []*csg.Polygon

	for _, p := range s.Polygons() {
		name, ok := p.Shared.(string)
		if !ok {
			untagged = append(untagged, p)
			continue
		}
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], p)
	}

	var meshes []*kernel.Mesh
	for _, name := range order {
		meshes = append(meshes, fromPolygons(groups[name], name))
	}
	if len(untagged) > 0 {
		meshes = append(meshes, fromPolygons(untagged, ""))
	}
	return meshes
}

// fromPolygons fan-triangulates each polygon and packs the result into
// the flat-array mesh layout.
func fromPolygons(polygons []*csg.Polygon, name string) *kernel.Mesh {
	mesh := &kernel.Mesh{Name: name}
	for _, p := range polygons {
		base := uint32(mesh.VertexCount())
		for _, v := range p.Vertices {
			mesh.Vertices = append(mesh.Vertices,
				float32(v.Pos.X), float32(v.Pos.Y), float32(v.Pos.Z))
			mesh.Normals = append(mesh.Normals,
				float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z))
		}
		for i := 1; i < len(p.Vertices)-1; i++ {
			mesh.Indices = append(mesh.Indices, base, base+uint32(i), base+uint32(i+1))
		}
	}
	return mesh
}
