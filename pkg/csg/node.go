package csg

// node is one level of a BSP tree. A node with a nil plane is the empty
// tree: it holds nothing and classifies everything as outside. Otherwise
// the node stores the polygons coplanar with its splitting plane and owns
// optional front and back subtrees.
//
// build, invert and clipTo mutate the tree in place. The node type is
// unexported so this destructive protocol never crosses the package
// boundary: Solid clones polygon lists before seeding a tree, which keeps
// the clone-before-mutate discipline in the API instead of relying on
// caller care.
type node struct {
	plane    *Plane
	front    *node
	back     *node
	polygons []*Polygon
}

// newNode builds a tree from polygons. An empty or nil list produces the
// empty tree.
func newNode(polygons []*Polygon) *node {
	n := &node{}
	if len(polygons) > 0 {
		n.build(polygons)
	}
	return n
}

// build inserts polygons into the tree. The first polygon seeds the
// splitting plane of an empty node; every input (that one included) is
// then partitioned against it. Coplanar polygons land in this node,
// front and back fragments recurse into lazily created subtrees.
//
// First-polygon pivoting makes tree shape depend on input order. That is
// a deliberate trade of worst-case depth for simplicity and deterministic
// output decomposition; a balancing heuristic would change which
// fragments boolean operations produce.
func (n *node) build(polygons []*Polygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		p := polygons[0].Plane
		n.plane = &p
	}
	var frontPolys, backPolys []*Polygon
	for _, poly := range polygons {
		n.plane.Split(poly, &n.polygons, &n.polygons, &frontPolys, &backPolys)
	}
	if len(frontPolys) > 0 {
		if n.front == nil {
			n.front = &node{}
		}
		n.front.build(frontPolys)
	}
	if len(backPolys) > 0 {
		if n.back == nil {
			n.back = &node{}
		}
		n.back.build(backPolys)
	}
}

// invert swaps solid space and empty space in place: every stored polygon
// and the splitting plane flip, and the front and back subtrees trade
// places. This realizes the complement without a second data structure.
func (n *node) invert() {
	for _, p := range n.polygons {
		p.Flip()
	}
	if n.plane != nil {
		n.plane.Flip()
	}
	if n.front != nil {
		n.front.invert()
	}
	if n.back != nil {
		n.back.invert()
	}
	n.front, n.back = n.back, n.front
}

// clipPolygons returns the subset of polygons (split where necessary) that
// lies outside the solid this tree represents. The empty tree clips
// nothing and returns its input unchanged. A missing back subtree means
// everything behind this plane is inside the solid, so those fragments
// are dropped.
func (n *node) clipPolygons(polygons []*Polygon) []*Polygon {
	if n.plane == nil {
		out := make([]*Polygon, len(polygons))
		copy(out, polygons)
		return out
	}
	var frontPolys, backPolys []*Polygon
	for _, poly := range polygons {
		n.plane.Split(poly, &frontPolys, &backPolys, &frontPolys, &backPolys)
	}
	if n.front != nil {
		frontPolys = n.front.clipPolygons(frontPolys)
	}
	if n.back != nil {
		backPolys = n.back.clipPolygons(backPolys)
	} else {
		backPolys = nil
	}
	return append(frontPolys, backPolys...)
}

// clipTo removes every polygon in this tree that is inside other,
// replacing each node's polygon store with its clipped remainder.
func (n *node) clipTo(other *node) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.front != nil {
		n.front.clipTo(other)
	}
	if n.back != nil {
		n.back.clipTo(other)
	}
}

// allPolygons flattens the tree into one polygon list, pre-order: this
// node's polygons, then the front subtree's, then the back subtree's.
// It does not mutate the tree and may be called repeatedly.
func (n *node) allPolygons() []*Polygon {
	polygons := make([]*Polygon, len(n.polygons))
	copy(polygons, n.polygons)
	if n.front != nil {
		polygons = append(polygons, n.front.allPolygons()...)
	}
	if n.back != nil {
		polygons = append(polygons, n.back.allPolygons()...)
	}
	return polygons
}
