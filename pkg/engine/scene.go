package engine

import "github.com/chazu/carve/pkg/kernel"

// NamedSolid is one output of a script: a kernel solid registered under a
// user-chosen name by (emit "name" solid).
type NamedSolid struct {
	Name  string
	Solid kernel.Solid
}

// Scene is everything a script emitted, in emission order.
type Scene struct {
	Solids []NamedSolid
}

// Lookup returns the first solid emitted under name, or nil.
func (s *Scene) Lookup(name string) kernel.Solid {
	for _, ns := range s.Solids {
		if ns.Name == name {
			return ns.Solid
		}
	}
	return nil
}
