package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/rs/zerolog"

	"github.com/chazu/carve/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms carve Lisp source before it reaches zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     avoiding global symbol registration for keyword names.
//  2. ; line comments become // comments, which is what zygomys parses.
//
// Both transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Copy double-quoted string literals untouched.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword". := stays an assignment.
		if b[i] == ':' && i+1 < len(b) && b[i+1] != '=' && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a kernel.Solid so builtins can pass geometry around.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.solid.BoundingBox()
	return fmt.Sprintf("(solid :bounds [%.2f %.2f %.2f]..[%.2f %.2f %.2f])",
		min[0], min[1], min[2], max[0], max[1], max[2])
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a 3D vector literal.
type sexpVec3 struct {
	x, y, z float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.2f %.2f %.2f)", v.x, v.y, v.z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// floatArg reads an optional numeric keyword argument, falling back to
// def when absent.
func (a kwArgs) floatArg(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// intArg reads an optional integer keyword argument.
func (a kwArgs) intArg(name string, def int) (int, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	n, ok := v.(*zygo.SexpInt)
	if !ok {
		return 0, fmt.Errorf("%s: expected integer, got %T (%s)", name, v, v.SexpString(nil))
	}
	return int(n.Val), nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel.Solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts the components of a sexpVec3.
func toVec3(s zygo.Sexp) (x, y, z float64, err error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.x, v.y, v.z, nil
	}
	return 0, 0, 0, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// solidArgs extracts at least two solids from a positional argument list,
// for the boolean operation builtins.
func solidArgs(op string, args []zygo.Sexp) ([]kernel.Solid, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(args))
	}
	solids := make([]kernel.Solid, len(args))
	for i, a := range args {
		s, err := toSolid(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", op, i+1, err)
		}
		solids[i] = s
	}
	return solids, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// newSandbox creates a sandboxed zygomys environment with the carve
// builtins installed, bound to a fresh Scene. Sandbox mode prevents user
// code from reaching the filesystem or syscalls.
func newSandbox(k kernel.Kernel, log zerolog.Logger) (*zygo.Zlisp, *Scene) {
	env := zygo.NewZlispSandbox()
	scene := &Scene{}
	registerBuiltins(env, k, scene, log)
	return env, scene
}

// registerBuiltins installs the carve DSL builtins into a zygomys
// environment. The builtins construct geometry on k and record emitted
// solids on scene.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens become recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, scene *Scene, log zerolog.Logger) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i+1, err)
			}
			c[i] = f
		}
		return &sexpVec3{x: c[0], y: c[1], z: c[2]}, nil
	})

	// -----------------------------------------------------------------------
	// (cube :x 40 :y 20 :z 10) — min corner at the origin
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		x, err := pa.floatArg("x", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		y, err := pa.floatArg("y", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		z, err := pa.floatArg("z", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		if x <= 0 || y <= 0 || z <= 0 {
			return zygo.SexpNull, fmt.Errorf("cube: dimensions must be positive, got %g %g %g", x, y, z)
		}
		return &sexpSolid{solid: k.Box(x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 1.3 :segments 16) — centered at the origin
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		radius, err := pa.floatArg("radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		segments, err := pa.intArg("segments", 16)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("sphere: radius must be positive, got %g", radius)
		}
		return &sexpSolid{solid: k.Sphere(radius, segments)}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 10 :radius 2 :segments 32) — Z axis, centered
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		height, err := pa.floatArg("height", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		radius, err := pa.floatArg("radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		segments, err := pa.intArg("segments", 32)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if height <= 0 || radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height and radius must be positive, got %g/%g", height, radius)
		}
		return &sexpSolid{solid: k.Cylinder(height, radius, segments)}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...) / (difference a b ...) / (intersection a b ...)
	//
	// All three fold left over two or more solids.
	// -----------------------------------------------------------------------
	booleans := map[string]func(a, b kernel.Solid) kernel.Solid{
		"union":        k.Union,
		"difference":   k.Difference,
		"intersection": k.Intersection,
	}
	for opName, op := range booleans {
		env.AddFunction(opName, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			solids, err := solidArgs(name, args)
			if err != nil {
				return zygo.SexpNull, err
			}
			acc := solids[0]
			for _, s := range solids[1:] {
				acc = op(acc, s)
			}
			return &sexpSolid{solid: acc}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate s :by (vec3 10 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid argument")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("translate requires :by (vec3 ...)")
		}
		x, y, z, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: by: %w", err)
		}
		return &sexpSolid{solid: k.Translate(s, x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (rotate s :by (vec3 0 0 90)) — Euler angles in degrees
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid argument")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		v, ok := pa.kw["by"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("rotate requires :by (vec3 ...)")
		}
		x, y, z, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: by: %w", err)
		}
		return &sexpSolid{solid: k.Rotate(s, x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (scale s 2) — uniform scaling about the origin
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a solid and a factor, got %d arguments", len(args))
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		factor, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: factor: %w", err)
		}
		if factor <= 0 {
			return zygo.SexpNull, fmt.Errorf("scale: factor must be positive, got %g", factor)
		}
		return &sexpSolid{solid: k.Scale(s, factor)}, nil
	})

	// -----------------------------------------------------------------------
	// (emit "name" s) — register a scene output; returns s for chaining
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("emit requires a name and a solid, got %d arguments", len(args))
		}
		solidName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: name: %w", err)
		}
		if solidName == "" {
			return zygo.SexpNull, fmt.Errorf("emit: name must not be empty")
		}
		s, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		scene.Solids = append(scene.Solids, NamedSolid{Name: solidName, Solid: s})
		log.Debug().Str("name", solidName).Msg("solid emitted")
		return args[1], nil
	})
}
