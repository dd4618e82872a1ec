package types

import (
	"fmt"
	"strings"
)

// Type is the interface every value type in Palisade implements. Grounded on
// the teacher's typesystem.Type interface shape (String() for diagnostics,
// structural Equal() standing in for funxy's unification).
type Type interface {
	String() string
	typeNode()
}

// Unresolved marks a placeholder type before inference has run (spec.md §3).
type Unresolved struct{}

func (Unresolved) String() string { return "<unresolved>" }
func (Unresolved) typeNode()      {}

// Int is the sole integer type.
type Int struct{}

func (Int) String() string { return "int" }
func (Int) typeNode()      {}

// Bool is the sole boolean type.
type Bool struct{}

func (Bool) String() string { return "bool" }
func (Bool) typeNode()      {}

// Array is a compile-time fixed-length homogeneous array type. Arrays compare
// structurally on Of and Length (spec.md §4.4).
type Array struct {
	Of     Type
	Length int
}

func (a Array) String() string { return fmt.Sprintf("%s[%d]", a.Of.String(), a.Length) }
func (Array) typeNode()        {}

// FnDef is an opaque back-reference to the function definition node that
// produced an Fn type. It is deliberately not ast.Node: types cannot import
// ast (ast imports types for its Expression.Type/Label fields), so per
// spec.md §9's suggested design the back-pointer is indirected through a
// small arena that the analyzer owns. The type checker adds the definition
// to the arena and sets DefIndex before it annotates the function body.
type FnDef interface{}

// Fn is a function's type: its return type, parameter types in order, and an
// arena index resolving to the ast.SFnDef that declared it (filled in after
// the body exists, enabling recursive calls to see a complete signature
// before their own body is annotated).
type Fn struct {
	Return   Type
	Params   []Type
	DefIndex int
}

func (f Fn) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) %s", strings.Join(parts, ", "), f.Return.String())
}
func (Fn) typeNode() {}

// Equal reports structural equality between two types (spec.md §4.4: arrays
// compare on Of/Length; functions are compared by signature only, since two
// distinct fn symbols of identical shape are still distinguishable via their
// Symbol, not via Type).
func Equal(a, b Type) bool {
	switch av := a.(type) {
	case Unresolved:
		_, ok := b.(Unresolved)
		return ok
	case Int:
		_, ok := b.(Int)
		return ok
	case Bool:
		_, ok := b.(Bool)
		return ok
	case Array:
		bv, ok := b.(Array)
		return ok && av.Length == bv.Length && Equal(av.Of, bv.Of)
	case Fn:
		bv, ok := b.(Fn)
		if !ok || len(av.Params) != len(bv.Params) || !Equal(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsUnresolved reports whether t is the Unresolved placeholder.
func IsUnresolved(t Type) bool {
	_, ok := t.(Unresolved)
	return ok
}
