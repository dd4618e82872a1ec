// Package types holds Palisade's two data models: the security label lattice
// (Label, join) and the value type system (Type). Grounded on
// _examples/original_source/lib/types.py's SecLabel/Type dataclasses, with
// the Go shape (interface + concrete structs, String() methods) borrowed from
// the teacher's internal/typesystem/types.go.
package types

// Label is an element of the two-point lattice Low ⊑ High, plus a sentinel
// Invalid used only to mark unresolved placeholders (spec.md §3). Invalid
// must never participate in Join on a well-formed tree.
type Label int

const (
	Invalid Label = iota
	Low
	High
)

func (l Label) String() string {
	switch l {
	case Low:
		return "low"
	case High:
		return "high"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LabelFromKeyword converts the lexical "high"/"low" annotation into a Label.
func LabelFromKeyword(kw string) (Label, bool) {
	switch kw {
	case "high":
		return High, true
	case "low":
		return Low, true
	default:
		return Invalid, false
	}
}

// Join computes the least upper bound of a label with zero or more others.
// join() with no arguments is Low; join is associative, commutative and
// idempotent, and is High iff any argument is High (spec.md §3).
func Join(first Label, rest ...Label) Label {
	result := first
	for _, l := range rest {
		if l == Invalid {
			panic("types: Invalid label reached Join on a well-formed tree")
		}
		if l == High {
			result = High
		}
	}
	return result
}

// JoinAll is a convenience wrapper for Join over a slice, defaulting to Low
// for an empty slice (the identity element of join).
func JoinAll(labels []Label) Label {
	if len(labels) == 0 {
		return Low
	}
	return Join(labels[0], labels[1:]...)
}

// LessEq reports whether a ⊑ b in the lattice (Low ⊑ High, and reflexively).
func LessEq(a, b Label) bool {
	if a == Low {
		return true
	}
	return b == High
}
