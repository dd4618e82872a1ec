// Package symbols implements Palisade's symbol records and the scoped symbol
// tables that bind identifier uses to declarations. Grounded on
// _examples/original_source/lib/ast.py's Symbol/SymTab dataclasses, with the
// Go shape (exported struct fields, identity via a minted ID rather than
// Python's default-factory counter) following the teacher's
// internal/symbols/symbol_table_core.go.
package symbols

import (
	"github.com/google/uuid"

	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
)

// Symbol is a declaration record: a name, its resolved type (mutated in
// place as inference learns it), an immutable declaration label, the span of
// its origin, and a process-unique identity. Symbols compare by identity,
// never by name — shadowing always produces a distinct Symbol (spec.md §3).
//
// DeclLabel is the label the programmer wrote (or the High default for
// locals whose type is inferred, per spec.md §6); later passes never mutate
// it. Derived, flow-sensitive labels live entirely in the analyzer's
// SecurityContext, not on the Symbol (spec.md §9, "open questions").
type Symbol struct {
	ID        uuid.UUID
	Name      string
	Type      types.Type
	DeclLabel types.Label
	Origin    token.Span
}

// New mints a fresh Symbol with a process-unique identity.
func New(name string, declLabel types.Label, origin token.Span) *Symbol {
	return &Symbol{
		ID:        uuid.New(),
		Name:      name,
		Type:      types.Unresolved{},
		DeclLabel: declLabel,
		Origin:    origin,
	}
}

// Table is a node in the tree of lexical scopes: its own bindings plus a
// pointer to the enclosing scope. Lookup walks to the root; Register fails
// (returns false) if the name is already reachable in this or any enclosing
// scope, per spec.md §4.3's "registration fails if a name is already
// reachable" (the caller turns that into a redefinition diagnostic).
type Table struct {
	Parent  *Table
	Symbols map[string]*Symbol
}

// NewTable creates an empty scope linked to parent (nil for the file scope).
func NewTable(parent *Table) *Table {
	return &Table{Parent: parent, Symbols: make(map[string]*Symbol)}
}

// Lookup walks this table and its ancestors for name, returning nil if
// unbound anywhere in the chain.
func (t *Table) Lookup(name string) *Symbol {
	for tbl := t; tbl != nil; tbl = tbl.Parent {
		if sym, ok := tbl.Symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal looks up name only in this table, ignoring ancestors. Used to
// detect same-scope redefinitions (e.g. parameter shadowing within the same
// function scope) distinctly from legal shadowing across scope boundaries.
func (t *Table) LookupLocal(name string) *Symbol {
	return t.Symbols[name]
}

// Register binds name to sym in this scope. It reports false if name is
// already reachable (this scope or any ancestor) — spec.md §4.3.
func (t *Table) Register(name string, sym *Symbol) bool {
	if t.Lookup(name) != nil {
		return false
	}
	t.Symbols[name] = sym
	return true
}

// RegisterAllowShadow binds name to sym, only failing if name is already
// bound in THIS scope specifically. Used exclusively for function parameter
// registration: spec.md §4.3 carves out "shadowing by parameters over outer
// names is allowed" as an explicit exception to the general reachability
// rule Register enforces, while still rejecting two parameters of the same
// name in one function signature.
func (t *Table) RegisterAllowShadow(name string, sym *Symbol) bool {
	if t.LookupLocal(name) != nil {
		return false
	}
	t.Symbols[name] = sym
	return true
}
