package analyzer

import "github.com/palisade-lang/palisade/internal/ast"

// FnArena owns the mapping from a types.Fn's DefIndex back to the
// *ast.SFnDef that declared it. It exists solely to break the import cycle
// between internal/types and internal/ast (spec.md §9's "cyclic reference
// between Fn type and SFnDef"): types cannot import ast, so Fn carries an
// opaque integer index instead of a direct pointer, and the analyzer — which
// already imports both — resolves it.
type FnArena struct {
	defs []*ast.SFnDef
}

// NewFnArena creates an empty arena.
func NewFnArena() *FnArena { return &FnArena{} }

// Add appends def to the arena and returns its index.
func (a *FnArena) Add(def *ast.SFnDef) int {
	a.defs = append(a.defs, def)
	return len(a.defs) - 1
}

// Get resolves an index back to its *ast.SFnDef.
func (a *FnArena) Get(index int) *ast.SFnDef {
	if index < 0 || index >= len(a.defs) {
		return nil
	}
	return a.defs[index]
}
