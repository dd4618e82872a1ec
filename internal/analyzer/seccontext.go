package analyzer

import (
	"github.com/palisade-lang/palisade/internal/symbols"
	"github.com/palisade-lang/palisade/internal/types"
)

// SecurityContext holds the flow-sensitive labels the flow analyser threads
// through a single function body or the program entry (spec.md §4.7): a
// scalar mapping (ctxvar) and a length-indexed array mapping (ctxarr). It is
// the generalisation of _examples/original_source/flow_analysis.py's
// secmodtbl — a plain dict[Symbol, bool] — to also track per-element array
// labels, which that prototype left as a TODO ("need to keep track which
// index is tainted").
//
// A symbol absent from either map has not yet been written in this context;
// reads fall back to the symbol's static DeclLabel.
type SecurityContext struct {
	ctxvar map[*symbols.Symbol]types.Label
	ctxarr map[*symbols.Symbol][]types.Label
}

// NewSecurityContext creates an empty context.
func NewSecurityContext() *SecurityContext {
	return &SecurityContext{
		ctxvar: make(map[*symbols.Symbol]types.Label),
		ctxarr: make(map[*symbols.Symbol][]types.Label),
	}
}

// LabelOfVar returns sym's current scalar label, falling back to its
// declaration label if the context has not yet registered one.
func (c *SecurityContext) LabelOfVar(sym *symbols.Symbol) types.Label {
	if l, ok := c.ctxvar[sym]; ok {
		return l
	}
	return sym.DeclLabel
}

// LabelsOfArray returns the full per-element label vector for sym, creating
// one uniformly filled with sym's declaration label if none is registered
// yet. length is the array's static length, needed the first time sym is
// seen in this context.
func (c *SecurityContext) LabelsOfArray(sym *symbols.Symbol, length int) []types.Label {
	if ls, ok := c.ctxarr[sym]; ok {
		return ls
	}
	ls := make([]types.Label, length)
	for i := range ls {
		ls[i] = sym.DeclLabel
	}
	return ls
}

// LabelOfArrayIndex returns the label of sym's element at idx, falling back
// to the declaration label when idx is out of range of a registered vector
// or no vector has been registered.
func (c *SecurityContext) LabelOfArrayIndex(sym *symbols.Symbol, idx, length int) types.Label {
	ls := c.LabelsOfArray(sym, length)
	if idx < 0 || idx >= len(ls) {
		return sym.DeclLabel
	}
	return ls[idx]
}

// RegisterVar binds sym's scalar label in this context (spec.md §4.7's
// SVarDef rule).
func (c *SecurityContext) RegisterVar(sym *symbols.Symbol, l types.Label) {
	c.ctxvar[sym] = l
}

// RegisterArray binds sym's full per-element label vector in this context.
func (c *SecurityContext) RegisterArray(sym *symbols.Symbol, labels []types.Label) {
	cp := make([]types.Label, len(labels))
	copy(cp, labels)
	c.ctxarr[sym] = cp
}

// RelabelVar is an alias of RegisterVar used at write sites, kept distinct
// to mirror spec.md §4.7's naming of the context operations.
func (c *SecurityContext) RelabelVar(sym *symbols.Symbol, l types.Label) {
	c.ctxvar[sym] = l
}

// RelabelArray replaces sym's entire label vector (the conservative
// dynamic-index write rule: every element raised to High).
func (c *SecurityContext) RelabelArray(sym *symbols.Symbol, labels []types.Label) {
	c.RegisterArray(sym, labels)
}

// RelabelArrayIndex updates a single element of sym's label vector, reading
// the vector's current state (creating one of size length if absent).
func (c *SecurityContext) RelabelArrayIndex(sym *symbols.Symbol, idx, length int, l types.Label) {
	ls := c.LabelsOfArray(sym, length)
	ls = append([]types.Label(nil), ls...)
	if idx >= 0 && idx < len(ls) {
		ls[idx] = l
	}
	c.ctxarr[sym] = ls
}

// Copy returns a deep copy, used to analyse an `else` or `catch` branch
// without mutating the context the `then`/`try` branch sees (spec.md §4.7's
// SIf rule).
func (c *SecurityContext) Copy() *SecurityContext {
	nc := NewSecurityContext()
	for sym, l := range c.ctxvar {
		nc.ctxvar[sym] = l
	}
	for sym, ls := range c.ctxarr {
		nc.ctxarr[sym] = append([]types.Label(nil), ls...)
	}
	return nc
}

// Merge joins other into c in place: for every symbol bound in either
// context, c's post-merge label is the pointwise join of both sides,
// falling back to the symbol's declaration label on whichever side lacks a
// binding (spec.md §4.7's `merge`, generalising
// flow_analysis.py's join_secmodtbls to arrays).
func (c *SecurityContext) Merge(other *SecurityContext) {
	for sym, l := range c.ctxvar {
		if _, ok := other.ctxvar[sym]; !ok {
			c.ctxvar[sym] = types.Join(l, sym.DeclLabel)
		}
	}
	for sym, ls := range c.ctxarr {
		if _, ok := other.ctxarr[sym]; !ok {
			merged := make([]types.Label, len(ls))
			for i := range ls {
				merged[i] = types.Join(ls[i], sym.DeclLabel)
			}
			c.ctxarr[sym] = merged
		}
	}
	for sym, l := range other.ctxvar {
		cur, ok := c.ctxvar[sym]
		if !ok {
			cur = sym.DeclLabel
		}
		c.ctxvar[sym] = types.Join(cur, l)
	}
	for sym, ls := range other.ctxarr {
		cur := c.LabelsOfArray(sym, len(ls))
		merged := make([]types.Label, len(ls))
		for i := range merged {
			a := sym.DeclLabel
			if i < len(cur) {
				a = cur[i]
			}
			merged[i] = types.Join(a, ls[i])
		}
		c.ctxarr[sym] = merged
	}
}
