// Symbolizer binds every EId to its declaration, grounded on
// _examples/original_source/symbolize.py's pre/post traversal shape (here
// split into explicit, spec-ordered recursion per spec.md §4.3 rather than
// the source's pre-callback-registers-before-children shape, since spec.md
// §4.3 requires the right-hand side of a declaration to be symbolised
// *before* the name is registered, so `x := x + 1;` cannot see its own `x`).
package analyzer

import (
	"fmt"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/symbols"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
	"github.com/palisade-lang/palisade/internal/walker"
)

// Symbolizer runs the symbolisation pass over a parsed File.
type Symbolizer struct {
	sink *diagnostics.Sink
}

// NewSymbolizer creates a Symbolizer reporting through sink.
func NewSymbolizer(sink *diagnostics.Sink) *Symbolizer {
	return &Symbolizer{sink: sink}
}

// Run binds every identifier in file, creating file.Symtab as the root
// scope (spec.md §4.3).
func (sym *Symbolizer) Run(file *ast.File) {
	fileScope := symbols.NewTable(nil)
	file.Symtab = fileScope

	for _, g := range file.Inputs {
		sym.registerGlobal(fileScope, g)
	}
	for _, g := range file.Outputs {
		sym.registerGlobal(fileScope, g)
	}
	for i, stmt := range file.Stmts {
		n, _ := sym.node(stmt, fileScope)
		file.Stmts[i] = n.(ast.Statement)
	}
}

func (sym *Symbolizer) reportRedefinition(name string, span, prevOrigin token.Span) {
	sym.sink.ErrorContinue(fmt.Sprintf("redefinition of %s", name), span)
	sym.sink.Note("previously defined here", prevOrigin)
	sym.sink.Fatal()
}

// registerGlobal binds an `in`/`out` declaration's name in the file scope
// (spec.md §4.3's "SGlobal of x or x[length]: register in the file-level
// scope").
func (sym *Symbolizer) registerGlobal(scope *symbols.Table, g *ast.SGlobal) {
	// The parser always builds SGlobal.Expr as a plain EId, for both scalar
	// and array declarations — g.Ty (a types.Array for `x[n]`) is what
	// distinguishes them, not the Expr's own node kind.
	id, ok := g.Expr.(*ast.EId)
	if !ok {
		panic(fmt.Sprintf("analyzer: unexpected SGlobal.Expr %T", g.Expr))
	}

	s := symbols.New(id.Name, g.OrigLabel, id.Span())
	if !scope.Register(id.Name, s) {
		prev := scope.Lookup(id.Name)
		sym.reportRedefinition(id.Name, id.Span(), prev.Origin)
	}
	id.Sym = s
}

// varDefTarget extracts the declared name and origin span from an SVarDef's
// left-hand side, which is either a plain EId (scalar) or an EArray whose
// Array field names the declared array and whose Index field carries the
// literal length (spec.md §6's `x[n] := [...]`).
func varDefTarget(lhs ast.ELValue) (name string, origin token.Span) {
	switch l := lhs.(type) {
	case *ast.EId:
		return l.Name, l.Span()
	case *ast.EArray:
		return l.Array.Name, l.Array.Span()
	default:
		panic(fmt.Sprintf("analyzer: unexpected SVarDef.LHS %T", lhs))
	}
}

// node dispatches a single symbolisation step, returning the (mutated) node
// and the scope to use for any sibling that shares it.
func (sym *Symbolizer) node(n ast.Node, scope *symbols.Table) (ast.Node, *symbols.Table) {
	switch v := n.(type) {
	case *ast.EId:
		s := scope.Lookup(v.Name)
		if s == nil {
			sym.sink.Error("use of undefined variable", v.Span())
		}
		v.Sym = s
		return v, scope

	case *ast.SScope:
		child := symbols.NewTable(scope)
		v.Symtab = child
		for i, st := range v.Stmts {
			nn, _ := sym.node(st, child)
			v.Stmts[i] = nn.(ast.Statement)
		}
		return v, scope

	case *ast.SVarDef:
		// Symbolise the right-hand side first, so the declared name cannot
		// shadow itself in its own initialiser (spec.md §4.3).
		rhsNode, _ := sym.node(v.RHS, scope)
		v.RHS = rhsNode.(ast.Expression)

		name, origin := varDefTarget(v.LHS)
		s := symbols.New(name, types.High, origin)
		if !scope.Register(name, s) {
			prev := scope.Lookup(name)
			sym.reportRedefinition(name, origin, prev.Origin)
		}

		lhsNode, _ := sym.node(v.LHS, scope)
		v.LHS = lhsNode.(ast.ELValue)
		return v, scope

	case *ast.SFnDef:
		fnSym := symbols.New(v.Name.Name, v.RetLabel, v.Name.Span())
		if !scope.Register(v.Name.Name, fnSym) {
			prev := scope.Lookup(v.Name.Name)
			sym.reportRedefinition(v.Name.Name, v.Name.Span(), prev.Origin)
		}
		v.Name.Sym = fnSym

		bodyScope := symbols.NewTable(scope)
		for _, p := range v.Params {
			psym := symbols.New(p.Name, p.Label, p.Span())
			if !bodyScope.RegisterAllowShadow(p.Name, psym) {
				prev := bodyScope.LookupLocal(p.Name)
				sym.reportRedefinition(p.Name, p.Span(), prev.Origin)
			}
			p.Sym = psym
		}
		v.Body.Symtab = bodyScope
		for i, st := range v.Body.Stmts {
			nn, _ := sym.node(st, bodyScope)
			v.Body.Stmts[i] = nn.(ast.Statement)
		}
		return v, scope

	default:
		return walker.TraverseWithAccumulator(func(child ast.Node, acc *symbols.Table) (ast.Node, *symbols.Table) {
			return sym.node(child, acc)
		}, n, scope)
	}
}
