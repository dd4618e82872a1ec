// Type annotation and checking, combined into a single recursive pass
// (spec.md §4.4). Grounded on _examples/original_source/type_check.py's
// type_annotate/type_check case tables (type_eunop/type_ebinop's operand
// rules, ECall arity and parameter checking, the SFnDef return-type scan),
// collapsed from the source's two separate tree-rewriting sweeps into one
// pass because Palisade's grammar makes every function signature fully
// explicit (spec.md §6): there is no forward-inference gap that requires
// annotating before checking.
package analyzer

import (
	"fmt"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
	"github.com/palisade-lang/palisade/internal/walker"
)

var booleanOps = map[token.Type]bool{token.OROR: true, token.ANDAND: true}
var comparisonOps = map[token.Type]bool{
	token.LT: true, token.GT: true, token.LE: true, token.GE: true, token.EQ: true, token.NE: true,
}

// TypeChecker runs the type annotation and checking pass.
type TypeChecker struct {
	sink  *diagnostics.Sink
	arena *FnArena
}

// NewTypeChecker creates a TypeChecker reporting through sink and recording
// function definitions in arena for later call-site re-analysis.
func NewTypeChecker(sink *diagnostics.Sink, arena *FnArena) *TypeChecker {
	return &TypeChecker{sink: sink, arena: arena}
}

// Run type-checks every statement of file, including its `in`/`out` globals.
func (tc *TypeChecker) Run(file *ast.File) {
	for _, g := range file.Inputs {
		tc.global(g)
	}
	for _, g := range file.Outputs {
		tc.global(g)
	}
	for _, stmt := range file.Stmts {
		tc.stmt(stmt)
	}
}

func (tc *TypeChecker) global(g *ast.SGlobal) {
	// g.Ty already carries the full declared type, including a resolved
	// types.Array for an `x[n]` global — no separate length literal to
	// type-check, unlike a local array declaration's EArray.Index.
	id, ok := g.Expr.(*ast.EId)
	if !ok {
		panic(fmt.Sprintf("analyzer: unexpected SGlobal.Expr %T", g.Expr))
	}
	id.Sym.Type = g.Ty
	id.SetType(g.Ty)
}

func (tc *TypeChecker) stmt(s ast.Statement) {
	switch v := s.(type) {
	case *ast.SScope:
		for _, st := range v.Stmts {
			tc.stmt(st)
		}
	case *ast.SVarDef:
		tc.varDef(v)
	case *ast.SFnDef:
		tc.fnDef(v)
	case *ast.SAssign:
		tc.expr(v.LHS)
		tc.expr(v.RHS)
		if !types.Equal(v.LHS.Type(), v.RHS.Type()) {
			tc.sink.Error("type mismatch in assignment", v.Span())
		}
	case *ast.SIf:
		tc.expr(v.Clause)
		if !types.Equal(v.Clause.Type(), types.Bool{}) {
			tc.sink.Error("if-statement clause should be a bool", v.Span())
		}
		tc.stmt(v.Body)
		if v.Else != nil {
			tc.stmt(v.Else)
		}
	case *ast.SWhile:
		tc.expr(v.Clause)
		if !types.Equal(v.Clause.Type(), types.Bool{}) {
			tc.sink.Error("while-statement clause should be a bool", v.Span())
		}
		tc.stmt(v.Body)
	case *ast.STryCatch:
		tc.stmt(v.Try)
		tc.stmt(v.Catch)
	case *ast.SThrow:
		// no operands to check
	case *ast.SDebug:
		tc.expr(v.Expr)
	case *ast.SReturn:
		tc.expr(v.Expr)
	default:
		panic(fmt.Sprintf("analyzer: unhandled statement in type check %T", s))
	}
}

// varDef type-checks a local declaration, scalar or array (spec.md §4.4's
// inference rule plus the array-specific size agreement check).
func (tc *TypeChecker) varDef(v *ast.SVarDef) {
	switch lhs := v.LHS.(type) {
	case *ast.EArray:
		lengthLit, ok := lhs.Index.(*ast.EInt)
		if !ok {
			tc.sink.Error("array declaration length must be an integer literal", lhs.Span())
			return
		}
		tc.expr(v.RHS)
		lit, ok := v.RHS.(*ast.EArrayLiteral)
		if !ok {
			tc.sink.Error("array definition requires an array literal", v.Span())
			return
		}
		if len(lit.Values) != int(lengthLit.Value) {
			tc.sink.Error("size mismatch between declared length and literal", v.Span())
		}
		arrTy, ok := lit.Type().(types.Array)
		if !ok {
			tc.sink.Error("array literal did not resolve to an array type", lit.Span())
			return
		}
		declTy := types.Array{Of: arrTy.Of, Length: int(lengthLit.Value)}
		lhs.Array.Sym.Type = declTy
		lhs.Array.SetType(declTy)
		lengthLit.SetType(types.Int{})
		lhs.SetType(arrTy.Of)

	case *ast.EId:
		tc.expr(v.RHS)
		rhsTy := v.RHS.Type()
		if _, isArr := rhsTy.(types.Array); isArr {
			tc.sink.Error("array definition must have size specification", v.Span())
			return
		}
		lhs.Sym.Type = rhsTy
		lhs.SetType(rhsTy)

	default:
		panic(fmt.Sprintf("analyzer: unexpected SVarDef.LHS %T", v.LHS))
	}
}

// fnDef assigns the function's Fn type to its symbol before annotating the
// body, so recursive calls resolve (spec.md §4.4), records the definition
// in the arena for call-site re-analysis (spec.md §9), and scans every
// return statement for return-type agreement (spec.md §9's "unfinished
// SFnDef handler" fix).
func (tc *TypeChecker) fnDef(v *ast.SFnDef) {
	paramTypes := make([]types.Type, len(v.Params))
	for i, p := range v.Params {
		p.Sym.Type = p.Ty
		paramTypes[i] = p.Ty
	}

	idx := tc.arena.Add(v)
	fnTy := types.Fn{Return: v.RetTy, Params: paramTypes, DefIndex: idx}
	v.Name.Sym.Type = fnTy
	v.Name.SetType(fnTy)

	tc.stmt(v.Body)
	tc.checkReturns(v.Body, v.RetTy)
}

// checkReturns walks v's statements (stopping at nested function bodies,
// which check themselves) to verify every SReturn matches retTy.
func (tc *TypeChecker) checkReturns(n ast.Node, retTy types.Type) {
	switch v := n.(type) {
	case *ast.SReturn:
		if !types.Equal(v.Expr.Type(), retTy) {
			tc.sink.Error("type mismatch in return", v.Span())
		}
	case *ast.SFnDef:
		return
	default:
		walker.Walk(func(c ast.Node) { tc.checkReturns(c, retTy) }, n)
	}
}

func (tc *TypeChecker) expr(e ast.Expression) {
	switch v := e.(type) {
	case *ast.EId:
		v.SetType(v.Sym.Type)
	case *ast.EInt:
		v.SetType(types.Int{})
	case *ast.EBool:
		v.SetType(types.Bool{})
	case *ast.EArray:
		tc.expr(v.Array)
		tc.expr(v.Index)
		if !types.Equal(v.Index.Type(), types.Int{}) {
			tc.sink.Error("array index must be an int", v.Index.Span())
		}
		arrTy, ok := v.Array.Type().(types.Array)
		if !ok {
			tc.sink.Error(fmt.Sprintf("%s is not an array", v.Array.Name), v.Span())
			return
		}
		v.SetType(arrTy.Of)
	case *ast.EArrayLiteral:
		for _, val := range v.Values {
			tc.expr(val)
		}
		if len(v.Values) == 0 {
			tc.sink.Error("array literal must not be empty", v.Span())
			return
		}
		elemTy := v.Values[0].Type()
		for _, val := range v.Values[1:] {
			if !types.Equal(val.Type(), elemTy) {
				tc.sink.Error("values of different types in array literal", v.Span())
			}
		}
		v.SetType(types.Array{Of: elemTy, Length: len(v.Values)})
	case *ast.EUnOp:
		tc.expr(v.Expr)
		v.SetType(tc.unopType(v.Op, v.Span(), v.Expr))
	case *ast.EBinOp:
		tc.expr(v.LHS)
		tc.expr(v.RHS)
		v.SetType(tc.binopType(v.Op, v.Span(), v.LHS, v.RHS))
	case *ast.ECall:
		tc.expr(v.Name)
		for _, a := range v.Args {
			tc.expr(a)
		}
		fnTy, ok := v.Name.Type().(types.Fn)
		if !ok {
			tc.sink.Error(fmt.Sprintf("%s is not a function", v.Name.Name), v.Span())
			return
		}
		if len(v.Args) != len(fnTy.Params) {
			tc.sink.Error("function call arity mismatch", v.Span())
			return
		}
		for i, a := range v.Args {
			if !types.Equal(a.Type(), fnTy.Params[i]) {
				tc.sink.Error(fmt.Sprintf("function parameter #%d has invalid type", i+1), a.Span())
			}
		}
		v.SetType(fnTy.Return)
	case *ast.EDeclassify:
		tc.expr(v.Expr)
		v.SetType(v.Expr.Type())
	default:
		panic(fmt.Sprintf("analyzer: unhandled expression in type check %T", e))
	}
}

func (tc *TypeChecker) unopType(op token.Type, span token.Span, expr ast.Expression) types.Type {
	if op == token.BANG {
		if !types.Equal(expr.Type(), types.Bool{}) {
			tc.sink.Error("can only use boolean operators with booleans", span)
		}
		return types.Bool{}
	}
	if !types.Equal(expr.Type(), types.Int{}) {
		tc.sink.Error("can only use integer operators with integers", span)
	}
	return types.Int{}
}

func (tc *TypeChecker) binopType(op token.Type, span token.Span, lhs, rhs ast.Expression) types.Type {
	switch {
	case booleanOps[op]:
		if !types.Equal(lhs.Type(), types.Bool{}) || !types.Equal(rhs.Type(), types.Bool{}) {
			tc.sink.Error("can only use boolean operators with booleans", span)
		}
		return types.Bool{}
	case comparisonOps[op]:
		if !types.Equal(lhs.Type(), types.Int{}) || !types.Equal(rhs.Type(), types.Int{}) {
			tc.sink.Error("type mismatch", span)
		}
		return types.Bool{}
	default:
		if !types.Equal(lhs.Type(), types.Int{}) || !types.Equal(rhs.Type(), types.Int{}) {
			tc.sink.Error("type mismatch", span)
		}
		return types.Int{}
	}
}
