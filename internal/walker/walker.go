// Package walker provides the generic, per-node-function tree-visiting
// helpers spec.md §4.2 calls for: Map, Walk, Fold and
// TraverseWithAccumulator. Every pass in internal/analyzer special-cases the
// node shapes it cares about and falls back to one of these for the rest —
// exactly the way _examples/original_source/traverse.py's single
// `_traverse(f, node)` dispatcher is reused by every pass (symbolize.py,
// type_check.py, security.py) as their "default case".
//
// Because Palisade's AST nodes are mutated in place (see internal/ast's
// doc comment) rather than functionally rebuilt per pass, these helpers
// mutate children in place and return the same node pointer — the
// "rebuilding" spec.md describes is satisfied by each node's fields already
// pointing at the (possibly now-mutated) children.
package walker

import (
	"fmt"

	"github.com/palisade-lang/palisade/internal/ast"
)

// children returns node's direct children in left-to-right, pre-order
// traversal order. This is the one place that needs to know the shape of
// every node variant (spec.md §4.2).
func children(node ast.Node) []ast.Node {
	switch n := node.(type) {
	case *ast.EId, *ast.EInt, *ast.EBool:
		return nil
	case *ast.EArray:
		return []ast.Node{n.Array, n.Index}
	case *ast.EArrayLiteral:
		out := make([]ast.Node, len(n.Values))
		for i, v := range n.Values {
			out[i] = v
		}
		return out
	case *ast.EUnOp:
		return []ast.Node{n.Expr}
	case *ast.EBinOp:
		return []ast.Node{n.LHS, n.RHS}
	case *ast.ECall:
		out := make([]ast.Node, 0, len(n.Args)+1)
		out = append(out, n.Name)
		for _, a := range n.Args {
			out = append(out, a)
		}
		return out
	case *ast.EDeclassify:
		return []ast.Node{n.Expr}
	case *ast.SScope:
		out := make([]ast.Node, len(n.Stmts))
		for i, s := range n.Stmts {
			out[i] = s
		}
		return out
	case *ast.SVarDef:
		return []ast.Node{n.LHS, n.RHS}
	case *ast.SFnDef:
		out := make([]ast.Node, 0, len(n.Params)+2)
		out = append(out, n.Name)
		for _, p := range n.Params {
			out = append(out, p)
		}
		out = append(out, n.Body)
		return out
	case *ast.FnParam:
		return nil
	case *ast.SAssign:
		return []ast.Node{n.LHS, n.RHS}
	case *ast.SIf:
		out := []ast.Node{n.Clause, n.Body}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *ast.SWhile:
		return []ast.Node{n.Clause, n.Body}
	case *ast.STryCatch:
		return []ast.Node{n.Try, n.Catch}
	case *ast.SThrow:
		return nil
	case *ast.SDebug:
		return []ast.Node{n.Expr}
	case *ast.SReturn:
		return []ast.Node{n.Expr}
	case *ast.SGlobal:
		return []ast.Node{n.Expr}
	case *ast.File:
		out := make([]ast.Node, len(n.Stmts))
		for i, s := range n.Stmts {
			out[i] = s
		}
		return out
	default:
		panic(fmt.Sprintf("walker: unhandled node variant %T", node))
	}
}

// Walk visits every direct child of node with f, discarding results
// (spec.md §4.2's walk).
func Walk(f func(ast.Node), node ast.Node) {
	for _, c := range children(node) {
		f(c)
	}
}

// Map applies f to every direct child of node, then returns node with its
// child fields updated to f's results (spec.md §4.2's map). f is expected to
// return a node of the same concrete type it was given, or to call Map again
// on the same node for its default case.
func Map(f func(ast.Node) ast.Node, node ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.EId, *ast.EInt, *ast.EBool, *ast.SThrow:
		return node
	case *ast.EArray:
		n.Array = f(n.Array).(*ast.EId)
		n.Index = f(n.Index).(ast.Expression)
	case *ast.EArrayLiteral:
		for i, v := range n.Values {
			n.Values[i] = f(v).(ast.Expression)
		}
	case *ast.EUnOp:
		n.Expr = f(n.Expr).(ast.Expression)
	case *ast.EBinOp:
		n.LHS = f(n.LHS).(ast.Expression)
		n.RHS = f(n.RHS).(ast.Expression)
	case *ast.ECall:
		n.Name = f(n.Name).(*ast.EId)
		for i, a := range n.Args {
			n.Args[i] = f(a).(ast.Expression)
		}
	case *ast.EDeclassify:
		n.Expr = f(n.Expr).(ast.Expression)
	case *ast.SScope:
		for i, s := range n.Stmts {
			n.Stmts[i] = f(s).(ast.Statement)
		}
	case *ast.SVarDef:
		n.LHS = f(n.LHS).(ast.ELValue)
		n.RHS = f(n.RHS).(ast.Expression)
	case *ast.SFnDef:
		n.Name = f(n.Name).(*ast.EId)
		for i, p := range n.Params {
			n.Params[i] = f(p).(*ast.FnParam)
		}
		n.Body = f(n.Body).(*ast.SScope)
	case *ast.FnParam:
		return node
	case *ast.SAssign:
		n.LHS = f(n.LHS).(ast.ELValue)
		n.RHS = f(n.RHS).(ast.Expression)
	case *ast.SIf:
		n.Clause = f(n.Clause).(ast.Expression)
		n.Body = f(n.Body).(*ast.SScope)
		if n.Else != nil {
			n.Else = f(n.Else).(*ast.SScope)
		}
	case *ast.SWhile:
		n.Clause = f(n.Clause).(ast.Expression)
		n.Body = f(n.Body).(*ast.SScope)
	case *ast.STryCatch:
		n.Try = f(n.Try).(*ast.SScope)
		n.Catch = f(n.Catch).(*ast.SScope)
	case *ast.SDebug:
		n.Expr = f(n.Expr).(ast.Expression)
	case *ast.SReturn:
		n.Expr = f(n.Expr).(ast.Expression)
	case *ast.SGlobal:
		n.Expr = f(n.Expr).(ast.ELValue)
	case *ast.File:
		for i, s := range n.Stmts {
			n.Stmts[i] = f(s).(ast.Statement)
		}
	default:
		panic(fmt.Sprintf("walker: unhandled node variant %T", node))
	}
	return node
}

// Fold threads an accumulator across node's direct children, left to right,
// discarding any rebuilt tree (spec.md §4.2's fold).
func Fold[A any](f func(A, ast.Node) A, acc A, node ast.Node) A {
	for _, c := range children(node) {
		acc = f(acc, c)
	}
	return acc
}

// TraverseWithAccumulator threads an accumulator through node's direct
// children and lets f rebuild each child, returning both the (mutated) node
// and the final accumulator (spec.md §4.2's traverse).
func TraverseWithAccumulator[A any](f func(ast.Node, A) (ast.Node, A), node ast.Node, acc A) (ast.Node, A) {
	var c ast.Node
	switch n := node.(type) {
	case *ast.EId, *ast.EInt, *ast.EBool, *ast.SThrow, *ast.FnParam:
		// no children
	case *ast.EArray:
		c, acc = f(n.Array, acc)
		n.Array = c.(*ast.EId)
		c, acc = f(n.Index, acc)
		n.Index = c.(ast.Expression)
	case *ast.EArrayLiteral:
		for i, v := range n.Values {
			c, acc = f(v, acc)
			n.Values[i] = c.(ast.Expression)
		}
	case *ast.EUnOp:
		c, acc = f(n.Expr, acc)
		n.Expr = c.(ast.Expression)
	case *ast.EBinOp:
		c, acc = f(n.LHS, acc)
		n.LHS = c.(ast.Expression)
		c, acc = f(n.RHS, acc)
		n.RHS = c.(ast.Expression)
	case *ast.ECall:
		c, acc = f(n.Name, acc)
		n.Name = c.(*ast.EId)
		for i, a := range n.Args {
			c, acc = f(a, acc)
			n.Args[i] = c.(ast.Expression)
		}
	case *ast.EDeclassify:
		c, acc = f(n.Expr, acc)
		n.Expr = c.(ast.Expression)
	case *ast.SScope:
		for i, s := range n.Stmts {
			c, acc = f(s, acc)
			n.Stmts[i] = c.(ast.Statement)
		}
	case *ast.SVarDef:
		c, acc = f(n.LHS, acc)
		n.LHS = c.(ast.ELValue)
		c, acc = f(n.RHS, acc)
		n.RHS = c.(ast.Expression)
	case *ast.SFnDef:
		c, acc = f(n.Name, acc)
		n.Name = c.(*ast.EId)
		for i, p := range n.Params {
			c, acc = f(p, acc)
			n.Params[i] = c.(*ast.FnParam)
		}
		c, acc = f(n.Body, acc)
		n.Body = c.(*ast.SScope)
	case *ast.SAssign:
		c, acc = f(n.LHS, acc)
		n.LHS = c.(ast.ELValue)
		c, acc = f(n.RHS, acc)
		n.RHS = c.(ast.Expression)
	case *ast.SIf:
		c, acc = f(n.Clause, acc)
		n.Clause = c.(ast.Expression)
		c, acc = f(n.Body, acc)
		n.Body = c.(*ast.SScope)
		if n.Else != nil {
			c, acc = f(n.Else, acc)
			n.Else = c.(*ast.SScope)
		}
	case *ast.SWhile:
		c, acc = f(n.Clause, acc)
		n.Clause = c.(ast.Expression)
		c, acc = f(n.Body, acc)
		n.Body = c.(*ast.SScope)
	case *ast.STryCatch:
		c, acc = f(n.Try, acc)
		n.Try = c.(*ast.SScope)
		c, acc = f(n.Catch, acc)
		n.Catch = c.(*ast.SScope)
	case *ast.SDebug:
		c, acc = f(n.Expr, acc)
		n.Expr = c.(ast.Expression)
	case *ast.SReturn:
		c, acc = f(n.Expr, acc)
		n.Expr = c.(ast.Expression)
	case *ast.SGlobal:
		c, acc = f(n.Expr, acc)
		n.Expr = c.(ast.ELValue)
	case *ast.File:
		for i, s := range n.Stmts {
			c, acc = f(s, acc)
			n.Stmts[i] = c.(ast.Statement)
		}
	default:
		panic(fmt.Sprintf("walker: TraverseWithAccumulator unhandled node variant %T", node))
	}
	return node, acc
}
