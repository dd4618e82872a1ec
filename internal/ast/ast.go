// Package ast defines Palisade's abstract syntax tree: the expression and
// statement node families from spec.md §3, each carrying its source Span,
// and — for expressions — a mutable Type and security Label filled in by
// later passes. Grounded on _examples/original_source/lib/ast.py's
// dataclasses; the Go shape (embedded *Base structs, pointer-receiver
// mutation in place of Python's per-pass tree reconstruction) follows the
// teacher's internal/ast/ast_core.go node-as-struct idiom.
package ast

import (
	"github.com/palisade-lang/palisade/internal/symbols"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() token.Span
}

// Expression is a Node that produces a value; every expression carries a
// Type (filled by the type checker) and a security Label (filled by the
// labeller and re-derived by the flow analyzer) — spec.md §3's invariant
// that "every expression has a concrete type" and "secure = join of its
// children" for operators.
type Expression interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
	Label() types.Label
	SetLabel(types.Label)
}

// Statement is a Node with no value.
type Statement interface {
	Node
	stmtNode()
}

// Base holds the fields every node has: its source span.
type Base struct {
	Sp token.Span
}

func (b Base) Span() token.Span { return b.Sp }

// ExprBase holds the fields every expression has beyond its span: the
// inferred Type and the propagated security Label.
type ExprBase struct {
	Base
	Ty  types.Type
	Lbl types.Label
}

func NewExprBase(sp token.Span) ExprBase {
	return ExprBase{Base: Base{Sp: sp}, Ty: types.Unresolved{}, Lbl: types.Invalid}
}

func (e *ExprBase) Type() types.Type       { return e.Ty }
func (e *ExprBase) SetType(t types.Type)   { e.Ty = t }
func (e *ExprBase) Label() types.Label     { return e.Lbl }
func (e *ExprBase) SetLabel(l types.Label) { e.Lbl = l }
func (e *ExprBase) exprNode()              {}

// ELValue marks an expression usable as an assignment target (EId, EArray).
type ELValue interface {
	Expression
	lvalueNode()
}

// --- Expressions ---

// EId is an identifier use; Sym is nil until the symboliser resolves it.
type EId struct {
	ExprBase
	Name string
	Sym  *symbols.Symbol
}

func NewEId(sp token.Span, name string) *EId {
	return &EId{ExprBase: NewExprBase(sp), Name: name}
}
func (*EId) lvalueNode() {}

// EInt is an integer literal.
type EInt struct {
	ExprBase
	Value int64
}

func NewEInt(sp token.Span, v int64) *EInt { return &EInt{ExprBase: NewExprBase(sp), Value: v} }

// EBool is a boolean literal.
type EBool struct {
	ExprBase
	Value bool
}

func NewEBool(sp token.Span, v bool) *EBool { return &EBool{ExprBase: NewExprBase(sp), Value: v} }

// EArray is an array index expression a[i]; Array must be an EId bound to an
// Array-typed symbol.
type EArray struct {
	ExprBase
	Array *EId
	Index Expression
}

func NewEArray(sp token.Span, arr *EId, idx Expression) *EArray {
	return &EArray{ExprBase: NewExprBase(sp), Array: arr, Index: idx}
}
func (*EArray) lvalueNode() {}

// EArrayLiteral is an array literal [e1, ..., en].
type EArrayLiteral struct {
	ExprBase
	Values []Expression
}

func NewEArrayLiteral(sp token.Span, values []Expression) *EArrayLiteral {
	return &EArrayLiteral{ExprBase: NewExprBase(sp), Values: values}
}

// EUnOp is a unary operator application.
type EUnOp struct {
	ExprBase
	Op   token.Type
	Expr Expression
}

func NewEUnOp(sp token.Span, op token.Type, expr Expression) *EUnOp {
	return &EUnOp{ExprBase: NewExprBase(sp), Op: op, Expr: expr}
}

// EBinOp is a binary operator application.
type EBinOp struct {
	ExprBase
	Op  token.Type
	LHS Expression
	RHS Expression
}

func NewEBinOp(sp token.Span, op token.Type, lhs, rhs Expression) *EBinOp {
	return &EBinOp{ExprBase: NewExprBase(sp), Op: op, LHS: lhs, RHS: rhs}
}

// ECall is a function call.
type ECall struct {
	ExprBase
	Name *EId
	Args []Expression
}

func NewECall(sp token.Span, name *EId, args []Expression) *ECall {
	return &ECall{ExprBase: NewExprBase(sp), Name: name, Args: args}
}

// EDeclassify forces its argument's label back to Low; the sole escape hatch
// from the explicit- and implicit-flow checks (spec.md §4.6, §4.7).
type EDeclassify struct {
	ExprBase
	Expr Expression
}

func NewEDeclassify(sp token.Span, expr Expression) *EDeclassify {
	return &EDeclassify{ExprBase: NewExprBase(sp), Expr: expr}
}

// --- Statements ---

// FnParam is a single function parameter: its declared label, type and name.
type FnParam struct {
	Base
	Label types.Label
	Ty    types.Type
	Name  string
	Sym   *symbols.Symbol
}

// SScope is a brace-delimited block with its own symbol table.
type SScope struct {
	Base
	Stmts  []Statement
	Symtab *symbols.Table
}

func (*SScope) stmtNode() {}

// SVarDef is a local declaration `lhs := rhs;` (scalar or array).
type SVarDef struct {
	Base
	LHS ELValue
	RHS Expression
}

func (*SVarDef) stmtNode() {}

// SFnDef is a function declaration. RetLabel is the declared return label
// from `fn name(...) label T { ... }` (spec.md §6); every SReturn in Body
// must flow into it exactly like an SAssign flows into its lhs (spec.md
// §4.6's explicit-flow rule, generalised to return sites).
type SFnDef struct {
	Base
	Name     *EId
	Params   []*FnParam
	RetTy    types.Type
	RetLabel types.Label
	Body     *SScope
}

func (*SFnDef) stmtNode() {}

// SAssign is `lhs = rhs;` to an already-declared scalar or array element.
type SAssign struct {
	Base
	LHS ELValue
	RHS Expression
}

func (*SAssign) stmtNode() {}

// SIf is `if (clause) body [else elseStmt]`.
type SIf struct {
	Base
	Clause Expression
	Body   *SScope
	Else   *SScope
}

func (*SIf) stmtNode() {}

// SWhile is `while (clause) body`.
type SWhile struct {
	Base
	Clause Expression
	Body   *SScope
}

func (*SWhile) stmtNode() {}

// STryCatch is `try { ... } catch { ... }`.
type STryCatch struct {
	Base
	Try   *SScope
	Catch *SScope
}

func (*STryCatch) stmtNode() {}

// SThrow is `throw;`.
type SThrow struct {
	Base
}

func (*SThrow) stmtNode() {}

// SDebug is `debug e;`.
type SDebug struct {
	Base
	Expr Expression
}

func (*SDebug) stmtNode() {}

// SReturn is `return e;`; Label is filled by the flow analyzer with
// join(pc, e.secure) (spec.md §4.7).
type SReturn struct {
	Base
	Expr  Expression
	Label types.Label
}

func (*SReturn) stmtNode() {}

// SGlobal is a single `in { ... }` / `out { ... }` declaration.
type SGlobal struct {
	Base
	Ty        types.Type
	Expr      ELValue
	OrigLabel types.Label
	IsOutput  bool
}

func (*SGlobal) stmtNode() {}

// File is the root node: the program's statements plus its declared I/O
// globals (spec.md §3).
type File struct {
	Base
	Stmts   []Statement
	Symtab  *symbols.Table
	Inputs  []*SGlobal
	Outputs []*SGlobal
}
