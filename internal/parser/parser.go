// Package parser is Palisade's recursive-descent parser. Grounded on
// _examples/original_source/parser.py's structure (token()/expect()/maybe()/
// consume(), the precedence-climbing parse_expr_prec with its BINOPS and
// PRECTABLE_TYPE ambiguity table), extended past that early revision to the
// full grammar spec.md §6 specifies: function declarations, `in`/`out`
// global blocks, arrays, `try`/`catch`/`throw`/`return`/`debug`, and
// `declassify`.
package parser

import (
	"fmt"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
)

// precedence groups, in the order the ambiguity table references them.
const (
	precArith = iota
	precBitwise
	precShift
	precBoolean
	precComparison
)

type opInfo struct {
	group    int
	priority int
}

var binops = map[token.Type]opInfo{
	token.PLUS:    {precArith, 1},
	token.MINUS:   {precArith, 1},
	token.STAR:    {precArith, 2},
	token.SLASH:   {precArith, 2},
	token.PERCENT: {precArith, 2},

	token.CARET: {precBitwise, 1},
	token.PIPE:  {precBitwise, 1},
	token.AMP:   {precBitwise, 1},

	token.SHL: {precShift, 1},
	token.SHR: {precShift, 1},

	token.OROR:   {precBoolean, 1},
	token.ANDAND: {precBoolean, 1},

	token.LT: {precComparison, 1},
	token.GT: {precComparison, 1},
	token.LE: {precComparison, 1},
	token.GE: {precComparison, 1},
	token.EQ: {precComparison, 1},
	token.NE: {precComparison, 1},
}

var unops = map[token.Type]bool{
	token.MINUS: true, token.PLUS: true, token.BANG: true, token.TILDE: true,
}

// precTable records, for (prevGroup, group) pairs that are NOT the same
// group, whether prevOp binds tighter (true) or looser (false). A pair
// absent from this table is ambiguous and requires parentheses.
var precTable = map[[2]int]bool{
	{precArith, precComparison}:   true,
	{precBitwise, precComparison}: true,
	{precShift, precComparison}:   true,

	{precComparison, precArith}:   false,
	{precComparison, precBitwise}: false,
	{precComparison, precShift}:   false,
}

// Parser consumes a flat token stream and produces a File. Any grammar
// violation is reported through sink, which terminates the process.
type Parser struct {
	tokens []token.Token
	idx    int
	sink   *diagnostics.Sink
}

// New creates a Parser over tokens, reporting syntax errors through sink.
func New(tokens []token.Token, sink *diagnostics.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

func (p *Parser) tok() token.Token {
	if p.idx < len(p.tokens) {
		return p.tokens[p.idx]
	}
	return token.EOFToken
}

func (p *Parser) maybe(types ...token.Type) bool {
	t := p.tok().Type
	for _, ty := range types {
		if t == ty {
			return true
		}
	}
	return false
}

func (p *Parser) consume() token.Token {
	t := p.tok()
	p.idx++
	return t
}

func (p *Parser) expect(types ...token.Type) token.Token {
	t := p.tok()
	if !p.maybe(types...) {
		var s string
		if len(types) > 1 {
			s = fmt.Sprintf("one of %v", types)
		} else {
			s = string(types[0])
		}
		p.sink.Error(fmt.Sprintf("expected %s but got %s", s, t.Type), t.Span)
	}
	p.idx++
	return t
}

// Parse parses the whole token stream into a File: optional `in`/`out`
// global blocks, then statements, per spec.md §6 ("Both blocks must appear
// before other statements").
func (p *Parser) Parse() *ast.File {
	start := p.tok().Span
	var inputs, outputs []*ast.SGlobal
	if p.maybe(token.IN) {
		inputs = p.parseGlobalBlock(false)
	}
	if p.maybe(token.OUT) {
		outputs = p.parseGlobalBlock(true)
	}

	var stmts []ast.Statement
	for !p.maybe(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.tok().Span
	return &ast.File{Base: ast.Base{Sp: token.Merge(start, end)}, Stmts: stmts, Inputs: inputs, Outputs: outputs}
}

func (p *Parser) parseGlobalBlock(isOutput bool) []*ast.SGlobal {
	if isOutput {
		p.expect(token.OUT)
	} else {
		p.expect(token.IN)
	}
	p.expect(token.LBRACE)
	var globals []*ast.SGlobal
	for !p.maybe(token.RBRACE) {
		start := p.tok().Span
		label := p.parseLabel()
		nameTok := p.expect(token.IDENT)
		p.expect(token.COLON)
		ty := p.parseType()
		p.expect(token.SEMI)
		id := ast.NewEId(nameTok.Span, nameTok.Lexeme)
		globals = append(globals, &ast.SGlobal{
			Base: ast.Base{Sp: token.Merge(start, nameTok.Span)}, Ty: ty, Expr: id,
			OrigLabel: label, IsOutput: isOutput,
		})
	}
	p.expect(token.RBRACE)
	return globals
}

func (p *Parser) parseLabel() types.Label {
	t := p.tok()
	switch t.Type {
	case token.HIGH:
		p.consume()
		return types.High
	case token.LOW:
		p.consume()
		return types.Low
	default:
		p.sink.Error(fmt.Sprintf("expected label 'high' or 'low' but got %s", t.Type), t.Span)
		return types.Invalid
	}
}

// parseType parses a base type name ("int" or "bool", lexed as plain
// identifiers — neither is a reserved keyword) with an optional `[n]` array
// suffix.
func (p *Parser) parseType() types.Type {
	nameTok := p.expect(token.IDENT)
	var base types.Type
	switch nameTok.Lexeme {
	case "int":
		base = types.Int{}
	case "bool":
		base = types.Bool{}
	default:
		p.sink.Error(fmt.Sprintf("unknown type %q", nameTok.Lexeme), nameTok.Span)
	}
	if p.maybe(token.LBRACKET) {
		p.consume()
		lenTok := p.expect(token.INTEGER)
		p.expect(token.RBRACKET)
		n := parseDecimal(lenTok.Lexeme)
		base = types.Array{Of: base, Length: n}
	}
	return base
}

// --- expressions ---

func (p *Parser) checkPrecedence(prevOp *token.Token, op token.Token) bool {
	if prevOp == nil {
		return false
	}
	prev, ok1 := binops[prevOp.Type]
	cur, ok2 := binops[op.Type]
	if !ok1 || !ok2 {
		return false
	}
	if prev.group == cur.group {
		return prev.priority >= cur.priority
	}
	if tighter, ok := precTable[[2]int{prev.group, cur.group}]; ok {
		return tighter
	}
	p.sink.Error("ambiguous precedence, use parenthesis", op.Span)
	return false
}

// ParseExpr parses a full expression (exported for tests exercising the
// precedence table directly).
func (p *Parser) ParseExpr() ast.Expression { return p.parseExprPrec(nil) }

func (p *Parser) parseExprPrec(prevOp *token.Token) ast.Expression {
	expr := p.parseTerm()
	for {
		op := p.tok()
		if _, ok := binops[op.Type]; !ok {
			return expr
		}
		if p.checkPrecedence(prevOp, op) {
			return expr
		}
		opTok := p.consume()
		rhs := p.parseExprPrec(&opTok)
		expr = ast.NewEBinOp(token.Merge(expr.Span(), rhs.Span()), opTok.Type, expr, rhs)
	}
}

func (p *Parser) parseTerm() ast.Expression {
	t := p.tok()
	switch {
	case p.maybe(token.IDENT):
		return p.parseIdentTerm()
	case p.maybe(token.INTEGER, token.INTHEX, token.INTOCT, token.INTBIN):
		return p.parseInteger()
	case p.maybe(token.TRUE, token.FALSE):
		return p.parseBoolean()
	case p.maybe(token.LPAREN):
		p.consume()
		expr := p.ParseExpr()
		p.expect(token.RPAREN)
		return expr
	case p.maybe(token.LBRACKET):
		return p.parseArrayLiteral()
	case p.maybe(token.DECLASSIFY):
		tok := p.consume()
		expr := p.parseTerm()
		return ast.NewEDeclassify(token.Merge(tok.Span, expr.Span()), expr)
	case unops[t.Type]:
		op := p.consume()
		expr := p.parseTerm()
		return ast.NewEUnOp(token.Merge(op.Span, expr.Span()), op.Type, expr)
	default:
		p.sink.Error("unexpected token while parsing expression", t.Span)
		return nil
	}
}

// parseIdentTerm parses an identifier use as a plain variable reference, an
// array index `a[i]`, or a function call `f(args)`.
func (p *Parser) parseIdentTerm() ast.Expression {
	idTok := p.expect(token.IDENT)
	id := ast.NewEId(idTok.Span, idTok.Lexeme)
	switch {
	case p.maybe(token.LPAREN):
		p.consume()
		args := p.parseArgs()
		rparen := p.expect(token.RPAREN)
		return ast.NewECall(token.Merge(idTok.Span, rparen.Span), id, args)
	case p.maybe(token.LBRACKET):
		p.consume()
		idx := p.ParseExpr()
		rbrack := p.expect(token.RBRACKET)
		return ast.NewEArray(token.Merge(idTok.Span, rbrack.Span), id, idx)
	default:
		return id
	}
}

func (p *Parser) parseArgs() []ast.Expression {
	var args []ast.Expression
	if p.maybe(token.RPAREN) {
		return args
	}
	args = append(args, p.ParseExpr())
	for p.maybe(token.COMMA) {
		p.consume()
		args = append(args, p.ParseExpr())
	}
	return args
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lbrack := p.expect(token.LBRACKET)
	var values []ast.Expression
	if !p.maybe(token.RBRACKET) {
		values = append(values, p.ParseExpr())
		for p.maybe(token.COMMA) {
			p.consume()
			values = append(values, p.ParseExpr())
		}
	}
	rbrack := p.expect(token.RBRACKET)
	return ast.NewEArrayLiteral(token.Merge(lbrack.Span, rbrack.Span), values)
}

func (p *Parser) parseInteger() ast.Expression {
	tok := p.expect(token.INTEGER, token.INTHEX, token.INTOCT, token.INTBIN)
	var v int64
	switch tok.Type {
	case token.INTHEX:
		v = parseRadix(tok.Lexeme[2:], 16)
	case token.INTOCT:
		v = parseRadix(tok.Lexeme[2:], 8)
	case token.INTBIN:
		v = parseRadix(tok.Lexeme[2:], 2)
	default:
		v = int64(parseDecimal(tok.Lexeme))
	}
	return ast.NewEInt(tok.Span, v)
}

func (p *Parser) parseBoolean() ast.Expression {
	tok := p.expect(token.TRUE, token.FALSE)
	return ast.NewEBool(tok.Span, tok.Type == token.TRUE)
}

func parseDecimal(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func parseRadix(s string, base int64) int64 {
	var n int64
	for _, c := range s {
		var d int64
		switch {
		case c >= '0' && c <= '9':
			d = int64(c - '0')
		case c >= 'a' && c <= 'f':
			d = int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int64(c-'A') + 10
		}
		n = n*base + d
	}
	return n
}

// --- statements ---

func (p *Parser) parseStmt() ast.Statement {
	switch {
	case p.maybe(token.LBRACE):
		return p.parseScope()
	case p.maybe(token.IF):
		return p.parseIf()
	case p.maybe(token.WHILE):
		return p.parseWhile()
	case p.maybe(token.TRY):
		return p.parseTryCatch()
	case p.maybe(token.THROW):
		return p.parseThrow()
	case p.maybe(token.RETURN):
		return p.parseReturn()
	case p.maybe(token.DEBUG):
		return p.parseDebug()
	case p.maybe(token.FN):
		return p.parseFnDef()
	case p.maybe(token.IDENT):
		return p.parseIdentStmt()
	default:
		t := p.tok()
		p.sink.Error("unexpected token while parsing statement", t.Span)
		return nil
	}
}

func (p *Parser) parseScope() *ast.SScope {
	lbrace := p.expect(token.LBRACE)
	var stmts []ast.Statement
	for !p.maybe(token.RBRACE) {
		stmts = append(stmts, p.parseStmt())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.SScope{Base: ast.Base{Sp: token.Merge(lbrace.Span, rbrace.Span)}, Stmts: stmts}
}

// parseIdentStmt disambiguates, after consuming the leading identifier,
// between a scalar declaration (`x := e;`), an array declaration
// (`x[n] := [e1, …];`), a scalar assignment (`x = e;`) and an array element
// assignment (`a[k] = e;`).
func (p *Parser) parseIdentStmt() ast.Statement {
	idTok := p.expect(token.IDENT)
	id := ast.NewEId(idTok.Span, idTok.Lexeme)

	if p.maybe(token.DEFINE) {
		p.consume()
		rhs := p.ParseExpr()
		p.expect(token.SEMI)
		return &ast.SVarDef{Base: ast.Base{Sp: token.Merge(idTok.Span, rhs.Span())}, LHS: id, RHS: rhs}
	}

	if p.maybe(token.LBRACKET) {
		p.consume()
		idxExpr := p.ParseExpr()
		rbrack := p.expect(token.RBRACKET)

		if p.maybe(token.DEFINE) {
			p.consume()
			lengthLit, ok := idxExpr.(*ast.EInt)
			if !ok {
				p.sink.Error("array declaration length must be an integer literal", idxExpr.Span())
			}
			arr := ast.NewEArray(token.Merge(idTok.Span, rbrack.Span), id, lengthLit)
			rhs := p.parseArrayLiteral()
			p.expect(token.SEMI)
			return &ast.SVarDef{Base: ast.Base{Sp: token.Merge(idTok.Span, rhs.Span())}, LHS: arr, RHS: rhs}
		}

		eq := p.expect(token.ASSIGN)
		rhs := p.ParseExpr()
		p.expect(token.SEMI)
		arr := ast.NewEArray(token.Merge(idTok.Span, rbrack.Span), id, idxExpr)
		return &ast.SAssign{Base: ast.Base{Sp: token.Merge(idTok.Span, eq.Span)}, LHS: arr, RHS: rhs}
	}

	p.expect(token.ASSIGN)
	rhs := p.ParseExpr()
	p.expect(token.SEMI)
	return &ast.SAssign{Base: ast.Base{Sp: token.Merge(idTok.Span, rhs.Span())}, LHS: id, RHS: rhs}
}

func (p *Parser) parseIf() ast.Statement {
	start := p.expect(token.IF)
	p.expect(token.LPAREN)
	clause := p.ParseExpr()
	p.expect(token.RPAREN)
	body := p.parseScope()

	var elseStmt *ast.SScope
	if p.maybe(token.ELSE) {
		p.consume()
		elseStmt = p.parseScope()
	}
	end := body.Span()
	if elseStmt != nil {
		end = elseStmt.Span()
	}
	return &ast.SIf{Base: ast.Base{Sp: token.Merge(start.Span, end)}, Clause: clause, Body: body, Else: elseStmt}
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	clause := p.ParseExpr()
	p.expect(token.RPAREN)
	body := p.parseScope()
	return &ast.SWhile{Base: ast.Base{Sp: token.Merge(start.Span, body.Span())}, Clause: clause, Body: body}
}

func (p *Parser) parseTryCatch() ast.Statement {
	start := p.expect(token.TRY)
	tryBlock := p.parseScope()
	p.expect(token.CATCH)
	catchBlock := p.parseScope()
	return &ast.STryCatch{Base: ast.Base{Sp: token.Merge(start.Span, catchBlock.Span())}, Try: tryBlock, Catch: catchBlock}
}

func (p *Parser) parseThrow() ast.Statement {
	start := p.expect(token.THROW)
	semi := p.expect(token.SEMI)
	return &ast.SThrow{Base: ast.Base{Sp: token.Merge(start.Span, semi.Span)}}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.expect(token.RETURN)
	expr := p.ParseExpr()
	p.expect(token.SEMI)
	return &ast.SReturn{Base: ast.Base{Sp: token.Merge(start.Span, expr.Span())}, Expr: expr}
}

func (p *Parser) parseDebug() ast.Statement {
	start := p.expect(token.DEBUG)
	expr := p.ParseExpr()
	p.expect(token.SEMI)
	return &ast.SDebug{Base: ast.Base{Sp: token.Merge(start.Span, expr.Span())}, Expr: expr}
}

func (p *Parser) parseFnDef() ast.Statement {
	start := p.expect(token.FN)
	nameTok := p.expect(token.IDENT)
	name := ast.NewEId(nameTok.Span, nameTok.Lexeme)

	p.expect(token.LPAREN)
	var params []*ast.FnParam
	if !p.maybe(token.RPAREN) {
		params = append(params, p.parseFnParam())
		for p.maybe(token.COMMA) {
			p.consume()
			params = append(params, p.parseFnParam())
		}
	}
	p.expect(token.RPAREN)

	retLabel := p.parseLabel()
	retTy := p.parseType()

	body := p.parseScope()
	return &ast.SFnDef{
		Base: ast.Base{Sp: token.Merge(start.Span, body.Span())},
		Name: name, Params: params, RetTy: retTy, RetLabel: retLabel, Body: body,
	}
}

func (p *Parser) parseFnParam() *ast.FnParam {
	start := p.tok().Span
	label := p.parseLabel()
	nameTok := p.expect(token.IDENT)
	p.expect(token.COLON)
	ty := p.parseType()
	return &ast.FnParam{Base: ast.Base{Sp: token.Merge(start, nameTok.Span)}, Label: label, Ty: ty, Name: nameTok.Lexeme}
}
