// Package lexer tokenizes Palisade source text. Grounded line-for-line on
// _examples/original_source/tokenizer.py's state machine (the 'default' /
// 'identifier' / 'integer_0' / 'integer_hex' / 'integer_bin' / 'integer_oct'
// / single-char-operator / 'comment' states), translated from Python's
// string-state dispatch into a Go function-per-state machine, with the
// teacher's internal/lexer goroutine-free, single-pass Tokenize(src) shape.
package lexer

import (
	"strings"
	"unicode"

	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/token"
)

const easyMap = "+-*%^~()[]{};,"

var easyTypes = map[byte]token.Type{
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '%': token.PERCENT,
	'^': token.CARET, '~': token.TILDE, '(': token.LPAREN, ')': token.RPAREN,
	'[': token.LBRACKET, ']': token.RBRACKET, '{': token.LBRACE, '}': token.RBRACE,
	';': token.SEMI, ',': token.COMMA,
}

func isIDStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}
func isIDBody(c byte) bool { return isIDStart(c) || isDigit(c) }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}
func isBinDigit(c byte) bool { return c == '0' || c == '1' }
func isOctDigit(c byte) bool { return c >= '0' && c <= '7' }

// Lexer tokenizes a single source file, reporting lexical errors through
// sink (which terminates on the first one, per spec.md §4.1).
type Lexer struct {
	src  string
	file string
	sink *diagnostics.Sink

	idx  int
	lnum int
	cnum int

	tokStart  int
	tokCStart int
	tokLine   int

	state string

	tokens []token.Token
}

// New creates a Lexer over src, attributing diagnostics to file.
func New(src, file string, sink *diagnostics.Sink) *Lexer {
	return &Lexer{src: src, file: file, sink: sink, state: "default"}
}

func (l *Lexer) getc() (byte, bool) {
	if l.idx < len(l.src) {
		return l.src[l.idx], true
	}
	return 0, false
}

func (l *Lexer) value() string { return l.src[l.tokStart:l.idx] }

func (l *Lexer) advance() {
	l.idx++
	l.cnum++
}

func (l *Lexer) newline() {
	l.advance()
	l.cnum = 0
	l.lnum++
}

func (l *Lexer) span(start, end, line, cstart, cend int) token.Span {
	return token.Span{Src: l.src, File: l.file, Start: start, End: end, Line: line, CStart: cstart, CEnd: cend}
}

func (l *Lexer) tokenStart(state string) {
	l.tokStart = l.idx
	l.tokCStart = l.cnum
	l.tokLine = l.lnum
	l.state = state
}

// tokenEnd finalizes the in-progress token with typ (defaulting to the
// current state name), appends it, and resets to 'default'.
func (l *Lexer) tokenEnd(typ token.Type) token.Token {
	sp := l.span(l.tokStart, l.idx, l.tokLine, l.tokCStart, l.cnum)
	tok := token.Token{Type: typ, Lexeme: l.src[l.tokStart:l.idx], Span: sp}
	l.tokens = append(l.tokens, tok)
	l.state = "default"
	return tok
}

func (l *Lexer) tokenOneChar(typ token.Type) {
	sp := l.span(l.idx, l.idx+1, l.lnum, l.cnum, l.cnum+1)
	l.tokens = append(l.tokens, token.Token{Type: typ, Lexeme: l.src[l.idx : l.idx+1], Span: sp})
}

// Tokenize runs the full state machine over src and returns the token
// stream, always terminated with an EOF token (spec.md §4's grammar assumes
// a sentinel end-of-stream token).
func (l *Lexer) Tokenize() []token.Token {
	l.state = "default"
	for {
		c, ok := l.getc()
		if !ok {
			break
		}
		switch l.state {
		case "default":
			l.stepDefault(c)
		case "identifier":
			l.stepIdentifier(c)
		case "integer_0":
			l.stepIntegerZero(c)
		case "integer_hex":
			l.stepIntegerHex(c)
		case "integer_bin":
			l.stepIntegerBin(c)
		case "integer_oct":
			l.stepIntegerOct(c)
		case "integer":
			l.stepInteger(c)
		case "=":
			l.stepEq(c)
		case "<":
			l.stepLt(c)
		case ">":
			l.stepGt(c)
		case "|":
			l.stepPipe(c)
		case "&":
			l.stepAmp(c)
		case "!":
			l.stepBang(c)
		case "/":
			l.stepSlash(c)
		case ":":
			l.stepColon(c)
		case "comment":
			l.stepComment(c)
		default:
			panic("lexer: unreachable state " + l.state)
		}
	}
	l.finishAtEOF()
	eofSpan := l.span(l.idx, l.idx, l.lnum, l.cnum, l.cnum)
	l.tokens = append(l.tokens, token.Token{Type: token.EOF, Lexeme: "", Span: eofSpan})
	return l.tokens
}

// finishAtEOF closes out any token left open when the source ends mid-state
// (the original prototype's loop simply stops, silently dropping a trailing
// identifier/number/operator; we finalize it instead so every byte of
// input produces a token).
func (l *Lexer) finishAtEOF() {
	switch l.state {
	case "default", "comment":
		return
	case "identifier":
		if kw, ok := token.Keywords[l.value()]; ok {
			l.tokenEnd(kw)
		} else {
			l.tokenEnd(token.IDENT)
		}
	case "integer_0":
		l.tokenEnd(token.INTEGER)
	case "integer_hex":
		if l.value() == "0x" {
			tok := l.tokenEnd(token.INTHEX)
			l.sink.Error("empty hex literal", tok.Span)
		}
		l.tokenEnd(token.INTHEX)
	case "integer_bin":
		if l.value() == "0b" {
			tok := l.tokenEnd(token.INTBIN)
			l.sink.Error("empty binary literal", tok.Span)
		}
		l.tokenEnd(token.INTBIN)
	case "integer_oct":
		if l.value() == "0o" {
			tok := l.tokenEnd(token.INTOCT)
			l.sink.Error("empty octal literal", tok.Span)
		}
		l.tokenEnd(token.INTOCT)
	case "integer":
		l.tokenEnd(token.INTEGER)
	case "=":
		l.tokenEnd(token.ASSIGN)
	case "<":
		l.tokenEnd(token.LT)
	case ">":
		l.tokenEnd(token.GT)
	case "|":
		l.tokenEnd(token.PIPE)
	case "&":
		l.tokenEnd(token.AMP)
	case "!":
		l.tokenEnd(token.BANG)
	case "/":
		l.tokenEnd(token.SLASH)
	case ":":
		l.tokenEnd(token.COLON)
	}
}

func (l *Lexer) stepDefault(c byte) {
	switch {
	case c == '\n':
		l.newline()
	case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
		l.advance()
	case isIDStart(c):
		l.tokenStart("identifier")
	case c == '0':
		l.tokenStart("integer_0")
		l.advance()
	case isDigit(c):
		l.tokenStart("integer")
	case c == '=':
		l.tokenStart("=")
		l.advance()
	case c == '<':
		l.tokenStart("<")
		l.advance()
	case c == '>':
		l.tokenStart(">")
		l.advance()
	case c == '|':
		l.tokenStart("|")
		l.advance()
	case c == '&':
		l.tokenStart("&")
		l.advance()
	case c == '!':
		l.tokenStart("!")
		l.advance()
	case c == '/':
		l.tokenStart("/")
		l.advance()
	case c == ':':
		l.tokenStart(":")
		l.advance()
	case strings.IndexByte(easyMap, c) >= 0:
		l.tokenOneChar(easyTypes[c])
		l.advance()
	default:
		sp := l.span(l.idx, l.idx+1, l.lnum, l.cnum, l.cnum+1)
		l.sink.Error("unexpected character '"+string(c)+"'", sp)
	}
}

func (l *Lexer) stepIdentifier(c byte) {
	if isIDBody(c) {
		l.advance()
		return
	}
	if kw, ok := token.Keywords[l.value()]; ok {
		l.tokenEnd(kw)
	} else {
		l.tokenEnd(token.IDENT)
	}
}

func (l *Lexer) stepIntegerZero(c byte) {
	switch c {
	case 'x':
		l.state = "integer_hex"
		l.advance()
	case 'b':
		l.state = "integer_bin"
		l.advance()
	case 'o':
		l.state = "integer_oct"
		l.advance()
	default:
		if isDigit(c) {
			tok := l.tokenEnd(token.INTEGER)
			l.sink.Error("leading zeroes with no prefix are not allowed, use 0o for octal", tok.Span)
			return
		}
		l.tokenEnd(token.INTEGER)
	}
}

func (l *Lexer) stepIntegerHex(c byte) {
	if isHexDigit(c) {
		l.advance()
		return
	}
	if l.value() == "0x" {
		tok := l.tokenEnd(token.INTHEX)
		l.sink.Error("empty hex literal", tok.Span)
		return
	}
	l.tokenEnd(token.INTHEX)
}

func (l *Lexer) stepIntegerBin(c byte) {
	if isBinDigit(c) {
		l.advance()
		return
	}
	if l.value() == "0b" {
		tok := l.tokenEnd(token.INTBIN)
		l.sink.Error("empty binary literal", tok.Span)
		return
	}
	l.tokenEnd(token.INTBIN)
}

func (l *Lexer) stepIntegerOct(c byte) {
	if isOctDigit(c) {
		l.advance()
		return
	}
	if l.value() == "0o" {
		tok := l.tokenEnd(token.INTOCT)
		l.sink.Error("empty octal literal", tok.Span)
		return
	}
	l.tokenEnd(token.INTOCT)
}

func (l *Lexer) stepInteger(c byte) {
	if isDigit(c) {
		l.advance()
		return
	}
	l.tokenEnd(token.INTEGER)
}

func (l *Lexer) stepEq(c byte) {
	if c == '=' {
		l.advance()
		l.tokenEnd(token.EQ)
		return
	}
	l.tokenEnd(token.ASSIGN)
}

func (l *Lexer) stepLt(c byte) {
	switch c {
	case '<':
		l.advance()
		l.tokenEnd(token.SHL)
	case '=':
		l.advance()
		l.tokenEnd(token.LE)
	default:
		l.tokenEnd(token.LT)
	}
}

func (l *Lexer) stepGt(c byte) {
	switch c {
	case '>':
		l.advance()
		l.tokenEnd(token.SHR)
	case '=':
		l.advance()
		l.tokenEnd(token.GE)
	default:
		l.tokenEnd(token.GT)
	}
}

func (l *Lexer) stepPipe(c byte) {
	if c == '|' {
		l.advance()
		l.tokenEnd(token.OROR)
		return
	}
	l.tokenEnd(token.PIPE)
}

func (l *Lexer) stepAmp(c byte) {
	if c == '&' {
		l.advance()
		l.tokenEnd(token.ANDAND)
		return
	}
	l.tokenEnd(token.AMP)
}

func (l *Lexer) stepBang(c byte) {
	if c == '=' {
		l.advance()
		l.tokenEnd(token.NE)
		return
	}
	l.tokenEnd(token.BANG)
}

func (l *Lexer) stepColon(c byte) {
	if c == '=' {
		l.advance()
		l.tokenEnd(token.DEFINE)
		return
	}
	l.tokenEnd(token.COLON)
}

func (l *Lexer) stepSlash(c byte) {
	if c == '/' {
		l.state = "comment"
		l.advance()
		return
	}
	l.tokenEnd(token.SLASH)
}

func (l *Lexer) stepComment(c byte) {
	if c == '\n' {
		l.state = "default"
		return
	}
	l.advance()
}
