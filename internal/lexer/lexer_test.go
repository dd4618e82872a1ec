package lexer_test

import (
	"bytes"
	"testing"

	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/lexer"
	"github.com/palisade-lang/palisade/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *diagnostics.Sink) {
	t.Helper()
	var buf bytes.Buffer
	sink := diagnostics.New(&buf)
	toks := lexer.New(src, "test.pls", sink).Tokenize()
	return toks, sink
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizeKeywordsAndPunctuation(t *testing.T) {
	toks, _ := tokenize(t, "if (x) { y := 1; } else { y := 0; }")
	got := types(toks)
	want := []token.Type{
		token.IF, token.LPAREN, token.IDENT, token.RPAREN, token.LBRACE,
		token.IDENT, token.DEFINE, token.INTEGER, token.SEMI, token.RBRACE,
		token.ELSE, token.LBRACE, token.IDENT, token.DEFINE, token.INTEGER, token.SEMI, token.RBRACE,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeIntegerBases(t *testing.T) {
	toks, _ := tokenize(t, "0x1F 0b101 0o17 42")
	got := types(toks)
	want := []token.Type{token.INTHEX, token.INTBIN, token.INTOCT, token.INTEGER, token.EOF}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	toks, _ := tokenize(t, "<= >= == != && || << >> := =")
	got := types(toks)
	want := []token.Type{
		token.LE, token.GE, token.EQ, token.NE, token.ANDAND, token.OROR,
		token.SHL, token.SHR, token.DEFINE, token.ASSIGN, token.EOF,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeSkipsLineComments(t *testing.T) {
	toks, _ := tokenize(t, "x := 1; // a trailing comment\ny := 2;")
	got := types(toks)
	want := []token.Type{
		token.IDENT, token.DEFINE, token.INTEGER, token.SEMI,
		token.IDENT, token.DEFINE, token.INTEGER, token.SEMI,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v", len(got), len(want), got)
	}
}

func TestTokenizeKeywordVsIdentifier(t *testing.T) {
	toks, _ := tokenize(t, "declassify declassified")
	if toks[0].Type != token.DECLASSIFY {
		t.Errorf("'declassify' should lex as the DECLASSIFY keyword, got %v", toks[0].Type)
	}
	if toks[1].Type != token.IDENT {
		t.Errorf("'declassified' should lex as a plain identifier, not a keyword prefix match, got %v", toks[1].Type)
	}
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks, _ := tokenize(t, "a\nb")
	if toks[0].Span.Line != 0 {
		t.Errorf("first identifier should be on line 0, got %d", toks[0].Span.Line)
	}
	if toks[1].Span.Line != 1 {
		t.Errorf("second identifier should be on line 1 after the newline, got %d", toks[1].Span.Line)
	}
}

func TestFinishAtEOFClosesTrailingToken(t *testing.T) {
	toks, _ := tokenize(t, "x")
	if len(toks) != 2 || toks[0].Type != token.IDENT || toks[1].Type != token.EOF {
		t.Fatalf("a bare trailing identifier should still be tokenized, got %v", types(toks))
	}
}
