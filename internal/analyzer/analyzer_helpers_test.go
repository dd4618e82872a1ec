package analyzer_test

import (
	"bytes"
	"testing"

	"github.com/palisade-lang/palisade/internal/analyzer"
	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/lexer"
	"github.com/palisade-lang/palisade/internal/parser"
)

// parseFile lexes and parses src, failing the test on any syntax error.
// It does not run any analyzer pass.
func parseFile(t *testing.T, src string) (*ast.File, *diagnostics.Sink, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	sink := diagnostics.New(&buf)
	toks := lexer.New(src, "test.pls", sink).Tokenize()
	file := parser.New(toks, sink).Parse()
	if sink.HadError() {
		t.Fatalf("unexpected parse error: %s", buf.String())
	}
	return file, sink, &buf
}

// symbolized runs the symboliser over src and returns the resulting file,
// failing the test on any diagnostic.
func symbolized(t *testing.T, src string) (*ast.File, *diagnostics.Sink, *bytes.Buffer) {
	t.Helper()
	file, sink, buf := parseFile(t, src)
	analyzer.NewSymbolizer(sink).Run(file)
	if sink.HadError() {
		t.Fatalf("unexpected symbolizer error: %s", buf.String())
	}
	return file, sink, buf
}

// typeChecked runs the symboliser and type checker over src.
func typeChecked(t *testing.T, src string) (*ast.File, *analyzer.FnArena, *diagnostics.Sink, *bytes.Buffer) {
	t.Helper()
	file, sink, buf := symbolized(t, src)
	arena := analyzer.NewFnArena()
	analyzer.NewTypeChecker(sink, arena).Run(file)
	if sink.HadError() {
		t.Fatalf("unexpected type check error: %s", buf.String())
	}
	return file, arena, sink, buf
}

// labelled runs symbolize, type-check and label over src.
func labelled(t *testing.T, src string) (*ast.File, *analyzer.FnArena, *diagnostics.Sink, *bytes.Buffer) {
	t.Helper()
	file, arena, sink, buf := typeChecked(t, src)
	analyzer.NewLabeller().Run(file)
	return file, arena, sink, buf
}

// explicitFlowChecked runs symbolize, type-check, label and the explicit-flow
// checker over src, failing the test if the explicit-flow pass rejects it.
func explicitFlowChecked(t *testing.T, src string) (*ast.File, *analyzer.FnArena, *diagnostics.Sink, *bytes.Buffer) {
	t.Helper()
	file, arena, sink, buf := labelled(t, src)
	analyzer.NewExplicitFlowChecker(sink).Run(file)
	if sink.HadError() {
		t.Fatalf("unexpected explicit-flow error: %s", buf.String())
	}
	return file, arena, sink, buf
}

// flowAnalyzed runs the full five-pass pipeline over src with the given
// strictDeclassify setting, failing the test if any pass rejects it.
func flowAnalyzed(t *testing.T, src string, strictDeclassify bool) (*ast.File, *diagnostics.Sink, *bytes.Buffer) {
	t.Helper()
	file, arena, sink, buf := explicitFlowChecked(t, src)
	analyzer.NewFlowAnalyzer(sink, arena, strictDeclassify).Run(file)
	if sink.HadError() {
		t.Fatalf("unexpected flow analysis error: %s", buf.String())
	}
	return file, sink, buf
}
