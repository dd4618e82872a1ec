package analyzer_test

import (
	"testing"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/types"
)

func TestLabelLiteralsAreLow(t *testing.T) {
	file, _, _, _ := labelled(t, `x := 1; y := true;`)
	intDef := file.Stmts[0].(*ast.SVarDef).RHS.(*ast.EInt)
	boolDef := file.Stmts[1].(*ast.SVarDef).RHS.(*ast.EBool)
	if intDef.Label() != types.Low || boolDef.Label() != types.Low {
		t.Errorf("integer and boolean literals should always label Low")
	}
}

func TestLabelEIdReflectsDeclLabel(t *testing.T) {
	file, _, _, _ := labelled(t, `
in { high s: int; }
x := s;
`)
	use := file.Stmts[0].(*ast.SVarDef).RHS.(*ast.EId)
	if use.Label() != types.High {
		t.Errorf("use of a High-declared global should label High, got %v", use.Label())
	}
}

func TestLabelBinOpJoinsOperands(t *testing.T) {
	file, _, _, _ := labelled(t, `
in { high s: int; }
x := s + 1;
`)
	bin := file.Stmts[0].(*ast.SVarDef).RHS.(*ast.EBinOp)
	if bin.Label() != types.High {
		t.Errorf("join(High, Low) should be High, got %v", bin.Label())
	}
}

func TestLabelArrayIndexJoinsArrayAndIndex(t *testing.T) {
	file, _, _, _ := labelled(t, `
in { high i: int; }
a[2] := [1, 2];
x := a[i];
`)
	use := file.Stmts[1].(*ast.SVarDef).RHS.(*ast.EArray)
	if use.Label() != types.High {
		t.Errorf("a[i] with a High index should label High, got %v", use.Label())
	}
}

func TestLabelDeclassifyIsAlwaysLow(t *testing.T) {
	file, _, _, _ := labelled(t, `
in { high s: int; }
x := declassify(s);
`)
	decl := file.Stmts[0].(*ast.SVarDef).RHS.(*ast.EDeclassify)
	if decl.Label() != types.Low {
		t.Errorf("declassify(s) should always label Low regardless of s's label")
	}
}

func TestLabelCallJoinsNameAndArgs(t *testing.T) {
	file, _, _, _ := labelled(t, `
in { high s: int; }
fn id(low a: int) low int {
    return a;
}
x := id(s);
`)
	call := file.Stmts[1].(*ast.SVarDef).RHS.(*ast.ECall)
	if call.Label() != types.High {
		t.Errorf("a call with a High argument should label High under the flow-insensitive labeller, got %v", call.Label())
	}
}
