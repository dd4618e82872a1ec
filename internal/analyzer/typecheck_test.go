package analyzer_test

import (
	"testing"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/types"
)

func TestTypeCheckInfersScalarDeclType(t *testing.T) {
	file, _, _, _ := typeChecked(t, `x := 1;`)
	def := file.Stmts[0].(*ast.SVarDef)
	if !types.Equal(def.LHS.Type(), types.Int{}) {
		t.Errorf("x := 1 should infer Int, got %v", def.LHS.Type())
	}
}

func TestTypeCheckArrayDeclaration(t *testing.T) {
	file, _, _, _ := typeChecked(t, `a[3] := [1, 2, 3];`)
	def := file.Stmts[0].(*ast.SVarDef)
	arr, ok := def.LHS.(*ast.EArray).Array.Type().(types.Array)
	if !ok {
		t.Fatalf("expected array type for the declared array symbol")
	}
	if arr.Length != 3 || !types.Equal(arr.Of, types.Int{}) {
		t.Errorf("unexpected array type: %v", arr)
	}
}

func TestTypeCheckFnDefRegistersFnType(t *testing.T) {
	file, arena, _, _ := typeChecked(t, `
fn add(low a: int, low b: int) low int {
    return a + b;
}
`)
	fn := file.Stmts[0].(*ast.SFnDef)
	fnTy, ok := fn.Name.Type().(types.Fn)
	if !ok {
		t.Fatalf("expected the function's name to carry an Fn type")
	}
	if len(fnTy.Params) != 2 || !types.Equal(fnTy.Return, types.Int{}) {
		t.Errorf("unexpected fn type: %v", fnTy)
	}
	if arena.Get(fnTy.DefIndex) != fn {
		t.Errorf("arena should resolve DefIndex back to the same SFnDef")
	}
}

func TestTypeCheckCallArityAndArgTypes(t *testing.T) {
	file, _, _, _ := typeChecked(t, `
fn add(low a: int, low b: int) low int {
    return a + b;
}
x := add(1, 2);
`)
	call := file.Stmts[1].(*ast.SVarDef).RHS.(*ast.ECall)
	if !types.Equal(call.Type(), types.Int{}) {
		t.Errorf("call should resolve to the function's return type, got %v", call.Type())
	}
}

func TestTypeCheckComparisonProducesBool(t *testing.T) {
	file, _, _, _ := typeChecked(t, `x := 1 < 2;`)
	def := file.Stmts[0].(*ast.SVarDef)
	if !types.Equal(def.LHS.Type(), types.Bool{}) {
		t.Errorf("a comparison should produce Bool, got %v", def.LHS.Type())
	}
}

func TestTypeCheckBooleanOperators(t *testing.T) {
	file, _, _, _ := typeChecked(t, `x := true && false;`)
	def := file.Stmts[0].(*ast.SVarDef)
	if !types.Equal(def.LHS.Type(), types.Bool{}) {
		t.Errorf("&& of two booleans should produce Bool, got %v", def.LHS.Type())
	}
}

func TestTypeCheckDeclassifyPreservesOperandType(t *testing.T) {
	file, _, _, _ := typeChecked(t, `
in { high s: int; }
x := declassify(s);
`)
	def := file.Stmts[0].(*ast.SVarDef)
	if !types.Equal(def.LHS.Type(), types.Int{}) {
		t.Errorf("declassify(s) should keep s's Int type, got %v", def.LHS.Type())
	}
}

func TestTypeCheckNestedFnDefDoesNotLeakReturnCheckToOuter(t *testing.T) {
	// checkReturns must stop at a nested SFnDef: the inner function's own
	// int-typed return must not be checked against an outer bool-typed one.
	typeChecked(t, `
fn outer() low bool {
    fn inner() low int {
        return 1;
    }
    return true;
}
`)
}
