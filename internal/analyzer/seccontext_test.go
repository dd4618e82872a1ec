package analyzer_test

import (
	"testing"

	"github.com/palisade-lang/palisade/internal/analyzer"
	"github.com/palisade-lang/palisade/internal/symbols"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
)

func newSym(name string, declLabel types.Label) *symbols.Symbol {
	return symbols.New(name, declLabel, token.Span{})
}

func TestSecurityContextFallsBackToDeclLabel(t *testing.T) {
	ctx := analyzer.NewSecurityContext()
	s := newSym("x", types.High)
	if got := ctx.LabelOfVar(s); got != types.High {
		t.Errorf("an unregistered symbol should fall back to its DeclLabel, got %v", got)
	}
}

func TestSecurityContextRelabelVarOverridesDeclLabel(t *testing.T) {
	ctx := analyzer.NewSecurityContext()
	s := newSym("x", types.Low)
	ctx.RelabelVar(s, types.High)
	if got := ctx.LabelOfVar(s); got != types.High {
		t.Errorf("RelabelVar should override the declaration label, got %v", got)
	}
}

func TestSecurityContextArrayPerElementLabels(t *testing.T) {
	ctx := analyzer.NewSecurityContext()
	s := newSym("a", types.Low)
	ctx.RegisterArray(s, []types.Label{types.Low, types.Low, types.Low})
	ctx.RelabelArrayIndex(s, 1, 3, types.High)

	if got := ctx.LabelOfArrayIndex(s, 0, 3); got != types.Low {
		t.Errorf("element 0 should remain Low, got %v", got)
	}
	if got := ctx.LabelOfArrayIndex(s, 1, 3); got != types.High {
		t.Errorf("element 1 should have been raised to High, got %v", got)
	}
}

func TestSecurityContextCopyIsIndependent(t *testing.T) {
	ctx := analyzer.NewSecurityContext()
	s := newSym("x", types.Low)
	ctx.RelabelVar(s, types.Low)
	cp := ctx.Copy()
	cp.RelabelVar(s, types.High)

	if got := ctx.LabelOfVar(s); got != types.Low {
		t.Errorf("mutating a copy must not affect the original context, got %v", got)
	}
}

func TestSecurityContextMergeJoinsPointwise(t *testing.T) {
	a := analyzer.NewSecurityContext()
	b := analyzer.NewSecurityContext()
	x := newSym("x", types.Low)
	y := newSym("y", types.Low)

	a.RelabelVar(x, types.Low)
	a.RelabelVar(y, types.Low)
	b.RelabelVar(x, types.High)
	b.RelabelVar(y, types.Low)

	a.Merge(b)
	if got := a.LabelOfVar(x); got != types.High {
		t.Errorf("merge should join x's two branch labels to High, got %v", got)
	}
	if got := a.LabelOfVar(y); got != types.Low {
		t.Errorf("merge should keep y Low when both branches agree, got %v", got)
	}
}

func TestSecurityContextMergeFallsBackToDeclLabelForOneSidedBinding(t *testing.T) {
	a := analyzer.NewSecurityContext()
	b := analyzer.NewSecurityContext()
	x := newSym("x", types.High)
	// a never touches x; b relabels it to Low. The merge must fall back to
	// x's DeclLabel (High) on a's side, joining to High.
	b.RelabelVar(x, types.Low)

	a.Merge(b)
	if got := a.LabelOfVar(x); got != types.High {
		t.Errorf("merge with a one-sided binding should fall back to DeclLabel on the missing side, got %v", got)
	}
}

func TestSecurityContextMergeArrays(t *testing.T) {
	a := analyzer.NewSecurityContext()
	b := analyzer.NewSecurityContext()
	arr := newSym("a", types.Low)

	a.RegisterArray(arr, []types.Label{types.Low, types.High})
	b.RegisterArray(arr, []types.Label{types.High, types.Low})

	a.Merge(b)
	labels := a.LabelsOfArray(arr, 2)
	if labels[0] != types.High || labels[1] != types.High {
		t.Errorf("merging arrays should join each element pointwise, got %v", labels)
	}
}
