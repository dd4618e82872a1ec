package symbols_test

import (
	"testing"

	"github.com/palisade-lang/palisade/internal/symbols"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
)

func TestNewMintsDistinctIdentity(t *testing.T) {
	a := symbols.New("x", types.Low, token.Span{})
	b := symbols.New("x", types.Low, token.Span{})
	if a.ID == b.ID {
		t.Errorf("two symbols of the same name should never share an ID")
	}
	if a == b {
		t.Errorf("two symbols of the same name should be distinct pointers")
	}
}

func TestRegisterRejectsReachableName(t *testing.T) {
	root := symbols.NewTable(nil)
	x := symbols.New("x", types.Low, token.Span{})
	if !root.Register("x", x) {
		t.Fatalf("first registration of x should succeed")
	}
	y := symbols.New("x", types.High, token.Span{})
	if root.Register("x", y) {
		t.Errorf("registering x twice in the same scope should fail")
	}
}

func TestRegisterRejectsNameReachableInAncestor(t *testing.T) {
	root := symbols.NewTable(nil)
	root.Register("x", symbols.New("x", types.Low, token.Span{}))
	child := symbols.NewTable(root)
	if child.Register("x", symbols.New("x", types.High, token.Span{})) {
		t.Errorf("registering a name already reachable via an ancestor scope should fail")
	}
}

func TestRegisterAllowShadowPermitsOuterShadowing(t *testing.T) {
	root := symbols.NewTable(nil)
	root.Register("x", symbols.New("x", types.Low, token.Span{}))
	fnScope := symbols.NewTable(root)
	if !fnScope.RegisterAllowShadow("x", symbols.New("x", types.High, token.Span{})) {
		t.Errorf("a parameter should be allowed to shadow an outer name")
	}
}

func TestRegisterAllowShadowRejectsSameScopeDuplicate(t *testing.T) {
	fnScope := symbols.NewTable(nil)
	fnScope.RegisterAllowShadow("x", symbols.New("x", types.Low, token.Span{}))
	if fnScope.RegisterAllowShadow("x", symbols.New("x", types.High, token.Span{})) {
		t.Errorf("two parameters of the same name in one scope should be rejected")
	}
}

func TestLookupWalksToAncestor(t *testing.T) {
	root := symbols.NewTable(nil)
	outer := symbols.New("x", types.Low, token.Span{})
	root.Register("x", outer)
	child := symbols.NewTable(root)

	if got := child.Lookup("x"); got != outer {
		t.Errorf("Lookup from a child scope should find a binding in an ancestor")
	}
	if got := child.Lookup("nonexistent"); got != nil {
		t.Errorf("Lookup of an unbound name should return nil, got %v", got)
	}
}

func TestLookupLocalIgnoresAncestors(t *testing.T) {
	root := symbols.NewTable(nil)
	root.Register("x", symbols.New("x", types.Low, token.Span{}))
	child := symbols.NewTable(root)

	if got := child.LookupLocal("x"); got != nil {
		t.Errorf("LookupLocal should not see ancestor bindings, got %v", got)
	}
}

func TestShadowingProducesDistinctSymbols(t *testing.T) {
	root := symbols.NewTable(nil)
	outer := symbols.New("x", types.Low, token.Span{})
	root.Register("x", outer)
	fnScope := symbols.NewTable(root)
	inner := symbols.New("x", types.High, token.Span{})
	fnScope.RegisterAllowShadow("x", inner)

	if fnScope.Lookup("x") != inner {
		t.Errorf("lookup in the shadowing scope should resolve to the inner symbol")
	}
	if root.Lookup("x") != outer {
		t.Errorf("the outer scope's binding must be unaffected by shadowing")
	}
}
