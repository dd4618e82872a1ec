package walker_test

import (
	"testing"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/walker"
)

func sp() token.Span { return token.Span{} }

func TestWalkVisitsDirectChildren(t *testing.T) {
	lhs := ast.NewEId(sp(), "x")
	rhs := ast.NewEInt(sp(), 1)
	bin := ast.NewEBinOp(sp(), token.PLUS, lhs, rhs)

	var visited []ast.Node
	walker.Walk(func(n ast.Node) { visited = append(visited, n) }, bin)

	if len(visited) != 2 || visited[0] != ast.Node(lhs) || visited[1] != ast.Node(rhs) {
		t.Errorf("Walk over an EBinOp should visit [LHS, RHS] in order, got %v", visited)
	}
}

func TestWalkLeafHasNoChildren(t *testing.T) {
	id := ast.NewEId(sp(), "x")
	called := false
	walker.Walk(func(ast.Node) { called = true }, id)
	if called {
		t.Errorf("Walk over a leaf EId should not invoke f")
	}
}

func TestMapRebuildsSameNodeWithUpdatedChildren(t *testing.T) {
	original := ast.NewEInt(sp(), 1)
	replacement := ast.NewEInt(sp(), 2)
	unop := ast.NewEUnOp(sp(), token.MINUS, original)

	result := walker.Map(func(n ast.Node) ast.Node {
		if n == ast.Node(original) {
			return replacement
		}
		return n
	}, unop)

	got, ok := result.(*ast.EUnOp)
	if !ok {
		t.Fatalf("Map should return the same concrete node type, got %T", result)
	}
	if got != unop {
		t.Errorf("Map should mutate and return the same pointer, not a new node")
	}
	if got.Expr != ast.Expression(replacement) {
		t.Errorf("Map should have replaced the child with what f returned")
	}
}

func TestFoldAccumulatesOverChildren(t *testing.T) {
	values := []ast.Expression{ast.NewEInt(sp(), 1), ast.NewEInt(sp(), 2), ast.NewEInt(sp(), 3)}
	lit := ast.NewEArrayLiteral(sp(), values)

	count := walker.Fold(func(acc int, ast.Node) int { return acc + 1 }, 0, lit)
	if count != 3 {
		t.Errorf("Fold over a 3-element array literal should accumulate 3 visits, got %d", count)
	}
}

func TestTraverseWithAccumulatorThreadsState(t *testing.T) {
	a := ast.NewEInt(sp(), 10)
	b := ast.NewEInt(sp(), 20)
	call := ast.NewECall(sp(), ast.NewEId(sp(), "f"), []ast.Expression{a, b})

	var sum int64
	result, acc := walker.TraverseWithAccumulator(func(n ast.Node, acc int64) (ast.Node, int64) {
		if e, ok := n.(*ast.EInt); ok {
			acc += e.Value
		}
		return n, acc
	}, call, sum)

	if acc != 30 {
		t.Errorf("accumulator should sum the call's argument values, got %d", acc)
	}
	if _, ok := result.(*ast.ECall); !ok {
		t.Errorf("TraverseWithAccumulator should return the same node type, got %T", result)
	}
}

func TestWalkPanicsOnUnknownNodeVariant(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected a panic for an unhandled node variant")
		}
	}()
	walker.Walk(func(ast.Node) {}, unknownNode{})
}

// unknownNode is a Node the walker's children() switch cannot recognize.
type unknownNode struct{}

func (unknownNode) Span() token.Span { return token.Span{} }

func TestSIfWithoutElseHasTwoChildren(t *testing.T) {
	clause := ast.NewEBool(sp(), true)
	body := &ast.SScope{}
	ifStmt := &ast.SIf{Clause: clause, Body: body}

	var count int
	walker.Walk(func(ast.Node) { count++ }, ifStmt)
	if count != 2 {
		t.Errorf("SIf without an else branch should expose 2 children, got %d", count)
	}
}

func TestSIfWithElseHasThreeChildren(t *testing.T) {
	clause := ast.NewEBool(sp(), true)
	body := &ast.SScope{}
	elseBody := &ast.SScope{}
	ifStmt := &ast.SIf{Clause: clause, Body: body, Else: elseBody}

	var count int
	walker.Walk(func(ast.Node) { count++ }, ifStmt)
	if count != 3 {
		t.Errorf("SIf with an else branch should expose 3 children, got %d", count)
	}
}
