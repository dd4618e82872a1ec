// Flow-insensitive security labelling, the bottom-up pass that gives every
// expression a conservative Label before the explicit-flow checker and the
// later path-sensitive flow analyzer refine it (spec.md §4.5). Grounded on
// _examples/original_source/security.py's assign_security_labels, which
// only covers EInt/EBool/EId/EUnOp/EBinOp and the statement shapes of its
// own (incomplete) grammar revision; extended here to EArray, EArrayLiteral,
// ECall and EDeclassify for the node kinds spec.md §3 adds.
package analyzer

import (
	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/types"
	"github.com/palisade-lang/palisade/internal/walker"
)

// Labeller assigns a flow-insensitive Label to every expression in a file.
type Labeller struct{}

// NewLabeller creates a Labeller.
func NewLabeller() *Labeller { return &Labeller{} }

// Run labels every expression reachable from file's top-level statements.
func (lb *Labeller) Run(file *ast.File) {
	for i, stmt := range file.Stmts {
		file.Stmts[i] = lb.node(stmt).(ast.Statement)
	}
}

// node labels n if it is an expression, otherwise recurses into its
// children via walker.Map.
func (lb *Labeller) node(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.EInt:
		v.SetLabel(types.Low)
		return v
	case *ast.EBool:
		v.SetLabel(types.Low)
		return v
	case *ast.EId:
		v.SetLabel(v.Sym.DeclLabel)
		return v
	case *ast.EArray:
		arr := lb.node(v.Array).(*ast.EId)
		idx := lb.node(v.Index).(ast.Expression)
		v.Array, v.Index = arr, idx
		v.SetLabel(types.Join(arr.Label(), idx.Label()))
		return v
	case *ast.EArrayLiteral:
		labels := make([]types.Label, len(v.Values))
		for i, val := range v.Values {
			nv := lb.node(val).(ast.Expression)
			v.Values[i] = nv
			labels[i] = nv.Label()
		}
		v.SetLabel(types.JoinAll(labels))
		return v
	case *ast.EUnOp:
		ne := lb.node(v.Expr).(ast.Expression)
		v.Expr = ne
		v.SetLabel(ne.Label())
		return v
	case *ast.EBinOp:
		nl := lb.node(v.LHS).(ast.Expression)
		nr := lb.node(v.RHS).(ast.Expression)
		v.LHS, v.RHS = nl, nr
		v.SetLabel(types.Join(nl.Label(), nr.Label()))
		return v
	case *ast.ECall:
		nn := lb.node(v.Name).(*ast.EId)
		v.Name = nn
		labels := make([]types.Label, 0, len(v.Args)+1)
		labels = append(labels, nn.Label())
		for i, a := range v.Args {
			na := lb.node(a).(ast.Expression)
			v.Args[i] = na
			labels = append(labels, na.Label())
		}
		v.SetLabel(types.JoinAll(labels))
		return v
	case *ast.EDeclassify:
		ne := lb.node(v.Expr).(ast.Expression)
		v.Expr = ne
		v.SetLabel(types.Low)
		return v
	default:
		return walker.Map(func(c ast.Node) ast.Node { return lb.node(c) }, n)
	}
}
