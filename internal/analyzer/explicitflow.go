// Explicit-flow checking: the pass that rejects an immediate assignment of
// a High-labelled value into a Low-labelled target (spec.md §4.6). Grounded
// on _examples/original_source/security.py's check_explicit_flows, whose
// SVarDef/SAssign cases are the direct model for checkFlow below; extended
// to SReturn against the enclosing function's declared RetLabel, per
// spec.md §9's note that the explicit-flow rule generalises to return sites
// (ast.SFnDef's RetLabel doc comment).
//
// EDeclassify needs no special case here: the labeller (internal/analyzer's
// Labeller) already forces a declassified expression's Label to Low, so by
// the time this pass runs, `x = declassify(e);` already reads as a
// Low-into-Low flow.
package analyzer

import (
	"fmt"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/token"
	"github.com/palisade-lang/palisade/internal/types"
)

// ExplicitFlowChecker runs the explicit-flow check over a labelled file.
type ExplicitFlowChecker struct {
	sink *diagnostics.Sink
}

// NewExplicitFlowChecker creates an ExplicitFlowChecker reporting through
// sink.
func NewExplicitFlowChecker(sink *diagnostics.Sink) *ExplicitFlowChecker {
	return &ExplicitFlowChecker{sink: sink}
}

// Run checks every statement of file. retLabel is types.Invalid at the top
// level, where no enclosing function exists to receive an SReturn.
func (c *ExplicitFlowChecker) Run(file *ast.File) {
	for _, stmt := range file.Stmts {
		c.stmt(stmt, types.Invalid)
	}
}

func (c *ExplicitFlowChecker) stmt(s ast.Statement, retLabel types.Label) {
	switch v := s.(type) {
	case *ast.SScope:
		for _, st := range v.Stmts {
			c.stmt(st, retLabel)
		}
	case *ast.SVarDef:
		c.checkFlow(v.LHS, v.RHS, v.Span())
	case *ast.SAssign:
		c.checkFlow(v.LHS, v.RHS, v.Span())
	case *ast.SFnDef:
		c.stmt(v.Body, v.RetLabel)
	case *ast.SIf:
		c.stmt(v.Body, retLabel)
		if v.Else != nil {
			c.stmt(v.Else, retLabel)
		}
	case *ast.SWhile:
		c.stmt(v.Body, retLabel)
	case *ast.STryCatch:
		c.stmt(v.Try, retLabel)
		c.stmt(v.Catch, retLabel)
	case *ast.SThrow:
		// no operands
	case *ast.SDebug:
		// inspection only, never a flow
	case *ast.SReturn:
		if retLabel == types.Invalid {
			return
		}
		if retLabel == types.Low && v.Expr.Label() == types.High {
			c.sink.SecurityError("insecure explicit flow", v.Span())
		}
	default:
		panic(fmt.Sprintf("analyzer: unhandled statement in explicit flow check %T", s))
	}
}

// checkFlow rejects assigning a High-labelled rhs into a Low-labelled lhs
// (spec.md §4.6's core rule).
func (c *ExplicitFlowChecker) checkFlow(lhs ast.ELValue, rhs ast.Expression, span token.Span) {
	if lhs.Label() == types.Low && rhs.Label() == types.High {
		c.sink.SecurityError("insecure explicit flow", span)
	}
}
