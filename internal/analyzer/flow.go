// The flow analyser: a path-sensitive second-order labelling pass threading
// a program-counter label (pc) and a SecurityContext through the tree,
// re-deriving every expression's secure field from the context instead of
// from the (now-frozen) declaration labels (spec.md §4.7). Grounded on
// _examples/original_source/flow_analysis.py's pc/secmodtbl threading
// (resolve_seclabel, join_secmodtbls, the SIf branch-copy-then-merge shape,
// the SWhile double clause evaluation) — extended here to arrays (via
// SecurityContext's per-element ctxarr, where the prototype only had a
// scalar secmodtbl and an explicit TODO), to ECall (context-sensitive
// per-call-site re-analysis, memoised with github.com/minio/highwayhash
// the way _examples/viant-linager/inspector/graph/hash.go keys its cache),
// and to STryCatch/SThrow, absent from the prototype's grammar revision.
package analyzer

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/minio/highwayhash"

	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/symbols"
	"github.com/palisade-lang/palisade/internal/types"
)

// memoHashKey is the fixed 32-byte key highwayhash.New64 requires. Its
// value is arbitrary: the memo table is process-local and never persisted,
// so there is nothing to keep stable across runs.
var memoHashKey = []byte(strings.Repeat("pc", 16))

// FlowAnalyzer runs the path-sensitive pass over a file whose symbols and
// expressions have already been through the symboliser, type checker,
// labeller and explicit-flow checker.
type FlowAnalyzer struct {
	sink             *diagnostics.Sink
	arena            *FnArena
	memo             map[uint64]types.Label
	strictDeclassify bool
}

// NewFlowAnalyzer creates a FlowAnalyzer reporting through sink and
// resolving call targets through arena. strictDeclassify controls whether
// declassifying an already-Low expression is a fatal error (spec.md §9,
// config.Config.StrictDeclassify).
func NewFlowAnalyzer(sink *diagnostics.Sink, arena *FnArena, strictDeclassify bool) *FlowAnalyzer {
	return &FlowAnalyzer{sink: sink, arena: arena, memo: make(map[uint64]types.Label), strictDeclassify: strictDeclassify}
}

// flowResult carries the two pieces of information a statement's analysis
// must propagate upward besides its in-place mutation of ctx: the highest
// pc under which a throw was reached inside it (used by STryCatch to raise
// its catch block's entry pc) and the join of every SReturn.secure reached
// inside it (used by call-site re-analysis to compute a call's result
// label). Both default to Low when the statement contains neither.
type flowResult struct {
	throwPC  types.Label
	retLabel types.Label
}

var noFlow = flowResult{throwPC: types.Low, retLabel: types.Low}

func joinResult(a, b flowResult) flowResult {
	return flowResult{
		throwPC:  types.Join(a.throwPC, b.throwPC),
		retLabel: types.Join(a.retLabel, b.retLabel),
	}
}

// Run analyses file's top-level statements against a fresh root context
// seeded with every declared global, then checks the output post-condition
// (spec.md §4.7's final paragraph).
func (fa *FlowAnalyzer) Run(file *ast.File) {
	ctx := NewSecurityContext()
	for _, g := range file.Inputs {
		fa.registerGlobal(ctx, g)
	}
	for _, g := range file.Outputs {
		fa.registerGlobal(ctx, g)
	}
	for _, stmt := range file.Stmts {
		fa.stmt(stmt, ctx, types.Low)
	}
	fa.checkOutputs(file, ctx)
}

func (fa *FlowAnalyzer) registerGlobal(ctx *SecurityContext, g *ast.SGlobal) {
	// SGlobal.Expr is always an EId; g.Ty (or equivalently id.Sym.Type,
	// filled in by the type checker) is what tells an array global from a
	// scalar one.
	id, ok := g.Expr.(*ast.EId)
	if !ok {
		panic(fmt.Sprintf("analyzer: unexpected SGlobal.Expr %T", g.Expr))
	}
	if arrTy, ok := id.Sym.Type.(types.Array); ok {
		labels := make([]types.Label, arrTy.Length)
		for i := range labels {
			labels[i] = g.OrigLabel
		}
		ctx.RegisterArray(id.Sym, labels)
		return
	}
	ctx.RegisterVar(id.Sym, g.OrigLabel)
}

// checkOutputs is the only soundness check needing the post-state: every
// declared output global's final label must not exceed its declaration.
func (fa *FlowAnalyzer) checkOutputs(file *ast.File, ctx *SecurityContext) {
	for _, g := range file.Outputs {
		id, ok := g.Expr.(*ast.EId)
		if !ok {
			panic(fmt.Sprintf("analyzer: unexpected SGlobal.Expr %T", g.Expr))
		}
		if arrTy, ok := id.Sym.Type.(types.Array); ok {
			for i, l := range ctx.LabelsOfArray(id.Sym, arrTy.Length) {
				if !types.LessEq(l, g.OrigLabel) {
					fa.sink.SecurityError(fmt.Sprintf("output %s[%d] leaks a high value through a low declaration", id.Name, i), g.Span())
				}
			}
			continue
		}
		final := ctx.LabelOfVar(id.Sym)
		if !types.LessEq(final, g.OrigLabel) {
			fa.sink.SecurityError(fmt.Sprintf("output %s leaks a high value through a low declaration", id.Name), g.Span())
		}
	}
}

func (fa *FlowAnalyzer) arrayLength(sym *symbols.Symbol) int {
	if arrTy, ok := sym.Type.(types.Array); ok {
		return arrTy.Length
	}
	return 0
}

func (fa *FlowAnalyzer) stmt(s ast.Statement, ctx *SecurityContext, pc types.Label) flowResult {
	switch v := s.(type) {
	case *ast.SScope:
		result := noFlow
		for _, st := range v.Stmts {
			result = joinResult(result, fa.stmt(st, ctx, pc))
		}
		return result

	case *ast.SVarDef:
		fa.varDef(v, ctx, pc)
		return noFlow

	case *ast.SFnDef:
		// Bodies are re-analysed per call site (spec.md §4.7); a declaration
		// reached as a plain statement does nothing on its own.
		return noFlow

	case *ast.SAssign:
		fa.assign(v, ctx, pc)
		return noFlow

	case *ast.SIf:
		ce := fa.expr(v.Clause, ctx, pc)
		npc := types.Join(pc, ce.Label())
		elseCtx := ctx.Copy()
		thenResult := fa.stmt(v.Body, ctx, npc)
		elseResult := noFlow
		if v.Else != nil {
			elseResult = fa.stmt(v.Else, elseCtx, npc)
		}
		ctx.Merge(elseCtx)
		return joinResult(thenResult, elseResult)

	case *ast.SWhile:
		ce := fa.expr(v.Clause, ctx, pc)
		npc := types.Join(pc, ce.Label())
		if npc == types.High {
			fa.sink.SecurityError("insecure implicit flow - while loop with a high guard", v.Clause.Span())
		}
		bodyResult := fa.stmt(v.Body, ctx, npc)
		ce2 := fa.expr(v.Clause, ctx, pc)
		npc2 := types.Join(pc, ce2.Label())
		if npc2 == types.High {
			fa.sink.SecurityError("insecure implicit flow - while loop with a high guard after iteration", v.Clause.Span())
		}
		return bodyResult

	case *ast.STryCatch:
		tryCtx := ctx.Copy()
		tryResult := fa.stmt(v.Try, tryCtx, pc)
		catchCtx := tryCtx.Copy()
		catchPC := types.Join(pc, tryResult.throwPC)
		catchResult := fa.stmt(v.Catch, catchCtx, catchPC)
		ctx.ctxvar = tryCtx.ctxvar
		ctx.ctxarr = tryCtx.ctxarr
		ctx.Merge(catchCtx)
		return joinResult(tryResult, catchResult)

	case *ast.SThrow:
		if pc == types.High {
			fa.sink.SecurityError("throw in high context", v.Span())
		}
		return flowResult{throwPC: pc, retLabel: types.Low}

	case *ast.SDebug:
		e := fa.expr(v.Expr, ctx, pc)
		epilogue := ""
		if id, ok := e.(*ast.EId); ok {
			epilogue = fmt.Sprintf("defined on line %d", id.Sym.Origin.Line+1)
		}
		fa.sink.Debug(fmt.Sprintf("type %s, label %s", e.Type(), e.Label()), e.Span(), epilogue)
		return noFlow

	case *ast.SReturn:
		re := fa.expr(v.Expr, ctx, pc)
		v.Label = types.Join(pc, re.Label())
		return flowResult{throwPC: types.Low, retLabel: v.Label}

	default:
		panic(fmt.Sprintf("analyzer: unhandled statement in flow analysis %T", s))
	}
}

func (fa *FlowAnalyzer) varDef(v *ast.SVarDef, ctx *SecurityContext, pc types.Label) {
	switch lhs := v.LHS.(type) {
	case *ast.EArray:
		fa.expr(v.RHS, ctx, pc)
		switch rhs := v.RHS.(type) {
		case *ast.EArrayLiteral:
			labels := make([]types.Label, len(rhs.Values))
			for i, val := range rhs.Values {
				labels[i] = val.Label()
			}
			ctx.RegisterArray(lhs.Array.Sym, labels)
		case *ast.EId:
			length := fa.arrayLength(lhs.Array.Sym)
			ctx.RegisterArray(lhs.Array.Sym, ctx.LabelsOfArray(rhs.Sym, length))
		default:
			panic(fmt.Sprintf("analyzer: unexpected array SVarDef.RHS %T", v.RHS))
		}
	case *ast.EId:
		fa.expr(v.RHS, ctx, pc)
		ctx.RegisterVar(lhs.Sym, v.RHS.Label())
	default:
		panic(fmt.Sprintf("analyzer: unexpected SVarDef.LHS %T", v.LHS))
	}
}

func (fa *FlowAnalyzer) assign(v *ast.SAssign, ctx *SecurityContext, pc types.Label) {
	switch lhs := v.LHS.(type) {
	case *ast.EId:
		fa.expr(v.RHS, ctx, pc)
		orig := ctx.LabelOfVar(lhs.Sym)
		newLabel := types.Join(pc, v.RHS.Label())
		ctx.RelabelVar(lhs.Sym, newLabel)
		fa.expr(lhs, ctx, pc)
		if orig != newLabel {
			fa.sink.Note(fmt.Sprintf("label of %s set to %s", lhs.Name, newLabel), v.Span())
		}

	case *ast.EArray:
		fa.expr(v.RHS, ctx, pc)
		length := fa.arrayLength(lhs.Array.Sym)
		if idxLit, ok := lhs.Index.(*ast.EInt); ok {
			idx := int(idxLit.Value)
			orig := ctx.LabelOfArrayIndex(lhs.Array.Sym, idx, length)
			newLabel := types.Join(pc, v.RHS.Label())
			ctx.RelabelArrayIndex(lhs.Array.Sym, idx, length, newLabel)
			if orig != newLabel {
				fa.sink.Note(fmt.Sprintf("label of %s[%d] set to %s", lhs.Array.Name, idx, newLabel), v.Span())
			}
		} else {
			fa.expr(lhs.Index, ctx, pc)
			if types.Join(lhs.Index.Label(), v.RHS.Label()) == types.High {
				raised := make([]types.Label, length)
				for i := range raised {
					raised[i] = types.High
				}
				ctx.RelabelArray(lhs.Array.Sym, raised)
			}
		}
		fa.expr(lhs, ctx, pc)

	default:
		panic(fmt.Sprintf("analyzer: unexpected SAssign.LHS %T", v.LHS))
	}
}

func (fa *FlowAnalyzer) expr(e ast.Expression, ctx *SecurityContext, pc types.Label) ast.Expression {
	switch v := e.(type) {
	case *ast.EInt:
		v.SetLabel(types.Low)
	case *ast.EBool:
		v.SetLabel(types.Low)
	case *ast.EId:
		v.SetLabel(ctx.LabelOfVar(v.Sym))
	case *ast.EArray:
		fa.expr(v.Array, ctx, pc)
		fa.expr(v.Index, ctx, pc)
		length := fa.arrayLength(v.Array.Sym)
		var elemLabel types.Label
		if lit, ok := v.Index.(*ast.EInt); ok {
			elemLabel = ctx.LabelOfArrayIndex(v.Array.Sym, int(lit.Value), length)
		} else {
			elemLabel = types.JoinAll(ctx.LabelsOfArray(v.Array.Sym, length))
		}
		v.SetLabel(types.Join(v.Index.Label(), elemLabel))
	case *ast.EArrayLiteral:
		labels := make([]types.Label, len(v.Values))
		for i, val := range v.Values {
			fa.expr(val, ctx, pc)
			labels[i] = val.Label()
		}
		v.SetLabel(types.JoinAll(labels))
	case *ast.EUnOp:
		fa.expr(v.Expr, ctx, pc)
		v.SetLabel(v.Expr.Label())
	case *ast.EBinOp:
		fa.expr(v.LHS, ctx, pc)
		fa.expr(v.RHS, ctx, pc)
		v.SetLabel(types.Join(v.LHS.Label(), v.RHS.Label()))
	case *ast.ECall:
		v.SetLabel(fa.call(v, ctx, pc))
	case *ast.EDeclassify:
		fa.expr(v.Expr, ctx, pc)
		if fa.strictDeclassify && v.Expr.Label() != types.High {
			fa.sink.SecurityError("declassify of an already-public expression", v.Span())
		}
		v.SetLabel(types.Low)
	default:
		panic(fmt.Sprintf("analyzer: unhandled expression in flow analysis %T", e))
	}
	return e
}

// call re-analyses the callee's body in a fresh context seeded from the
// caller's argument labels, memoising on (definition, argument labels) so a
// call site reached repeatedly with the same label pattern (recursion,
// loops) is not re-walked every time. A recursive call that reaches the
// same key before its first analysis completes sees the optimistic
// placeholder Low, the identity element of join, and the memo entry is
// corrected once the outer call finishes.
func (fa *FlowAnalyzer) call(v *ast.ECall, ctx *SecurityContext, pc types.Label) types.Label {
	argLabels := make([]types.Label, len(v.Args))
	for i, a := range v.Args {
		fa.expr(a, ctx, pc)
		argLabels[i] = a.Label()
	}

	fnTy, ok := v.Name.Type().(types.Fn)
	if !ok {
		panic(fmt.Sprintf("analyzer: call target %s has non-function type %s", v.Name.Name, v.Name.Type()))
	}
	def := fa.arena.Get(fnTy.DefIndex)
	if def == nil {
		panic(fmt.Sprintf("analyzer: unresolved function definition for %s", v.Name.Name))
	}

	key := fa.memoKey(fnTy.DefIndex, argLabels)
	if label, ok := fa.memo[key]; ok {
		return label
	}
	fa.memo[key] = types.Low

	callCtx := NewSecurityContext()
	for i, p := range def.Params {
		callCtx.RegisterVar(p.Sym, argLabels[i])
	}
	result := fa.stmt(def.Body, callCtx, pc)
	fa.memo[key] = result.retLabel
	return result.retLabel
}

func (fa *FlowAnalyzer) memoKey(defIndex int, argLabels []types.Label) uint64 {
	buf := make([]byte, 8+len(argLabels))
	binary.LittleEndian.PutUint64(buf[:8], uint64(defIndex))
	for i, l := range argLabels {
		buf[8+i] = byte(l)
	}
	h, err := highwayhash.New64(memoHashKey)
	if err != nil {
		panic(err)
	}
	h.Write(buf)
	return h.Sum64()
}
