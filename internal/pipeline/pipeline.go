// Package pipeline wires Palisade's compiler stages together: lexing,
// parsing, and the five-pass analyzer (symbolize, type-check, label,
// explicit-flow check, flow-analyze). Grounded directly on the teacher's
// internal/pipeline package — same Processor/Pipeline shape — simplified for
// a single-file, module-less compiler (no loader, no module graph, no
// incremental re-run).
package pipeline

import (
	"github.com/palisade-lang/palisade/internal/ast"
	"github.com/palisade-lang/palisade/internal/config"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/token"
)

// PipelineContext carries a single compilation unit through every stage. A
// processor that encounters a fatal condition calls Sink.Error/SecurityError
// directly (which terminates the process per spec.md §4.1) rather than
// returning an error value — diagnostics are the only observable outcome.
type PipelineContext struct {
	Source   string
	FilePath string
	Cfg      *config.Config
	Sink     *diagnostics.Sink

	Tokens []token.Token
	File   *ast.File
}

// NewContext builds the initial context for compiling source from path.
func NewContext(source, path string, cfg *config.Config, sink *diagnostics.Sink) *PipelineContext {
	return &PipelineContext{Source: source, FilePath: path, Cfg: cfg, Sink: sink}
}

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline is an ordered sequence of processors.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline from processors, run in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every processor in order, threading ctx through each.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
