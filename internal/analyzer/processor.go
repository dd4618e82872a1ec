package analyzer

import (
	"github.com/palisade-lang/palisade/internal/config"
	"github.com/palisade-lang/palisade/internal/pipeline"
)

// Processor wires the five analysis passes into the pipeline in spec.md
// §2's fixed order: symbolisation, type checking, security labelling,
// explicit-flow checking, flow analysis. All five share one FnArena so the
// type checker's DefIndex assignments resolve correctly in the flow
// analyser's call-site re-analysis.
type Processor struct {
	arena *FnArena
	cfg   *config.Config
}

// NewProcessor creates an analyzer Processor with its own FnArena, reading
// cfg.StrictDeclassify to configure the flow analyser.
func NewProcessor(cfg *config.Config) *Processor {
	return &Processor{arena: NewFnArena(), cfg: cfg}
}

func (p *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	NewSymbolizer(ctx.Sink).Run(ctx.File)
	NewTypeChecker(ctx.Sink, p.arena).Run(ctx.File)
	NewLabeller().Run(ctx.File)
	NewExplicitFlowChecker(ctx.Sink).Run(ctx.File)
	NewFlowAnalyzer(ctx.Sink, p.arena, p.cfg.StrictDeclassify).Run(ctx.File)
	return ctx
}
