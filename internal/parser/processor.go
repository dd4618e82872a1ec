package parser

import "github.com/palisade-lang/palisade/internal/pipeline"

// Processor is the pipeline stage that parses ctx.Tokens into ctx.File.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(ctx.Tokens, ctx.Sink)
	ctx.File = p.Parse()
	return ctx
}
