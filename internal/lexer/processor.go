package lexer

import "github.com/palisade-lang/palisade/internal/pipeline"

// Processor is the pipeline stage that tokenizes ctx.Source into ctx.Tokens.
type Processor struct{}

func (Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.Source, ctx.FilePath, ctx.Sink)
	ctx.Tokens = l.Tokenize()
	return ctx
}
