// Package compiler wires lexing, parsing and the five analyzer passes into
// a single entry point, grounded on the teacher's cmd/funxy/main.go
// runPipeline: build a PipelineContext, run a fixed Pipeline, return the
// result (spec.md §2's pass order, §6's `compile <path.pls>` verb).
package compiler

import (
	"github.com/palisade-lang/palisade/internal/analyzer"
	"github.com/palisade-lang/palisade/internal/config"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/lexer"
	"github.com/palisade-lang/palisade/internal/parser"
	"github.com/palisade-lang/palisade/internal/pipeline"
)

// Compile runs the full pipeline over source (read from path, used only for
// diagnostic spans and messages) and returns the final context. A fatal
// diagnostic anywhere in the pipeline terminates the process directly
// (spec.md §4.1); Compile only returns when the source is accepted.
func Compile(source, path string, cfg *config.Config, sink *diagnostics.Sink) *pipeline.PipelineContext {
	initial := pipeline.NewContext(source, path, cfg, sink)
	p := pipeline.New(
		lexer.Processor{},
		parser.Processor{},
		analyzer.NewProcessor(cfg),
	)
	return p.Run(initial)
}
