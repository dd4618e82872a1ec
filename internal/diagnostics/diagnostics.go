// Package diagnostics is Palisade's sole channel for observable output
// (spec.md §4.1, §8's "diagnostics are the only observable side effect").
// Grounded on _examples/original_source/lib/utils.py's report_error (the
// two-line preamble, tab expansion and caret underline) and
// _examples/original_source/debug.py's report_debug, with the
// color/TTY-detection idiom following the teacher's use of
// github.com/mattn/go-isatty in its CLI output.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/palisade-lang/palisade/internal/config"
	"github.com/palisade-lang/palisade/internal/token"
)

const defaultPreambleLines = 2

// ansi color codes, applied only when Sink.Color is true.
const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[1;31m"
	ansiBlue  = "\033[1;34m"
	ansiCyan  = "\033[1;36m"
)

// Sink renders diagnostics to Out and tracks whether any error has fired, so
// callers that batch an error with trailing notes (redefinition being the
// one case spec.md §4.1 calls out) can still terminate after the group.
type Sink struct {
	Out      io.Writer
	Color    bool
	TabWidth int
	Preamble int

	hadError bool
}

// New creates a Sink writing to out. Color defaults to whether out is a
// terminal, mirroring the teacher's isatty-gated CLI coloring.
func New(out io.Writer) *Sink {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Sink{Out: out, Color: color, TabWidth: 4, Preamble: defaultPreambleLines}
}

// NewWithConfig creates a Sink whose rendering is tuned by cfg: PreambleLines
// and TabWidth override the defaults, and Color — when set — overrides the
// isatty auto-detection New performs.
func NewWithConfig(out io.Writer, cfg *config.Config) *Sink {
	s := New(out)
	if cfg == nil {
		return s
	}
	if cfg.Color != nil {
		s.Color = *cfg.Color
	}
	if cfg.TabWidth > 0 {
		s.TabWidth = cfg.TabWidth
	}
	if cfg.PreambleLines > 0 {
		s.Preamble = cfg.PreambleLines
	}
	return s
}

func (s *Sink) colorize(code, text string) string {
	if !s.Color {
		return text
	}
	return code + text + ansiReset
}

func (s *Sink) expandTabs(line string) string {
	w := s.TabWidth
	if w <= 0 {
		w = 4
	}
	return strings.ReplaceAll(line, "\t", strings.Repeat(" ", w))
}

// render prints the shared span presentation: up to Preamble preamble lines
// (two by default), the
// offending line with [CStart,CEnd) highlighted, and a caret underline.
func (s *Sink) render(label, labelColor, msg string, sp token.Span) {
	lines := strings.Split(sp.Src, "\n")
	preamble := s.Preamble
	if preamble <= 0 {
		preamble = defaultPreambleLines
	}
	lstart := sp.Line - preamble
	if lstart < 0 {
		lstart = 0
	}

	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, s.colorize(labelColor, label)+msg)
	for i := lstart; i < sp.Line; i++ {
		fmt.Fprintf(s.Out, "%4d | %s\n", i+1, s.expandTabs(lines[i]))
	}

	line := s.expandTabs(lines[sp.Line])
	cstart, cend := sp.CStart, sp.CEnd
	if cstart > len(line) {
		cstart = len(line)
	}
	if cend > len(line) {
		cend = len(line)
	}
	fmt.Fprintf(s.Out, "%4d | %s%s%s\n", sp.Line+1, line[:cstart], s.colorize(labelColor, line[cstart:cend]), line[cend:])
	fmt.Fprintln(s.Out, "       "+s.colorize(labelColor, strings.Repeat("~", cstart)+strings.Repeat("^", cend-cstart)))
}

// Error prints msg at span and terminates the process with exit code 1.
func (s *Sink) Error(msg string, sp token.Span) {
	s.hadError = true
	s.render("error: ", ansiRed, msg, sp)
	os.Exit(1)
}

// ErrorContinue records msg at span without terminating, so the caller can
// attach Note calls (the redefinition diagnostic's one note) before ending
// the run itself.
func (s *Sink) ErrorContinue(msg string, sp token.Span) {
	s.hadError = true
	s.render("error: ", ansiRed, msg, sp)
}

// Note prints a supplementary line at span, normally following
// ErrorContinue.
func (s *Sink) Note(msg string, sp token.Span) {
	s.render("note: ", ansiBlue, msg, sp)
}

// SecurityError prints msg at span with the security-distinct presentation
// and terminates with exit code 1 (spec.md §4.1, §4.6, §4.7).
func (s *Sink) SecurityError(msg string, sp token.Span) {
	s.hadError = true
	s.render("security error: ", ansiRed, msg, sp)
	os.Exit(1)
}

// Debug prints a non-fatal inspection of msg at span, with an optional
// epilogue line appended below the rendered span (used by `debug` statements
// to report a definition site, e.g. "defined on line N").
func (s *Sink) Debug(msg string, sp token.Span, epilogue string) {
	s.render("debug: ", ansiCyan, msg, sp)
	if epilogue != "" {
		fmt.Fprintln(s.Out, epilogue)
	}
}

// HadError reports whether any Error, ErrorContinue or SecurityError has
// fired on this sink.
func (s *Sink) HadError() bool { return s.hadError }

// Fatal terminates the process with exit code 1. Used after ErrorContinue +
// Note for the redefinition diagnostic, spec.md §4.1/§7's one deliberately
// multi-line diagnostic ("one error, one note, then exit").
func (s *Sink) Fatal() { os.Exit(1) }

// Blue and Cyan wrap text in the sink's accent colors for Debug epilogues
// that build up a multi-field line (spec.md §4.1's debug rendering, grounded
// on the original prototype's blue()/cyan() helpers referenced from
// debug.py).
func (s *Sink) Blue(text string) string { return s.colorize(ansiBlue, text) }
func (s *Sink) Cyan(text string) string { return s.colorize(ansiCyan, text) }
