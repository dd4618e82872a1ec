// Command palisade is the compiler's CLI entry point: `palisade compile
// <path.pls>` runs the full pipeline and reports accept/reject via exit
// code. Grounded on the teacher's cmd/funxy/main.go main() — the top-level
// recover/exit-code convention and the DEBUG=1 re-panic escape hatch are
// copied directly; the flag surface is Palisade's own (spec.md §6).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/palisade-lang/palisade/internal/compiler"
	"github.com/palisade-lang/palisade/internal/config"
	"github.com/palisade-lang/palisade/internal/diagnostics"
	"github.com/palisade-lang/palisade/internal/symbols"
)

// exit codes: 0 accepted, 1 a diagnostic rejected the program, 2 an
// internal compiler bug (a Go panic the analyzer never expected to raise).
const (
	exitOK       = 0
	exitRejected = 1
	exitInternal = 2
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "this is a compiler bug, please report it")
			os.Exit(exitInternal)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitRejected)
	}

	switch os.Args[1] {
	case "compile":
		runCompile(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(exitRejected)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: palisade compile [-config path] [-dump-symbols] <path.pls>")
}

func runCompile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a .palisade.yaml config file (default: search upward from the source file)")
	dumpSymbols := fs.Bool("dump-symbols", false, "print the file-scope symbol table as YAML after a successful compile")
	fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
		os.Exit(exitRejected)
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitRejected)
	}

	cfg := loadConfig(*configPath, path)
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	sink := diagnostics.NewWithConfig(os.Stdout, cfg)

	result := compiler.Compile(string(data), absPath, cfg, sink)

	if dumpSymbols != nil && *dumpSymbols {
		dumpSymbolTable(result.File.Symtab)
	}

	if sink.HadError() {
		os.Exit(exitRejected)
	}
	os.Exit(exitOK)
}

// loadConfig resolves the effective configuration: an explicit -config path
// wins, otherwise the nearest .palisade.yaml walking up from the source
// file's directory, falling back to config.Default().
func loadConfig(explicit, sourcePath string) *config.Config {
	if explicit != "" {
		cfg, err := config.Load(explicit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(exitRejected)
		}
		return cfg
	}
	dir := filepath.Dir(sourcePath)
	found, err := config.Find(dir)
	if err != nil || found == "" {
		return config.Default()
	}
	cfg, err := config.Load(found)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitRejected)
	}
	return cfg
}

// symbolDump is the YAML-serializable projection of a symbols.Table: the
// Table itself holds a *Table parent pointer and a types.Type interface
// field, neither of which marshal meaningfully, so -dump-symbols flattens
// each entry to its name, resolved type and declaration label.
type symbolDump struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	SecLabel string `yaml:"label"`
}

func dumpSymbolTable(tbl *symbols.Table) {
	if tbl == nil {
		return
	}
	entries := make([]symbolDump, 0, len(tbl.Symbols))
	for _, sym := range tbl.Symbols {
		entries = append(entries, symbolDump{
			Name:     sym.Name,
			Type:     fmt.Sprint(sym.Type),
			SecLabel: sym.DeclLabel.String(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	out, err := yaml.Marshal(entries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: marshaling symbol dump: %v\n", err)
		return
	}
	os.Stdout.Write(out)
}
