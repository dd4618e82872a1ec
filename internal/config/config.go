// Package config loads the optional .palisade.yaml project file that tunes
// diagnostics rendering and a handful of analyzer strictness switches.
// Grounded on the teacher's internal/ext/config.go (FindConfig's walk-up-
// to-root search, LoadConfig/ParseConfig split, setDefaults) using the same
// gopkg.in/yaml.v3 dependency, scaled down to Palisade's much smaller knob
// set.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{".palisade.yaml", ".palisade.yml"}

// Config holds the tunables spec.md leaves to "the exact human format is
// not part of the specification" (§4's output note) and §9's open question
// on declassify strictness.
type Config struct {
	// Color forces diagnostics coloring on or off; nil means auto-detect
	// from the output stream (the teacher's isatty-gated default).
	Color *bool `yaml:"color,omitempty"`

	// PreambleLines caps how many lines of context precede the offending
	// line in a rendered diagnostic (spec.md §4.1 default: 2).
	PreambleLines int `yaml:"preamble_lines,omitempty"`

	// TabWidth is the column width a tab character expands to when
	// rendering a diagnostic's source line (spec.md §4.1 default: 4).
	TabWidth int `yaml:"tab_width,omitempty"`

	// StrictDeclassify, when true, rejects a declassify of an expression
	// already labelled Low as redundant rather than silently accepting it
	// (spec.md §9's open question on declassify-of-Low; default true).
	StrictDeclassify bool `yaml:"strict_declassify,omitempty"`
}

// Default returns the configuration used when no project file is found.
func Default() *Config {
	return &Config{PreambleLines: 2, TabWidth: 4, StrictDeclassify: true}
}

// Find searches dir and its ancestors for a Palisade config file, the same
// walk-to-filesystem-root search the teacher's FindConfig performs for
// funxy.yaml. Returns "" with a nil error if none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and parses a Palisade config file, filling in defaults for
// omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses config file content from bytes. path is used only in error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.PreambleLines == 0 {
		c.PreambleLines = 2
	}
	if c.TabWidth == 0 {
		c.TabWidth = 4
	}
}
