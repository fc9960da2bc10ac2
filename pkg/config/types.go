// Package config provides configuration loading and validation for hxlog.
package config

import "github.com/ccollicutt/hxlog/pkg/parser"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Grammar selects the line grammar: "bracket" or "separator"
	// ("a" and "b" are accepted as aliases).
	Grammar string `yaml:"grammar"`

	// BatchSize is the number of input lines read between two flushes.
	BatchSize int `yaml:"batch_size,omitempty"`

	// MaxLineSize is the longest accepted line in bytes.
	MaxLineSize int `yaml:"max_line_size,omitempty"`

	Logging LoggingConfig `yaml:"logging"`
	View    ViewConfig    `yaml:"view,omitempty"`

	// grammar is the parsed Grammar (populated during validation).
	grammar parser.Grammar
	// levels are the parsed view levels (populated during validation).
	levels []parser.Level
}

// LoggingConfig controls diagnostic output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json

	// File receives diagnostics while the terminal viewer owns the screen.
	File string `yaml:"file,omitempty"`
}

// ViewConfig holds the initial filter of the terminal viewer.
type ViewConfig struct {
	Levels []string `yaml:"levels,omitempty"`
	Search string   `yaml:"search,omitempty"`
}

// ParsedGrammar returns the grammar selected by the configuration.
func (c *Config) ParsedGrammar() parser.Grammar {
	return c.grammar
}

// ViewLevels returns the parsed initial level filter. An empty result means
// every level is shown.
func (c *Config) ViewLevels() []parser.Level {
	return c.levels
}

// ParserOptions returns the scheduler options the configuration implies.
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithBatchSize(c.BatchSize),
		parser.WithMaxLineSize(c.MaxLineSize),
	}
}
