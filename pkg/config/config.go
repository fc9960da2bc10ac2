package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, fills zero values with
// defaults and parses the grammar and level names.
func Validate(cfg *Config) error {
	if cfg.Grammar == "" {
		cfg.Grammar = DefaultGrammar
	}
	g, err := parser.ParseGrammar(cfg.Grammar)
	if err != nil {
		return fmt.Errorf("grammar: %w", err)
	}
	cfg.grammar = g

	if cfg.BatchSize < 0 {
		return fmt.Errorf("batch_size: must be positive, got %d", cfg.BatchSize)
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = parser.DefaultBatchSize
	}

	if cfg.MaxLineSize < 0 {
		return fmt.Errorf("max_line_size: must be positive, got %d", cfg.MaxLineSize)
	}
	if cfg.MaxLineSize == 0 {
		cfg.MaxLineSize = parser.DefaultMaxLineSize
	}

	if err := validateLogging(&cfg.Logging); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	levels, err := filter.ParseLevels(cfg.View.Levels)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	cfg.levels = levels

	return nil
}

func validateLogging(lc *LoggingConfig) error {
	if lc.Level == "" {
		lc.Level = DefaultLogLevel
	}
	switch strings.ToLower(lc.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q (must be debug, info, warn, or error)", lc.Level)
	}

	if lc.Format == "" {
		lc.Format = DefaultLogFormat
	}
	switch strings.ToLower(lc.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (must be text or json)", lc.Format)
	}

	if lc.File == "" {
		lc.File = DefaultLogFile
	}
	return nil
}
