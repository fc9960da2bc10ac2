package config

import (
	"os"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Default values for configuration.
const (
	DefaultGrammar   = "bracket"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogFile   = "hxlog_debug.log"
)

// Environment variable names.
const (
	EnvLogFile = "HXLOG_LOG_FILE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Grammar:     DefaultGrammar,
		BatchSize:   parser.DefaultBatchSize,
		MaxLineSize: parser.DefaultMaxLineSize,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   DefaultLogFile,
		},
		grammar: parser.GrammarBracket,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if file := os.Getenv(EnvLogFile); file != "" {
		c.Logging.File = file
	}
}
