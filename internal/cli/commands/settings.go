package commands

import (
	"io"
	"log/slog"

	"github.com/ccollicutt/hxlog/internal/logging"
	"github.com/ccollicutt/hxlog/pkg/config"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Settings are the resolved global settings shared by every command. The
// root command fills them in before a command runs.
type Settings struct {
	Config *config.Config

	// StatePath locates the viewer session state. Empty disables it.
	StatePath string
}

// NewSettings returns settings holding the default configuration.
func NewSettings() *Settings {
	cfg := config.DefaultConfig()
	_ = config.Validate(cfg)
	return &Settings{Config: cfg}
}

// Logger builds the diagnostic logger writing to w.
func (s *Settings) Logger(w io.Writer) *slog.Logger {
	return logging.Setup(s.Config.Logging.Level, s.Config.Logging.Format, w)
}

// Controller returns a parser controller configured from the settings.
func (s *Settings) Controller(logger *slog.Logger) *parser.Controller {
	opts := append(s.Config.ParserOptions(), parser.WithLogger(logger))
	return parser.NewController(parser.NewDecoder(s.Config.ParsedGrammar()), opts...)
}
