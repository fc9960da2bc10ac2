// Package cli provides the command-line interface for hxlog.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ccollicutt/hxlog/internal/cli/commands"
	"github.com/ccollicutt/hxlog/pkg/config"
)

// EnvPrefix prefixes the environment variables that override global flags,
// for example HXLOG_GRAMMAR or HXLOG_LOG_LEVEL.
const EnvPrefix = "HXLOG"

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(commands.NewSettings())
}

func newRootCommand(settings *commands.Settings) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "hxlog",
		Short: "Parse and browse HelixDebug log files",
		Long: `hxlog decodes HelixDebug log files into structured records.

Large files are read in the background in batches, so records can be
browsed and filtered while the rest of the file is still loading.

Settings are resolved in this order: command-line flag, HXLOG_*
environment variable, configuration file, built-in default.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings(v, settings)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file (YAML)")
	flags.StringP("grammar", "g", "", "Line grammar (bracket|separator)")
	flags.String("log-level", "", "Diagnostic log level (debug|info|warn|error)")
	flags.String("log-format", "", "Diagnostic log format (text|json)")
	flags.String("log-file", "", "Diagnostic log file used by the viewer")
	flags.String("state", "", "Viewer session state file (default: user config dir)")
	_ = v.BindPFlags(flags)

	rootCmd.AddCommand(commands.NewParseCommand(settings))
	rootCmd.AddCommand(commands.NewViewCommand(settings))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// loadSettings resolves the global settings. Values from the configuration
// file become viper defaults so that environment variables and flags
// override them.
func loadSettings(v *viper.Viper, s *commands.Settings) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := config.DefaultConfig()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(context.Background(), path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	v.SetDefault("grammar", cfg.Grammar)
	v.SetDefault("log-level", cfg.Logging.Level)
	v.SetDefault("log-format", cfg.Logging.Format)
	v.SetDefault("log-file", cfg.Logging.File)

	cfg.Grammar = v.GetString("grammar")
	cfg.Logging.Level = v.GetString("log-level")
	cfg.Logging.Format = v.GetString("log-format")
	cfg.Logging.File = v.GetString("log-file")

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	s.Config = cfg

	s.StatePath = v.GetString("state")
	if s.StatePath == "" {
		if p, err := config.StatePath(); err == nil {
			s.StatePath = p
		}
	}
	return nil
}
