package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/hxlog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an hxlog configuration file without parsing anything.

Checks:
  - YAML syntax
  - Grammar name
  - Batch and line size limits
  - Logging level and format
  - Initial viewer level names`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Grammar:       %s\n", cfg.ParsedGrammar())
	fmt.Fprintf(w, "  Batch size:    %d lines\n", cfg.BatchSize)
	fmt.Fprintf(w, "  Max line size: %d bytes\n", cfg.MaxLineSize)
	fmt.Fprintf(w, "  Logging:       %s (%s) -> %s\n", cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)

	levels := "all"
	if lv := cfg.ViewLevels(); len(lv) > 0 {
		names := make([]string, len(lv))
		for i, l := range lv {
			names[i] = l.String()
		}
		levels = strings.Join(names, ", ")
	}
	fmt.Fprintf(w, "  View levels:   %s\n", levels)
	if cfg.View.Search != "" {
		fmt.Fprintf(w, "  View search:   %q\n", cfg.View.Search)
	}

	return nil
}
