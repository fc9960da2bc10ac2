package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the viewer until the user quits or ctx is cancelled. The
// current run is stopped before Run returns.
func Run(ctx context.Context, cfg Config) error {
	m := New(ctx, cfg)
	defer m.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return errors.New("the viewer requires a real terminal")
		}
		return fmt.Errorf("error running viewer: %w", err)
	}
	return nil
}
