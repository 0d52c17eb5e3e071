package terminal

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fredcamaral/stepdeck/internal/domain/ports"
)

// Run presents the session full-screen until the user quits or ctx ends
func Run(ctx context.Context, session ports.SessionService, opts Options) error {
	model := NewModel(session, opts)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal presenter: %w", err)
	}
	return nil
}
