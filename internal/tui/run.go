package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerview/ledgerview/internal/filter"
	"github.com/ledgerview/ledgerview/internal/viewmodel"
)

// Run starts the dashboard and blocks until the user quits or the context
// is canceled.
func Run(ctx context.Context, orch *viewmodel.Orchestrator, criteria filter.Criteria) error {
	p := tea.NewProgram(
		New(orch, criteria),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
