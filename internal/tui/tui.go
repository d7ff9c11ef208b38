package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// Run starts the TUI for the given targets and returns the results once
// the user quits. Results are nil if the user quit before all hosts were checked.
func Run(targets []string, config *check.Config, styles Styles) ([]*check.Result, error) {
	model, err := New(targets, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI model: %w", err)
	}
	defer model.Close()
	model.SetStyles(styles)

	p := tea.NewProgram(*model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return nil, nil
	}
	if m.state == StateError && m.err != nil {
		return nil, m.err
	}
	return m.Results(), nil
}
