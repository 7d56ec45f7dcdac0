package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackwu/spectra/config"
)

// Run shows the shell in the alternate screen until the user quits or ctx
// is cancelled. Configs received on reloads are applied live.
func Run(ctx context.Context, m Model, reloads <-chan *config.Config) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case cfg, ok := <-reloads:
				if !ok {
					return
				}
				p.Send(ConfigReloadedMsg{Config: cfg})
			}
		}
	}()

	final, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return m, fmt.Errorf("TUI error: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return m, nil
}
