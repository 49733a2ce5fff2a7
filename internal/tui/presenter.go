package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cj3636/linediff/internal/compare"
	"github.com/cj3636/linediff/internal/config"
	"github.com/cj3636/linediff/internal/watcher"
)

// Presenter shows comparisons in a full-screen program.
type Presenter struct {
	Config *config.Config
	Reload Reloader
	// Watch, when set, re-runs Reload whenever the file changes.
	Watch *watcher.Watcher
}

// Present implements compare.Presenter. It blocks until the user quits or
// ctx is cancelled.
func (p *Presenter) Present(ctx context.Context, cmp *compare.Comparison) error {
	model := NewModel(ctx, cmp, p.Config, p.Reload, p.Watch)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := program.Run()
	return err
}
