package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waslerr/internal/session"
	"github.com/desertthunder/waslerr/internal/shared"
	"github.com/desertthunder/waslerr/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive storefront.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.api == nil {
		return fmt.Errorf("%w: api.base_url", shared.ErrMissingConfig)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, err := r.sessionStore(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Other processes (e.g. `waslerr auth login`) write the same database.
	if s, ok := store.(*session.SQLiteStore); ok {
		go s.Watch(ctx, r.config.Session.PollInterval())
	}

	model := ui.New(ui.Options{
		Context:         ctx,
		Store:           store,
		API:             r.api,
		Logger:          fileLogger,
		DesktopMinWidth: r.config.UI.DesktopMinWidth,
		CellWidth:       r.config.UI.CellWidth,
		ToastTTL:        r.config.UI.ToastDuration(),
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
