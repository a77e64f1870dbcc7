package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotsearch/internal/app"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/server"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive search interface.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseKind(cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	presenter := ui.NewChannelPresenter(64)
	ctrl, err := r.controller(ctx, presenter, nil)
	if err != nil {
		return err
	}

	sp := r.config.Credentials.Spotify
	srv, err := server.NewCallbackServer(r.config.Server.Addr(), sp.RedirectURI, server.DefaultCallbackTimeout, r.logger)
	if err != nil {
		return err
	}

	actions := app.Interactive{
		Controller: ctrl,
		Open:       r.open,
		Listen:     func() (app.Receiver, error) { return srv.Start() },
	}

	status := app.StatusLoggedOut + " Press ctrl+l to log in with Spotify."
	if ctrl.Session().LoggedIn() {
		status = "Logged in. Type a query and press enter."
	}

	model := ui.NewModel(ctx, ui.Options{
		Actions: actions,
		Updates: presenter.Updates(),
		Logger:  r.logger,
		Kind:    kind,
		Status:  status,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
