package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/spotsearch/internal/app"
	"github.com/desertthunder/spotsearch/internal/auth"
	"github.com/desertthunder/spotsearch/internal/server"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the PKCE login through the browser and a local callback server.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	presenter := ui.NewTextPresenter(r.output, 0)
	ctrl, err := r.controller(ctx, presenter, nil)
	if err != nil {
		return err
	}

	if ctrl.Session().LoggedIn() {
		r.logger.Info("already logged in, starting a new login anyway")
	}

	sp := r.config.Credentials.Spotify
	srv, err := server.NewCallbackServer(r.config.Server.Addr(), sp.RedirectURI, cmd.Duration("timeout"), r.logger)
	if err != nil {
		return err
	}
	listen := func() (app.Receiver, error) { return srv.Start() }

	open := r.open
	if cmd.Bool("no-browser") {
		open = func(string) error { return errors.New("browser disabled") }
	}

	r.logger.Infof("waiting for the redirect on %v", sp.RedirectURI)
	if err := ctrl.BrowserLogin(ctx, open, listen); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.writePlain("✓ Token stored\n")
}

// AuthCallback completes a login from a redirect URL copied out of the browser.
func (r *Runner) AuthCallback(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("url")
	if input == "" {
		return fmt.Errorf("%w: redirect URL", shared.ErrMissingArgument)
	}

	query, err := shared.ParseCallback(input)
	if err != nil {
		return err
	}
	r.logger.Debug("completing login from pasted redirect", "url", auth.CleanCallbackURL(input))

	ctrl, err := r.newController(ctx, ui.NewTextPresenter(r.output, 0), nil)
	if err != nil {
		return err
	}

	handled, err := ctrl.Init(ctx, query)
	if !handled {
		return fmt.Errorf("%w: URL has neither code nor error", shared.ErrInvalidArgument)
	}
	return err
}

// AuthLogout removes the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.controller(ctx, ui.NewTextPresenter(r.output, 0), nil)
	if err != nil {
		return err
	}
	return ctrl.Logout(ctx)
}

// AuthStatus shows the session state and, when logged in, the profile from /me.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	ctrl, err := r.controller(ctx, &logPresenter{logger: r.logger}, nil)
	if err != nil {
		return err
	}

	session := ctrl.Session()
	if !session.LoggedIn() {
		return r.writePlain("Status: %s\n", session.State())
	}

	profile, err := r.spotify.UserProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, true)
	}

	r.writePlainHeader("Spotify")
	r.writePlain("Status:    %s\n", session.State())
	r.writePlain("User:      %s (%s)\n", profile.DisplayName, profile.ID)
	if profile.Email != "" {
		r.writePlain("Email:     %s\n", profile.Email)
	}
	if profile.Country != "" {
		r.writePlain("Country:   %s\n", profile.Country)
	}
	if profile.Product != "" {
		r.writePlain("Plan:      %s\n", profile.Product)
	}
	return r.writePlain("Followers: %d\n", profile.Followers)
}

// AuthToken stores an access token obtained outside the PKCE flow.
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("value"))
	if token == "" {
		return fmt.Errorf("%w: access token", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}
	if err := r.auth.SetToken(ctx, token); err != nil {
		return err
	}

	r.logger.Info("access token stored")
	return r.writePlain("✓ Token stored\n")
}
