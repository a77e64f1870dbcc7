package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/spotsearch/internal/app"
	"github.com/desertthunder/spotsearch/internal/formatter"
	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/desertthunder/spotsearch/internal/services"
	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search runs one catalog search and prints or exports the normalized results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: search <track|album|playlist> <query>", shared.ErrMissingArgument)
	}

	kind, err := models.ParseKind(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	query := strings.TrimSpace(strings.Join(args[1:], " "))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	searcher := r.spotify
	if cmd.IsSet("limit") {
		limit := int(cmd.Int("limit"))
		if limit < shared.MinSearchLimit || limit > shared.MaxSearchLimit {
			return fmt.Errorf("%w: --limit must be between %d and %d", shared.ErrInvalidArgument, shared.MinSearchLimit, shared.MaxSearchLimit)
		}
		searcher = searcher.WithLimit(limit)
	}

	r.logger.Debug("searching", "type", kind, "query", query, "limit", searcher.Limit())

	if cmd.Bool("raw") {
		ctrl, err := r.controller(ctx, &logPresenter{logger: r.logger}, searcher)
		if err != nil {
			return err
		}
		return r.searchRaw(ctx, ctrl, searcher, kind, query)
	}

	output := cmd.String("output")
	if format == formatter.FormatText && output == "" {
		ctrl, err := r.controller(ctx, ui.NewTextPresenter(r.output, 0), searcher)
		if err != nil {
			return err
		}
		return ctrl.Search(ctx, kind, query)
	}

	ctrl, err := r.controller(ctx, &logPresenter{logger: r.logger}, searcher)
	if err != nil {
		return err
	}
	if err := ctrl.Search(ctx, kind, query); err != nil {
		return err
	}

	snap := ctrl.Results()
	if output != "" {
		path, err := formatter.WriteExport(snap, format, output)
		if err != nil {
			return err
		}
		r.logger.Info("results written", "path", path, "count", snap.Len())
		return nil
	}

	data, err := formatter.Export(snap, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// searchRaw prints the response body exactly as Spotify returned it.
func (r *Runner) searchRaw(ctx context.Context, ctrl *app.Controller, searcher *services.SpotifyService, kind models.Kind, query string) error {
	if !ctrl.Session().LoggedIn() {
		return shared.ErrNotAuthenticated
	}

	body, err := searcher.Search(ctx, kind, query)
	if err != nil {
		return err
	}
	return r.writeBytes(body)
}
