package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/desertthunder/spotsearch/internal/store"
	"github.com/urfave/cli/v3"
)

type historyEntry struct {
	ID        string `json:"id"`
	Sequence  int    `json:"sequence"`
	Type      string `json:"type"`
	Query     string `json:"query"`
	Results   int    `json:"results"`
	CreatedAt string `json:"created_at"`
}

// History lists, or with --clear deletes, recorded searches.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.config.Storage.Driver != store.DriverSQLite {
		return fmt.Errorf("%w: history requires the sqlite storage driver, got %q", shared.ErrInvalidConfig, r.config.Storage.Driver)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}
	if r.history == nil {
		return fmt.Errorf("%w: history is unavailable for this store", shared.ErrStorage)
	}

	if cmd.Bool("clear") {
		n, err := r.history.Clear()
		if err != nil {
			return err
		}
		r.logger.Info("history cleared", "removed", n)
		return r.writePlain("✓ Removed %d searches\n", n)
	}

	records, err := r.history.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		entries := make([]historyEntry, 0, len(records))
		for _, rec := range records {
			entries = append(entries, historyEntry{
				ID:        rec.ID(),
				Sequence:  rec.Sequence(),
				Type:      rec.Kind().String(),
				Query:     rec.Query(),
				Results:   rec.ResultCount(),
				CreatedAt: rec.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		return r.writeJSON(entries, true)
	}

	if len(records) == 0 {
		return r.writePlain("No searches recorded yet.\n")
	}

	r.writePlainHeader("Recent searches")
	for _, rec := range records {
		r.writePlain("%4d  %-16s  %-8s  %3d  %s\n",
			rec.Sequence(), rec.CreatedAt().Local().Format("2006-01-02 15:04"), rec.Kind(), rec.ResultCount(), rec.Query())
	}
	return nil
}
