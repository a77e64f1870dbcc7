package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadOrDefault("config.toml")
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		Logger:     logger,
	})

	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrServiceUnavailable):
			logger.Fatalf("Spotify is unavailable, try again later: %v", err)
		case errors.Is(err, shared.ErrNotAuthenticated):
			logger.Fatal("not logged in, run 'spotsearch auth login' first")
		case errors.Is(err, shared.ErrMissingCredentials):
			logger.Fatalf("%v (run 'spotsearch setup' to create config.toml)", err)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

// newApp builds the root command around runner.
func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotsearch",
		Usage:   "Search Spotify tracks, albums and playlists from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "Keep the token in memory only",
			},
		},
		Before:   runner.before,
		After:    func(context.Context, *cli.Command) error { return runner.Close() },
		Commands: runner.register(),
	}
}
