// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spotsearch/internal/server"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the database",
		Action: r.Setup,
	}
}

// authCommand handles the Spotify PKCE login
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in to Spotify and manage the stored token",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in through the browser (authorization code with PKCE)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorize URL instead of opening a browser",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the redirect",
						Value: server.DefaultCallbackTimeout,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:      "callback",
				Usage:     "Complete a login from a pasted redirect URL",
				ArgsUsage: "<redirect-url>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.AuthCallback,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored access token",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the login state and the Spotify profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the profile as JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:      "token",
				Usage:     "Store an access token obtained elsewhere",
				ArgsUsage: "<access-token>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "value"},
				},
				Action: r.AuthToken,
			},
		},
	}
}

// searchCommand runs a single catalog search
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search Spotify for tracks, albums or playlists",
		ArgsUsage: "<track|album|playlist> <query...>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results (1-50)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, csv or markdown",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print the unmodified API response",
			},
		},
		Action: r.Search,
	}
}

// historyCommand lists or clears recorded searches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent searches (sqlite storage only)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of searches to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Delete all recorded searches",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
		},
		Action: r.History,
	}
}

// tuiCommand starts the interactive interface
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive search interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Initial search type",
				Value: "track",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the interface is running",
				Value: "./tmp/spotsearch-tui.log",
			},
		},
		Action: r.TUI,
	}
}
