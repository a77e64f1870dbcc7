package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotsearch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates config.toml from the embedded template when missing, then initializes the database
// and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	config := r.config
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if loaded, err := shared.LoadOrDefault(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			} else {
				config = loaded
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenMigrated(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)

	r.writePlain("✓ Setup complete\n")
	if err := config.ValidateCredentials(); err != nil {
		r.writePlainln("Next steps:")
		r.writePlain("1. Create an app at https://developer.spotify.com/dashboard\n")
		r.writePlain("2. Register the redirect URI %s\n", config.Credentials.Spotify.RedirectURI)
		r.writePlain("3. Set credentials.spotify.client_id in %s (or SPOTSEARCH_CLIENT_ID)\n", configPath)
		r.writePlain("4. Run 'spotsearch auth login'\n")
	}
	return nil
}
