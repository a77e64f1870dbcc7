package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./spotsearch.db" {
			t.Errorf("expected database path ./spotsearch.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Search.Limit != 25 {
			t.Errorf("expected search limit 25, got %d", config.Search.Limit)
		}

		if config.Search.FallbackImage != "images/defaultImage.jpg" {
			t.Errorf("unexpected fallback image %s", config.Search.FallbackImage)
		}

		if config.Storage.Driver != "sqlite" {
			t.Errorf("expected sqlite storage driver, got %s", config.Storage.Driver)
		}

		if len(config.Credentials.Spotify.Scopes) != 2 {
			t.Errorf("expected 2 default scopes, got %v", config.Credentials.Spotify.Scopes)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
redirect_uri = "http://localhost:4000/callback"

[search]
limit = 10

[storage]
driver = "bolt"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Search.Limit != 10 {
			t.Errorf("expected limit 10, got %d", config.Search.Limit)
		}
		if config.Storage.Driver != "bolt" {
			t.Errorf("expected bolt driver, got %s", config.Storage.Driver)
		}

		t.Run("missing keys keep defaults", func(t *testing.T) {
			if config.Server.Port != 3000 {
				t.Errorf("expected default port 3000, got %d", config.Server.Port)
			}
			if config.Search.BaseURL != "https://api.spotify.com/v1" {
				t.Errorf("expected default base URL, got %s", config.Search.BaseURL)
			}
		})
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "config.toml")
		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_id"
		config.Search.Limit = 10

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Credentials.Spotify.ClientID != "saved_id" || loaded.Search.Limit != 10 {
			t.Errorf("saved values not preserved: %+v", loaded)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SPOTSEARCH_CLIENT_ID", "env_client")
		t.Setenv("SPOTSEARCH_SEARCH_LIMIT", "10")
		t.Setenv("SPOTSEARCH_STORAGE_DRIVER", "memory")

		config := DefaultConfig()
		if err := ApplyEnv(config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Credentials.Spotify.ClientID != "env_client" {
			t.Errorf("expected env client id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Search.Limit != 10 {
			t.Errorf("expected env limit 10, got %d", config.Search.Limit)
		}
		if config.Storage.Driver != "memory" {
			t.Errorf("expected memory driver, got %s", config.Storage.Driver)
		}
	})

	t.Run("ApplyEnv rejects malformed numbers", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SPOTSEARCH_SEARCH_LIMIT", "lots")

		err := ApplyEnv(DefaultConfig())
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{"limit too small", func(c *Config) { c.Search.Limit = 0 }},
			{"limit too large", func(c *Config) { c.Search.Limit = 51 }},
			{"empty base url", func(c *Config) { c.Search.BaseURL = "" }},
			{"empty driver", func(c *Config) { c.Storage.Driver = "" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("ValidateCredentials", func(t *testing.T) {
		config := DefaultConfig()
		if err := config.ValidateCredentials(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("placeholder client id should be rejected, got %v", err)
		}

		config.Credentials.Spotify.ClientID = "real_id"
		if err := config.ValidateCredentials(); err != nil {
			t.Errorf("expected valid credentials, got %v", err)
		}
	})
}
