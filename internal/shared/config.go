package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is the prefix for environment overrides, e.g. SPOTSEARCH_CLIENT_ID.
const EnvPrefix = "spotsearch"

const (
	MinSearchLimit = 1
	MaxSearchLimit = 50
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Search      SearchConfig      `toml:"search"`
	Storage     StorageConfig     `toml:"storage"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the public (PKCE) client settings for Spotify.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	Scopes      []string `toml:"scopes"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SearchConfig controls the search gateway and result rendering.
type SearchConfig struct {
	Limit         int    `toml:"limit"`
	FallbackImage string `toml:"fallback_image"`
	BaseURL       string `toml:"base_url"`
}

// StorageConfig selects where the verifier and access token are persisted.
type StorageConfig struct {
	Driver   string `toml:"driver"`
	BoltPath string `toml:"bolt_path"`
	RedisURL string `toml:"redis_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// envOverrides lists the settings that may be supplied through the environment.
type envOverrides struct {
	ClientID      string `envconfig:"CLIENT_ID"`
	RedirectURI   string `envconfig:"REDIRECT_URI"`
	SearchLimit   int    `envconfig:"SEARCH_LIMIT"`
	StorageDriver string `envconfig:"STORAGE_DRIVER"`
	RedisURL      string `envconfig:"REDIS_URL"`
	DatabasePath  string `envconfig:"DATABASE_PATH"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// LoadOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
// Environment overrides are applied in both cases.
func LoadOrDefault(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overlays SPOTSEARCH_* environment variables onto config.
//
// A .env file in the working directory is loaded first when present.
func ApplyEnv(config *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: .env: %v", ErrInvalidConfig, err)
	}

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if env.ClientID != "" {
		config.Credentials.Spotify.ClientID = env.ClientID
	}
	if env.RedirectURI != "" {
		config.Credentials.Spotify.RedirectURI = env.RedirectURI
	}
	if env.SearchLimit != 0 {
		config.Search.Limit = env.SearchLimit
	}
	if env.StorageDriver != "" {
		config.Storage.Driver = env.StorageDriver
	}
	if env.RedisURL != "" {
		config.Storage.RedisURL = env.RedisURL
	}
	if env.DatabasePath != "" {
		config.Database.Path = env.DatabasePath
	}
	return nil
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.Search.Limit < MinSearchLimit || c.Search.Limit > MaxSearchLimit {
		return fmt.Errorf("%w: search.limit must be between %d and %d, got %d",
			ErrInvalidConfig, MinSearchLimit, MaxSearchLimit, c.Search.Limit)
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("%w: search.base_url is empty", ErrInvalidConfig)
	}
	if c.Storage.Driver == "" {
		return fmt.Errorf("%w: storage.driver is empty", ErrInvalidConfig)
	}
	return nil
}

// ValidateCredentials checks that a usable Spotify client is configured.
func (c *Config) ValidateCredentials() error {
	sp := c.Credentials.Spotify
	if sp.ClientID == "" || sp.ClientID == DefaultConfig().Credentials.Spotify.ClientID {
		return fmt.Errorf("%w: credentials.spotify.client_id must be set in config.toml or SPOTSEARCH_CLIENT_ID", ErrMissingCredentials)
	}
	if sp.RedirectURI == "" {
		return fmt.Errorf("%w: credentials.spotify.redirect_uri is empty", ErrMissingCredentials)
	}
	return nil
}

// SaveConfig writes config as TOML to path, creating parent directories.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
