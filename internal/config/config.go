// Package config handles the XDG configuration directory and environment settings.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	// AppName is the application directory name.
	AppName = "fintrack"

	// StorageDir is the durable storage directory inside the config directory.
	StorageDir = "storage"

	// DefaultAPIURL is used when FINTRACK_API_URL is not set.
	DefaultAPIURL = "http://localhost:8080"
)

// Env holds settings read from the process environment (and an optional .env file).
type Env struct {
	APIURL    string `env:"FINTRACK_API_URL" default:"http://localhost:8080"`
	Email     string `env:"FINTRACK_EMAIL"`
	Password  string `env:"FINTRACK_PASSWORD"`
	Locale    string `env:"FINTRACK_LOCALE"`
	LogLevel  string `env:"FINTRACK_LOG_LEVEL" default:"warn"`
	LogFormat string `env:"FINTRACK_LOG_FORMAT" default:"text"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Env
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/fintrack or $HOME/.config/fintrack.
// Environment settings keep their defaults; call LoadEnv to read them.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir: dir,
		Env: Env{APIURL: DefaultAPIURL, LogLevel: "warn", LogFormat: "text"},
	}, nil
}

// LoadEnv fills the environment settings, loading .env from the working
// directory first when one exists.
func (c *Config) LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var e Env
	if err := env.Load(&e, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	e.APIURL = strings.TrimRight(e.APIURL, "/")
	if e.APIURL == "" {
		return fmt.Errorf("FINTRACK_API_URL must not be empty")
	}
	c.Env = e
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// StoragePath returns the durable storage directory.
func (c *Config) StoragePath() string {
	return filepath.Join(c.Dir, StorageDir)
}
