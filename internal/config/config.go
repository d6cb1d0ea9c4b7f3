// Package config loads orgchart settings from the environment and optional
// .env files.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
// Variables already set in the environment win.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config holds all runtime settings.
type Config struct {
	DBPath   string `env:"ORGCHART_DB"`
	RootName string `env:"ORGCHART_ROOT_NAME"`

	LogLevel    string `env:"ORGCHART_LOG_LEVEL"`
	LogFile     string `env:"ORGCHART_LOG_FILE"`
	LogUseCases bool   `env:"ORGCHART_LOG_USECASES"`

	// QueueSize is the capacity of the mirror's response channel.
	QueueSize       int     `env:"ORGCHART_QUEUE_SIZE"`
	MaxDropDistance float64 `env:"ORGCHART_MAX_DROP_DISTANCE"`
}

// DefaultConfig returns the settings used when nothing is configured. The
// store lives at ~/.orgchart/organization.sqlite3.
func DefaultConfig() Config {
	dbPath := "organization.sqlite3"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".orgchart", "organization.sqlite3")
	}
	return Config{
		DBPath:          dbPath,
		RootName:        "Division of Specialized Support Services",
		LogLevel:        "warn",
		QueueSize:       16,
		MaxDropDistance: 1000,
	}
}

// LoadEnv loads the env files that exist and reports how many were read.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads envFiles (DefaultEnvFiles when none are given), then overlays
// ORGCHART_* variables on DefaultConfig.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return Config{}, fmt.Errorf("loading env files: %w", err)
	}

	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("ORGCHART_DB must not be empty")
	}
	if strings.TrimSpace(c.RootName) == "" {
		return fmt.Errorf("ORGCHART_ROOT_NAME must not be empty")
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("ORGCHART_QUEUE_SIZE must be at least 1, got %d", c.QueueSize)
	}
	if c.MaxDropDistance <= 0 {
		return fmt.Errorf("ORGCHART_MAX_DROP_DISTANCE must be positive, got %g", c.MaxDropDistance)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("ORGCHART_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
