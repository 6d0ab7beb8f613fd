// Package config loads server and frontend settings from an optional YAML
// file, then applies environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full notes configuration.
type Config struct {
	Listen       string        `yaml:"listen"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	Store        StoreConfig   `yaml:"store"`
	Web          WebConfig     `yaml:"web"`
	Log          LogConfig     `yaml:"log"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite | badger
	Path   string `yaml:"path"`   // database file (sqlite) or directory (badger)
}

// WebConfig configures the HTML frontend and the terminal UI.
type WebConfig struct {
	Listen string `yaml:"listen"`
	APIURL string `yaml:"api_url"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // auto | text | json
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:       ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		CORSOrigins:  []string{"*"},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "notes.db",
		},
		Web: WebConfig{
			Listen: ":8081",
			APIURL: "http://localhost:8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load reads path (skipped when empty) over DefaultConfig, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Listen = ":" + port
	}
	if v := os.Getenv("NOTES_STORE"); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv("NOTES_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("NOTES_API_URL"); v != "" {
		c.Web.APIURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "badger":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unsupported store.driver %q (use memory, sqlite or badger)", c.Store.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("unsupported log.format %q", c.Log.Format)
	}
	return nil
}
