// Package config holds crmdesk configuration, loaded from
// ~/.crmdesk/config.yaml with environment overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all crmdesk configuration.
type Config struct {
	// API is the remote CRM endpoint configuration.
	API APIConfig `yaml:"api"`

	// Session controls where the login token is persisted.
	Session SessionConfig `yaml:"session"`

	// Logging controls the file logger; the terminal belongs to the UI.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the CRM API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
	// AssignedUserID is stamped onto created custom fields.
	AssignedUserID string `yaml:"assigned_user_id"`
}

// SessionConfig configures session-token persistence.
type SessionConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the file logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`
	// DebugMode is the master toggle; when false nothing is written.
	DebugMode bool `yaml:"debug_mode"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	home := homeDir()
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost/vtiger_api",
			Timeout:        "30s",
			AssignedUserID: "19x1",
		},
		Session: SessionConfig{
			DatabasePath: filepath.Join(home, ".crmdesk", "session.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   filepath.Join(home, ".crmdesk", "logs"),
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(homeDir(), ".crmdesk", "config.yaml")
}

// Load reads the config file at path (DefaultPath when empty), falls back
// to defaults when the file is absent, and applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write saves the config to path, creating parent directories.
func (c *Config) Write(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// APITimeout parses the configured timeout, defaulting to 30s on bad input.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CRMDESK_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CRMDESK_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("CRMDESK_SESSION_DB"); v != "" {
		c.Session.DatabasePath = v
	}
	if v := os.Getenv("CRMDESK_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url must not be empty")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
