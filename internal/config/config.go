// Package config holds all SwiftSell configuration: application settings from
// a YAML file, credential overrides from the environment, and runtime admin
// overrides persisted in the preference store. Precedence, lowest to highest:
// defaults, file, environment, admin bundle.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all SwiftSell configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Application data directory (preferences database, logs)
	DataDir string `yaml:"data_dir"`

	// Generative backend configuration
	Gen GenConfig `yaml:"gen"`

	// Credentials for external services
	Credentials Credentials `yaml:"credentials"`

	// Listing submission
	Listing ListingConfig `yaml:"listing"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// GenConfig configures the generative backend.
type GenConfig struct {
	// ChatModel serves description generation and the assistant session.
	ChatModel string `yaml:"chat_model"`
	// SearchModel serves the web-grounded price estimate.
	SearchModel string `yaml:"search_model"`
	Timeout     string `yaml:"timeout"`
}

// ListingConfig configures the listing submission step.
type ListingConfig struct {
	// SimulatedDelay is how long the placeholder submitter waits before
	// reporting success. Real marketplace integrations replace this seam.
	SimulatedDelay string `yaml:"simulated_delay"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Name:    "swiftsell",
		Version: "1.0.0",
		DataDir: filepath.Join(home, ".swiftsell"),
		Gen: GenConfig{
			ChatModel:   "gemini-2.5-flash",
			SearchModel: "gemini-2.5-flash",
			Timeout:     "2m",
		},
		Listing: ListingConfig{
			SimulatedDelay: "2s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// PreferencesPath returns the SQLite preference store location under the
// data directory.
func (c *Config) PreferencesPath() string {
	return filepath.Join(c.DataDir, "preferences.db")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".swiftsell", "config.yaml")
}

// Load reads configuration from the YAML file at path, then applies
// environment overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Credentials.applyEnv()
	return cfg, nil
}

// Save writes the configuration back to the YAML file at path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
