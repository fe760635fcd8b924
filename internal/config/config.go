// Package config loads the client configuration file with Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the top-level client configuration.
type Config struct {
	// API holds backend connection settings.
	API APIConfig `mapstructure:"api" yaml:"api"`

	// Display holds UI preferences.
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	// BaseURL is the root URL of the billing backend.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// RefreshIntervalSec is how often the background refresher refetches
	// list resources.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// Currency is the symbol prefixed to monetary amounts.
	Currency string `mapstructure:"currency" yaml:"currency"`
}

// DefaultPath returns the default configuration file path,
// ~/.config/tally/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "tally", "config.yaml")
}

// DataDir returns the directory holding the cache database, log file,
// and exports, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "tally")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return dir, nil
}

// defaults returns the configuration used when no file exists.
func defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:            "http://localhost:8080",
			RefreshIntervalSec: 120,
		},
		Display:  DisplayConfig{Currency: "$"},
		LogLevel: "info",
	}
}

// Load reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults; missing keys resolve to their
// default values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.refresh_interval_sec", 120)
	v.SetDefault("display.currency", "$")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.API.RefreshIntervalSec <= 0 {
		cfg.API.RefreshIntervalSec = 120
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file at path, creating parent
// directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("display", cfg.Display)
	v.Set("log_level", cfg.LogLevel)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
