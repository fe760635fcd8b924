package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.RefreshIntervalSec)
	assert.Equal(t, "$", cfg.Display.Currency)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadAppliesDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://billing.example.com\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://billing.example.com", cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.RefreshIntervalSec)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &Config{
		API:      APIConfig{BaseURL: "https://billing.example.com", RefreshIntervalSec: 30},
		Display:  DisplayConfig{Currency: "₹"},
		LogLevel: "debug",
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
